package sheets

import (
	"context"

	gsheets "google.golang.org/api/sheets/v4"
)

const (
	valueRenderFormatted = "FORMATTED_VALUE"
	valueInputUser       = "USER_ENTERED"
	insertRows           = "INSERT_ROWS"
)

// valuesAPI is the slice of the Sheets v4 API the store relies on.
type valuesAPI interface {
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
	Append(ctx context.Context, spreadsheetID, rng string, row []any) error
	BatchUpdate(ctx context.Context, spreadsheetID string, data []*gsheets.ValueRange) error
}

type googleValues struct {
	svc *gsheets.Service
}

func (g googleValues) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	doc, err := g.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(doc.Sheets))
	for _, sh := range doc.Sheets {
		if sh != nil && sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

func (g googleValues) Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, rng).
		ValueRenderOption(valueRenderFormatted).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g googleValues) Append(ctx context.Context, spreadsheetID, rng string, row []any) error {
	_, err := g.svc.Spreadsheets.Values.Append(spreadsheetID, rng, &gsheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption(valueInputUser).
		InsertDataOption(insertRows).
		Context(ctx).
		Do()
	return err
}

func (g googleValues) BatchUpdate(ctx context.Context, spreadsheetID string, data []*gsheets.ValueRange) error {
	_, err := g.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputUser,
		Data:             data,
	}).Context(ctx).Do()
	return err
}
