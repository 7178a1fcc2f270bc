// Package sheets implements rowstore.Store on top of a Google spreadsheet: every
// table is a worksheet whose first row holds the column labels.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/rfqdesk/pkg/config"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const defaultRequestTimeout = 20 * time.Second

var errSpreadsheetIDRequired = errors.New("spreadsheet id is required")

// Store talks to one spreadsheet. It keeps no cache; each call hits the API.
type Store struct {
	api           valuesAPI
	spreadsheetID string
	tables        []string
	timeout       time.Duration
	logg          *logger.Logger
}

// New authenticates with the configured service account and returns a store for
// cfg.SpreadsheetID. tables lists the worksheets Ping expects to find.
func New(ctx context.Context, cfg config.SheetsConfig, tables []string, logg *logger.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errSpreadsheetIDRequired
	}
	creds, err := Credentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return newStore(googleValues{svc: svc}, cfg, tables, logg), nil
}

func newStore(api valuesAPI, cfg config.SheetsConfig, tables []string, logg *logger.Logger) *Store {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{
		api:           api,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		tables:        tables,
		timeout:       timeout,
		logg:          logg,
	}
}

func (s *Store) FetchAll(ctx context.Context, table string) ([]rowstore.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	values, err := s.api.Get(ctx, s.spreadsheetID, quoteTitle(table))
	if err != nil {
		return nil, s.translate(err, "fetch", table)
	}
	return toRows(values), nil
}

func (s *Store) Append(ctx context.Context, table string, record rowstore.Record) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	headerValues, err := s.api.Get(ctx, s.spreadsheetID, quoteTitle(table)+"!1:1")
	if err != nil {
		return s.translate(err, "append", table)
	}
	var header []string
	if len(headerValues) > 0 {
		header = headerRow(headerValues[0])
	}
	if len(header) == 0 {
		return pkgerrors.New(pkgerrors.CodeBackendUnavailable, fmt.Sprintf("table %q has no header row", table))
	}

	row := make([]any, len(header))
	for i := range row {
		row[i] = ""
	}
	for key, value := range record {
		col := rowstore.MatchColumn(header, key)
		if col < 0 {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"table": table, "column": key}), "rowstore.column_missing")
			continue
		}
		row[col] = value
	}

	if err := s.api.Append(ctx, s.spreadsheetID, quoteTitle(table), row); err != nil {
		return s.translate(err, "append", table)
	}
	return nil
}

func (s *Store) UpdateAt(ctx context.Context, table string, index int, record rowstore.Record) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	values, err := s.api.Get(ctx, s.spreadsheetID, quoteTitle(table))
	if err != nil {
		return s.translate(err, "update", table)
	}
	if len(values) == 0 || index < 0 || index >= len(values)-1 {
		return rowstore.ErrRowNotFound(table, index)
	}
	header := headerRow(values[0])

	data := make([]*gsheets.ValueRange, 0, len(record))
	for key, value := range record {
		col := rowstore.MatchColumn(header, key)
		if col < 0 {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"table": table, "column": key}), "rowstore.column_missing")
			continue
		}
		// +1 for the 1-based API, +1 for the header row.
		cell, err := excelize.CoordinatesToCellName(col+1, index+2)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building cell reference")
		}
		data = append(data, &gsheets.ValueRange{
			Range:  quoteTitle(table) + "!" + cell,
			Values: [][]any{{value}},
		})
	}
	if len(data) == 0 {
		return nil
	}
	if err := s.api.BatchUpdate(ctx, s.spreadsheetID, data); err != nil {
		return s.translate(err, "update", table)
	}
	return nil
}

// Ping confirms the spreadsheet is reachable and that every expected worksheet exists.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	titles, err := s.api.SheetTitles(ctx, s.spreadsheetID)
	if err != nil {
		return s.translate(err, "ping", s.spreadsheetID)
	}
	present := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		present[t] = struct{}{}
	}
	for _, want := range s.tables {
		if _, ok := present[want]; !ok {
			return rowstore.ErrTableNotFound(want)
		}
	}
	return nil
}

func (s *Store) translate(err error, op, table string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest &&
		strings.Contains(apiErr.Message, "Unable to parse range") {
		return pkgerrors.Wrap(pkgerrors.CodeBackendUnavailable, err, fmt.Sprintf("table %q does not exist", table))
	}
	return rowstore.Unavailable(err, op, table)
}

// quoteTitle wraps a worksheet title for use in A1 notation.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func headerRow(raw []any) []string {
	header := make([]string, len(raw))
	for i, v := range raw {
		header[i] = strings.TrimSpace(rowstore.Stringify(v))
	}
	return header
}

// toRows converts a values grid (header first) into rows. Cells under a blank header
// and cells past the end of a short row are omitted.
func toRows(values [][]any) []rowstore.Row {
	if len(values) == 0 {
		return []rowstore.Row{}
	}
	header := headerRow(values[0])
	rows := make([]rowstore.Row, 0, len(values)-1)
	for i, raw := range values[1:] {
		row := rowstore.Row{Index: i}
		for col, name := range header {
			if name == "" || col >= len(raw) {
				continue
			}
			row.Cells = append(row.Cells, rowstore.Cell{Column: name, Value: rowstore.Stringify(raw[col])})
		}
		rows = append(rows, row)
	}
	return rows
}
