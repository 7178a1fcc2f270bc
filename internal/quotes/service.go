package quotes

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
	"github.com/shopspring/decimal"
)

const (
	msgMissingFields   = "جميع الحقول مطلوب"
	msgStartTooEarly   = "يجب أن يكون تاريخ البدء بعد غد على الأقل"
	msgInvalidStart    = "تاريخ البدء غير صالح"
	msgInvalidPrice    = "السعر غير صالح"
	msgInvalidDelivery = "مدة التوريد غير صالحة"
	msgSubmitted       = "تم إضافة عرض السعر بنجاح"

	// minStartOffsetDays is how many calendar days after today the earliest start may be.
	minStartOffsetDays = 2
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006/01/02"}

// Service defines the behavior needed by the add-quote controller.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error)
}

type service struct {
	store    rowstore.Store
	table    string
	location *time.Location
	now      func() time.Time
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build a quotes service.
type ServiceParams struct {
	Store rowstore.Store
	Table string
	// Location decides what "today" is for the start-date rule. Defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
	Logger   *logger.Logger
}

// NewService constructs a quote submission service.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("row store is required")
	}
	if strings.TrimSpace(params.Table) == "" {
		return nil, fmt.Errorf("quotations table is required")
	}
	svc := &service{
		store:    params.Store,
		table:    params.Table,
		location: params.Location,
		now:      params.Now,
		logg:     params.Logger,
	}
	if svc.location == nil {
		svc.location = time.Local
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	return svc, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if missing := missingFields(req); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgMissingFields).
			WithDetails(map[string]any{"missing": missing})
	}

	now := s.now()
	start, err := parseDate(req.StartDate.String(), s.location)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidStart).
			WithDetails(map[string]any{"field": "startDate"})
	}
	if !startDateAllowed(start, now.In(s.location)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgStartTooEarly)
	}

	price, err := decimal.NewFromString(req.Price.String())
	if err != nil || price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidPrice).
			WithDetails(map[string]any{"field": "price"})
	}
	days, err := decimal.NewFromString(req.DeliveryDays.String())
	if err != nil || days.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidDelivery).
			WithDetails(map[string]any{"field": "deliveryDays"})
	}

	quoteID := NewQuoteID(now)
	record := rowstore.Record{
		ColQuoteID:        quoteID,
		ColRFQ:            req.RFQ.String(),
		ColLineItem:       req.LineItem.String(),
		ColEmployeeID:     req.EmployeeID.String(),
		ColSupplierName:   req.SupplierName.String(),
		ColPrice:          price.InexactFloat64(),
		ColTaxIncluded:    taxLabel(*req.TaxIncluded),
		ColOriginalOrCopy: req.OriginalOrCopy.String(),
		ColDeliveryDays:   days.IntPart(),
		ColStartDate:      req.StartDate.String(),
		ColEndDate:        req.EndDate.String(),
	}
	if err := s.store.Append(ctx, s.table, record); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithEmployeeID(ctx, req.EmployeeID.String()), map[string]any{
		"quote_id": quoteID,
		"rfq":      req.RFQ.String(),
	}), "quotes.submitted")

	return &SubmitResponse{Success: true, Message: msgSubmitted, QuoteID: quoteID}, nil
}

func missingFields(req SubmitRequest) []string {
	fields := []struct {
		name  string
		value string
	}{
		{"employeeId", req.EmployeeID.String()},
		{"rfq", req.RFQ.String()},
		{"lineItem", req.LineItem.String()},
		{"supplierName", req.SupplierName.String()},
		{"price", req.Price.String()},
		{"originalOrCopy", req.OriginalOrCopy.String()},
		{"deliveryDays", req.DeliveryDays.String()},
		{"startDate", req.StartDate.String()},
		{"endDate", req.EndDate.String()},
	}
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if req.TaxIncluded == nil {
		missing = append(missing, "taxIncluded")
	}
	return missing
}

// parseDate reads a calendar date. Date-only layouts are interpreted in loc.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// startDateAllowed reports whether start falls on or after the day after tomorrow.
func startDateAllowed(start, now time.Time) bool {
	today := midnight(now)
	earliest := today.AddDate(0, 0, minStartOffsetDays)
	return !midnight(start).Before(earliest)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
