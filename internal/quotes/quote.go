package quotes

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Quotation column names, in the order the table is created with.
const (
	ColQuoteID        = "QUOTE_ID"
	ColRFQ            = "RFQ"
	ColLineItem       = "LINE_ITEM"
	ColEmployeeID     = "EMPLOYEE_ID"
	ColSupplierName   = "SUPPLIER_NAME"
	ColPrice          = "PRICE"
	ColTaxIncluded    = "TAX_INCLUDED"
	ColOriginalOrCopy = "ORIGINAL_OR_COPY"
	ColDeliveryDays   = "DELIVERY_DAYS"
	ColStartDate      = "START_DATE"
	ColEndDate        = "END_DATE"
)

const (
	taxYes = "نعم"
	taxNo  = "لا"
)

// Header is the column layout used when a quotations table has to be created from scratch.
func Header() []string {
	return []string{
		ColQuoteID, ColRFQ, ColLineItem, ColEmployeeID, ColSupplierName, ColPrice,
		ColTaxIncluded, ColOriginalOrCopy, ColDeliveryDays, ColStartDate, ColEndDate,
	}
}

// NewQuoteID returns Q-<unix millis>-<8 hex chars>. Ids are unlikely to collide but are
// not guaranteed unique.
func NewQuoteID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("Q-%d-%s", now.UnixMilli(), suffix)
}

func taxLabel(included bool) string {
	if included {
		return taxYes
	}
	return taxNo
}
