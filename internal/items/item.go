package items

import (
	"strings"

	"github.com/angelmondragon/rfqdesk/internal/schema"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
)

// Item is the canonical view of a row of the items table.
type Item struct {
	Index         int
	RFQ           string
	LineItem      string
	Description   string
	Quantity      string
	UnitOfMeasure string
	PartNumber    string
	Price         string
	RequestDate   string
	ResponseDate  string
	Owners        []string
}

// FromRow resolves every logical field of an item row through the alias tables.
func FromRow(row rowstore.Row) Item {
	return Item{
		Index:         row.Index,
		RFQ:           schema.ResolveFieldAnyAlias(row, schema.RFQAliases...),
		LineItem:      schema.ResolveFieldAnyAlias(row, schema.LineItemAliases...),
		Description:   schema.ResolveFieldAnyAlias(row, schema.DescriptionAliases...),
		Quantity:      schema.ResolveFieldAnyAlias(row, schema.QuantityAliases...),
		UnitOfMeasure: schema.ResolveFieldAnyAlias(row, schema.UOMAliases...),
		PartNumber:    schema.ResolveFieldAnyAlias(row, schema.PartNumberAliases...),
		Price:         schema.ResolveFieldAnyAlias(row, schema.PriceAliases...),
		RequestDate:   schema.ResolveFieldAnyAlias(row, schema.RequestDateAliases...),
		ResponseDate:  schema.ResolveFieldAnyAlias(row, schema.ResponseDateAliases...),
		Owners:        schema.Owners(row),
	}
}

// Matches reports whether the item is the (rfq, lineItem) pair, compared trimmed.
func (i Item) Matches(rfq, lineItem string) bool {
	return strings.TrimSpace(i.RFQ) == strings.TrimSpace(rfq) &&
		strings.TrimSpace(i.LineItem) == strings.TrimSpace(lineItem)
}

// ImageSubject is the text the product image is generated from.
func (i Item) ImageSubject() string {
	if s := strings.TrimSpace(i.Description); s != "" {
		return s
	}
	if s := strings.TrimSpace(i.LineItem); s != "" {
		return s
	}
	return "item"
}

// Header is the column layout used when an items table has to be created from scratch.
func Header() []string {
	return []string{"RFQ", "LINE_ITEM", "DESCRIPTION", "QTY", "UOM", "PART_NO", "PRICE", "DATE_RQ", "RES_DATE", "EMPLOYEE_ID"}
}
