package items

// Summary is one entry of the item list.
type Summary struct {
	RFQ         string `json:"rfq"`
	LineItem    string `json:"line_item"`
	Description string `json:"description"`
	Quantity    string `json:"qty"`
	Price       string `json:"price"`
}

// ListResponse is returned by GET /api/items.
type ListResponse struct {
	Success bool      `json:"success"`
	Items   []Summary `json:"items"`
}

// Detail is the full item shown in the detail view.
type Detail struct {
	RFQ          string `json:"rfq"`
	LineItem     string `json:"line_item"`
	UOM          string `json:"uom"`
	PartNumber   string `json:"part_no"`
	Description  string `json:"description"`
	RequestDate  string `json:"date_rq"`
	ResponseDate string `json:"res_date"`
	Quantity     string `json:"qty"`
	Price        string `json:"price"`
}

// DetailRequest selects an item by its RFQ and line item.
type DetailRequest struct {
	RFQ             string
	LineItem        string
	WithDescription bool
}

// DetailResponse is returned by GET /api/item-details. ImageURL is null when no image
// could be produced.
type DetailResponse struct {
	Success           bool    `json:"success"`
	Item              Detail  `json:"item"`
	ImageURL          *string `json:"imageUrl"`
	ArabicDescription string  `json:"arabicDescription,omitempty"`
}

func (i Item) summary() Summary {
	return Summary{
		RFQ:         i.RFQ,
		LineItem:    i.LineItem,
		Description: i.Description,
		Quantity:    i.Quantity,
		Price:       i.Price,
	}
}

func (i Item) detail() Detail {
	return Detail{
		RFQ:          i.RFQ,
		LineItem:     i.LineItem,
		UOM:          i.UnitOfMeasure,
		PartNumber:   i.PartNumber,
		Description:  i.Description,
		RequestDate:  i.RequestDate,
		ResponseDate: i.ResponseDate,
		Quantity:     i.Quantity,
		Price:        i.Price,
	}
}
