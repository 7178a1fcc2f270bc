package quotes

import "github.com/angelmondragon/rfqdesk/pkg/types"

// SubmitRequest is the body of POST /api/add-quote. TaxIncluded is a pointer so an
// explicit false can be told apart from a missing value.
type SubmitRequest struct {
	EmployeeID     types.FlexString `json:"employeeId"`
	RFQ            types.FlexString `json:"rfq"`
	LineItem       types.FlexString `json:"lineItem"`
	SupplierName   types.FlexString `json:"supplierName"`
	Price          types.FlexString `json:"price"`
	TaxIncluded    *bool            `json:"taxIncluded"`
	OriginalOrCopy types.FlexString `json:"originalOrCopy"`
	DeliveryDays   types.FlexString `json:"deliveryDays"`
	StartDate      types.FlexString `json:"startDate"`
	EndDate        types.FlexString `json:"endDate"`
}

// SubmitResponse is returned when the quotation row was appended.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	QuoteID string `json:"quoteId"`
}
