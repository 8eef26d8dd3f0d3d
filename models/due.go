package models

// FeeCategory is one of the fixed due types. The set is closed: every
// category used in an upstream request must be a key of CategorySchemas.
type FeeCategory string

const (
	TutionFee FeeCategory = "TutionFee"
	HostelFee FeeCategory = "HostelFee"
	Others    FeeCategory = "Others"
)

// CategorySchemas maps each category to the backend model name it is
// stored under. No dynamic categories.
var CategorySchemas = map[FeeCategory]string{
	TutionFee: "TutionFeeSchema",
	HostelFee: "HostelFeeSchema",
	Others:    "OtherFromMSI",
}

func (c FeeCategory) Valid() bool {
	_, ok := CategorySchemas[c]
	return ok
}

// SchemaName returns the backend model name, or "" for an unknown category.
func (c FeeCategory) SchemaName() string {
	return CategorySchemas[c]
}

// Due is one outstanding fee obligation as the upstream API returns it.
// Dues are fetched transiently per lookup and never persisted here.
type Due struct {
	ID        string  `json:"_id"`
	ReceiptNo string  `json:"ReceiptNo"`
	Amount    float64 `json:"Amount"`
	Date      string  `json:"Date"`
	StudentID string  `json:"StudentID,omitempty"`
	Category  string  `json:"Category,omitempty"`
}

// DueDetails is the projection shown once a due number is selected.
type DueDetails struct {
	DueNumber string  `json:"due_number"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"due_date"`
}

// TransferRequest asks the upstream to reassign one due between categories.
type TransferRequest struct {
	StudentID           string      `json:"student_id" binding:"required"`
	SourceCategory      FeeCategory `json:"source_category" binding:"required"`
	DestinationCategory FeeCategory `json:"destination_category" binding:"required"`
	DueNumber           string      `json:"due_number" binding:"required"`
}

// FetchDuesRequest carries the wizard lookup parameters. DestinationCategory
// is not part of the upstream request but is required before the lookup
// fires, so staff cannot reach the transfer step half-configured.
type FetchDuesRequest struct {
	StudentID           string      `json:"student_id"`
	SourceCategory      FeeCategory `json:"source_category"`
	DestinationCategory FeeCategory `json:"destination_category"`
}
