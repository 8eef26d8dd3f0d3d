package models

// BankDue is one row of the bank-due report fetched from the upstream.
type BankDue struct {
	ID        string  `json:"_id"`
	StudentID string  `json:"StudentID"`
	BankName  string  `json:"BankName"`
	Amount    float64 `json:"Amount"`
	Date      string  `json:"Date"`
	ReceiptNo string  `json:"ReceiptNo"`
	Settled   bool    `json:"Settled"`
}

// CategoryTotal aggregates outstanding dues for one fee category.
type CategoryTotal struct {
	Category FeeCategory `json:"category"`
	Count    int         `json:"count"`
	Amount   float64     `json:"amount"`
}

// FeeTotals feeds the insights charts screen.
type FeeTotals struct {
	Categories []CategoryTotal `json:"categories"`
	GrandTotal float64         `json:"grand_total"`
	TotalDues  int             `json:"total_dues"`
}

// UploadResult summarises a fee-record CSV upload.
type UploadResult struct {
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// FeeRecord is one uploaded fee row, pushed to the upstream per category.
type FeeRecord struct {
	StudentID string      `json:"StudentID"`
	ReceiptNo string      `json:"ReceiptNo"`
	Amount    float64     `json:"Amount"`
	Date      string      `json:"Date"`
	Category  FeeCategory `json:"-"`
}
