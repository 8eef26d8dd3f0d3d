package models

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is the single-slot status message shown to staff. A new
// notification silently replaces an unacknowledged prior one.
type Notification struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}
