package quotations

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/folio-erp/folio-erp/internal/shared"
)

var (
	// ErrQuotationNotFound indicates a missing quotation.
	ErrQuotationNotFound = shared.NotFound("quotations: quotation not found")
	// ErrClientNotFound indicates the referenced client does not exist.
	ErrClientNotFound = shared.NotFound("quotations: client not found")
	// ErrInvalidTransition indicates a disallowed status change.
	ErrInvalidTransition = shared.Conflict("quotations: invalid status transition")
)

// Status is the quotation lifecycle. Quotes never post to the ledger; the
// status only tracks the commercial conversation.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusSent     Status = "SENT"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// transitions maps each status to the states it may move to.
var transitions = map[Status][]Status{
	StatusDraft: {StatusSent, StatusAccepted, StatusRejected},
	StatusSent:  {StatusAccepted, StatusRejected},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Quotation is a per-company sales quote with its own smart code.
type Quotation struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"company_id"`
	SmartCode   int64           `json:"smart_code"`
	ClientID    int64           `json:"client_id"`
	ClientName  string          `json:"client_name,omitempty"`
	ClientEmail string          `json:"client_email,omitempty"`
	IssueDate   time.Time       `json:"issue_date"`
	ValidUntil  time.Time       `json:"valid_until"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	Status      Status          `json:"status"`
	Notes       string          `json:"notes,omitempty"`
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Lines       []Line          `json:"lines,omitempty"`
}

// Line is one quoted item.
type Line struct {
	ID          int64           `json:"id"`
	QuotationID int64           `json:"quotation_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// LineInput is one requested item; the service computes the line total.
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreateInput carries a new quotation request.
type CreateInput struct {
	ClientID    int64
	IssueDate   time.Time
	ValidUntil  time.Time
	TaxAffected bool
	Notes       string
	CreatedBy   int64
	Lines       []LineInput
}

// Validate checks field-level requirements.
func (in CreateInput) Validate() error {
	if in.ClientID <= 0 {
		return shared.Validation("quotations: client is required")
	}
	if in.IssueDate.IsZero() {
		return shared.Validation("quotations: issue date is required")
	}
	if len(in.Lines) == 0 {
		return shared.Validation("quotations: at least one line is required")
	}
	for _, line := range in.Lines {
		if line.Description == "" {
			return shared.Validation("quotations: line description is required")
		}
		if !line.Quantity.IsPositive() {
			return shared.Validation("quotations: line quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return shared.Validation("quotations: line unit price cannot be negative")
		}
	}
	return nil
}
