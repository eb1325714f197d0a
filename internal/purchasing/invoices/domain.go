package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/folio-erp/folio-erp/internal/ledger/journals"
	"github.com/folio-erp/folio-erp/internal/shared"
)

var (
	// ErrDuplicateInvoice indicates the (supplier, invoice number) pair is
	// already registered and not voided.
	ErrDuplicateInvoice = shared.Conflict("invoices: invoice number already registered for supplier")
	// ErrSupplierNotFound indicates the referenced supplier does not exist.
	ErrSupplierNotFound = shared.NotFound("invoices: supplier not found")
	// ErrPostingNotConfigured indicates missing per-company posting accounts.
	// The posting rules cannot resolve, so registration halts.
	ErrPostingNotConfigured = shared.Critical("invoices: posting accounts not configured for company")
	// ErrInvoiceNotFound indicates a missing invoice.
	ErrInvoiceNotFound = shared.NotFound("invoices: invoice not found")
)

// PurchaseInvoice is a registered supplier invoice. Status moves only
// REGISTERED -> VOIDED; rows are never deleted.
type PurchaseInvoice struct {
	ID            int64                   `json:"id"`
	CompanyID     int64                   `json:"company_id"`
	SmartCode     int64                   `json:"smart_code"`
	SupplierID    int64                   `json:"supplier_id"`
	InvoiceNumber string                  `json:"invoice_number"`
	IssueDate     time.Time               `json:"issue_date"`
	DueDate       time.Time               `json:"due_date"`
	NetAmount     decimal.Decimal         `json:"net_amount"`
	TaxAmount     decimal.Decimal         `json:"tax_amount"`
	GrossAmount   decimal.Decimal         `json:"gross_amount"`
	TaxAffected   bool                    `json:"tax_affected"`
	Status        journals.DocumentStatus `json:"status"`
	VoidMotive    *string                 `json:"void_motive,omitempty"`
	CreatedBy     int64                   `json:"created_by"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// RegisterInput carries a new invoice. Gross must equal net plus tax; the
// registry enforces that before the posting engine sees the lines.
type RegisterInput struct {
	SupplierID    int64
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       time.Time
	NetAmount     decimal.Decimal
	TaxAmount     decimal.Decimal
	GrossAmount   decimal.Decimal
	TaxAffected   bool
	RegisteredBy  int64
}

// Validate checks field-level requirements and the gross identity.
func (in RegisterInput) Validate() error {
	if in.SupplierID <= 0 {
		return shared.Validation("invoices: supplier is required")
	}
	if in.InvoiceNumber == "" {
		return shared.Validation("invoices: invoice number is required")
	}
	if in.IssueDate.IsZero() {
		return shared.Validation("invoices: issue date is required")
	}
	if in.NetAmount.IsNegative() || in.TaxAmount.IsNegative() || !in.GrossAmount.IsPositive() {
		return shared.Validation("invoices: amounts must be positive")
	}
	if !in.GrossAmount.Equal(in.NetAmount.Add(in.TaxAmount)) {
		return shared.Validation("invoices: gross must equal net plus tax")
	}
	if !in.TaxAffected && in.TaxAmount.IsPositive() {
		return shared.Validation("invoices: tax amount requires a tax-affected document")
	}
	return nil
}

// PostingAccounts are the per-company fixed accounts invoice intake posts
// against: payable credited for gross, VAT input debited for tax, expense
// debited for net.
type PostingAccounts struct {
	PayableCode  string
	VATInputCode string
	ExpenseCode  string
}

// ListFilters narrows an invoice listing.
type ListFilters struct {
	SupplierID int64
	Status     journals.DocumentStatus
	From       time.Time
	To         time.Time
}
