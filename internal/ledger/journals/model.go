package journals

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType identifies the document kind that produced a journal entry.
type SourceType string

const (
	SourcePurchaseInvoice SourceType = "PURCHASE_INVOICE"
	SourceManual          SourceType = "MANUAL"
	SourceVoid            SourceType = "VOID"
)

// DocumentStatus is the lifecycle of a voidable document. REGISTERED is the
// only live state; VOIDED is terminal.
type DocumentStatus string

const (
	StatusRegistered DocumentStatus = "REGISTERED"
	StatusVoided     DocumentStatus = "VOIDED"
)

// JournalEntry is a posting header. Entries are immutable once created;
// corrections are always new entries.
type JournalEntry struct {
	ID         int64         `json:"id"`
	CompanyID  int64         `json:"company_id"`
	SourceType SourceType    `json:"source_type"`
	SourceID   *int64        `json:"source_id,omitempty"`
	Narrative  string        `json:"narrative"`
	EntryDate  time.Time     `json:"entry_date"`
	CreatedBy  int64         `json:"created_by"`
	CreatedAt  time.Time     `json:"created_at"`
	Lines      []JournalLine `json:"lines,omitempty"`
}

// JournalLine carries a debit or a credit for one account, never both.
type JournalLine struct {
	ID          int64           `json:"id"`
	EntryID     int64           `json:"entry_id"`
	AccountID   int64           `json:"account_id"`
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// ManualDocument is a user-entered journal voucher. It is the voidable
// document wrapper around a MANUAL entry, and also the shape a void mirror
// takes (born VOIDED, existing only to record the reversal).
type ManualDocument struct {
	ID        int64           `json:"id"`
	CompanyID int64           `json:"company_id"`
	SmartCode int64           `json:"smart_code"`
	Narrative string          `json:"narrative"`
	EntryDate time.Time       `json:"entry_date"`
	Status    DocumentStatus  `json:"status"`
	CreatedBy int64           `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}
