package voiding

import (
	"github.com/folio-erp/folio-erp/internal/ledger/journals"
)

// DocumentKind tells which registry a smart code resolved against.
type DocumentKind string

const (
	KindInvoice DocumentKind = "invoice"
	KindManual  DocumentKind = "manual"
)

// Document is the registry-independent view of a voidable document.
type Document struct {
	Kind      DocumentKind
	ID        int64
	SmartCode int64
	Status    journals.DocumentStatus
}

// VoidInput wraps the parameters of a void request.
type VoidInput struct {
	DocumentCode int64
	Motive       string
	ActorID      int64
}

// VoidResult reports what the reversal produced.
type VoidResult struct {
	OriginalCode    int64 `json:"original_code"`
	MirrorCode      int64 `json:"mirror_code"`
	MirrorID        int64 `json:"mirror_id"`
	ReversalEntryID int64 `json:"reversal_entry_id"`
}
