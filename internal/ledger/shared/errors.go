// Package shared holds the error taxonomy for the ledger domain.
package shared

import "github.com/folio-erp/folio-erp/internal/shared"

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = shared.Validation("ledger: journal lines must balance")
	// ErrNoLines indicates a posting without lines.
	ErrNoLines = shared.Validation("ledger: journal requires at least one line")
	// ErrUnknownAccount indicates a posting references an account code absent
	// from the chart of accounts. This is an integrity violation: the chart
	// is out of sync with the posting rules, so the whole entry aborts.
	ErrUnknownAccount = shared.Critical("ledger: account code not found in chart of accounts")
	// ErrAccountNotPostable indicates a grouping account was used on a line.
	ErrAccountNotPostable = shared.Critical("ledger: account is not postable")
	// ErrEntryNotFound indicates a missing journal entry.
	ErrEntryNotFound = shared.NotFound("ledger: journal entry not found")
	// ErrDocumentNotFound indicates no invoice or manual entry matches a code.
	ErrDocumentNotFound = shared.NotFound("ledger: document not found")
	// ErrAlreadyVoided indicates the document was voided before.
	ErrAlreadyVoided = shared.Conflict("ledger: document already voided")
	// ErrMotiveRequired indicates a void without a motive.
	ErrMotiveRequired = shared.Validation("ledger: void motive is required")
	// ErrSequenceNotFound indicates an unseeded sequence entity.
	ErrSequenceNotFound = shared.NotFound("ledger: sequence entity not found")
)
