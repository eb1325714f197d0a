package journals

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	lshared "github.com/folio-erp/folio-erp/internal/ledger/shared"
	"github.com/folio-erp/folio-erp/internal/shared"
)

// PostingLineInput describes one journal line by account code.
type PostingLineInput struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// PostingInput groups the fields required to create a journal entry.
type PostingInput struct {
	SourceType SourceType
	SourceID   *int64
	Narrative  string
	EntryDate  time.Time
	PostedBy   int64
	Lines      []PostingLineInput
}

// Validate enforces the double-entry preconditions before any row is
// written: non-empty lines, each line strictly one-sided with no negative
// amounts, and total debits equal to total credits exactly.
func (in PostingInput) Validate() error {
	if len(in.Lines) == 0 {
		return lshared.ErrNoLines
	}
	debit := decimal.Zero
	credit := decimal.Zero
	for idx, line := range in.Lines {
		if line.AccountCode == "" {
			return shared.Validation(fmt.Sprintf("ledger: line %d missing account code", idx))
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return shared.Validation(fmt.Sprintf("ledger: line %d has a negative amount", idx))
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return shared.Validation(fmt.Sprintf("ledger: line %d cannot carry both debit and credit", idx))
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return shared.Validation(fmt.Sprintf("ledger: line %d carries no amount", idx))
		}
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		return lshared.ErrUnbalanced
	}
	switch in.SourceType {
	case SourcePurchaseInvoice, SourceManual, SourceVoid:
	default:
		return shared.Validation("ledger: unknown source type")
	}
	return nil
}

// ManualEntryInput is the request shape for a user-entered journal voucher.
type ManualEntryInput struct {
	Narrative string
	EntryDate time.Time
	PostedBy  int64
	Lines     []PostingLineInput
}

// ReverseLines returns the sign-mirror of lines: debit and credit swapped
// per line, so original plus mirror net to zero on every touched account.
func ReverseLines(lines []JournalLine) []PostingLineInput {
	out := make([]PostingLineInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, PostingLineInput{
			AccountCode: line.AccountCode,
			Debit:       line.Credit,
			Credit:      line.Debit,
		})
	}
	return out
}
