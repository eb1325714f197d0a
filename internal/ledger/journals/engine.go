package journals

import (
	"context"
)

// TxStore is the transactional surface the posting engine writes through.
// Separating it from the full repository lets other domains (invoice intake,
// the void workflow) post entries inside their own transaction.
type TxStore interface {
	// ResolvePostableAccount maps an account code to its id. It fails with
	// ErrUnknownAccount when the code is absent and ErrAccountNotPostable
	// when the code names a grouping account.
	ResolvePostableAccount(ctx context.Context, companyID int64, code string) (int64, error)
	InsertEntry(ctx context.Context, entry JournalEntry) (JournalEntry, error)
	InsertLines(ctx context.Context, entryID int64, lines []JournalLine) error
}

// Post validates and writes one balanced journal entry: a header row plus a
// line per input line, all or nothing within the caller's transaction. An
// unresolvable account code aborts the whole entry; a misconfigured chart of
// accounts must halt posting, never skip a line.
func Post(ctx context.Context, store TxStore, companyID int64, in PostingInput) (JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return JournalEntry{}, err
	}

	lines := make([]JournalLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		accountID, err := store.ResolvePostableAccount(ctx, companyID, line.AccountCode)
		if err != nil {
			return JournalEntry{}, err
		}
		lines = append(lines, JournalLine{
			AccountID:   accountID,
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}

	entry, err := store.InsertEntry(ctx, JournalEntry{
		CompanyID:  companyID,
		SourceType: in.SourceType,
		SourceID:   in.SourceID,
		Narrative:  in.Narrative,
		EntryDate:  in.EntryDate,
		CreatedBy:  in.PostedBy,
	})
	if err != nil {
		return JournalEntry{}, err
	}
	if err := store.InsertLines(ctx, entry.ID, lines); err != nil {
		return JournalEntry{}, err
	}

	for i := range lines {
		lines[i].EntryID = entry.ID
	}
	entry.Lines = lines
	return entry, nil
}
