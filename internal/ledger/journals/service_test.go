package journals

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/folio-erp/folio-erp/internal/shared"
)

type fakeRepo struct {
	*fakeStore
	docs     []ManualDocument
	nextCode int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{fakeStore: newFakeStore(), nextCode: 26330000}
}

func (r *fakeRepo) ListEntries(ctx context.Context, companyID int64) ([]JournalEntry, error) {
	return r.entries, nil
}

func (r *fakeRepo) GetEntry(ctx context.Context, companyID, entryID int64) (JournalEntry, error) {
	for _, entry := range r.entries {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return JournalEntry{}, nil
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	docs := append([]ManualDocument(nil), r.docs...)
	entries := append([]JournalEntry(nil), r.entries...)
	code := r.nextCode
	if err := fn(ctx, r); err != nil {
		r.docs, r.entries, r.nextCode = docs, entries, code
		return err
	}
	return nil
}

func (r *fakeRepo) NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error) {
	code := r.nextCode
	r.nextCode++
	return code, nil
}

func (r *fakeRepo) InsertManualDocument(ctx context.Context, doc ManualDocument) (ManualDocument, error) {
	doc.ID = int64(len(r.docs) + 1000)
	r.docs = append(r.docs, doc)
	return doc, nil
}

func manualInput() ManualEntryInput {
	return ManualEntryInput{
		Narrative: "Monthly depreciation",
		EntryDate: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		PostedBy:  5,
		Lines: []PostingLineInput{
			{AccountCode: "41.01", Debit: dec(25000), Credit: decimal.Zero},
			{AccountCode: "21.01", Debit: decimal.Zero, Credit: dec(25000)},
		},
	}
}

func TestCreateManualRegistersDocumentAndEntry(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	doc, entry, err := svc.CreateManual(context.Background(), 1, manualInput())
	require.NoError(t, err)
	require.Equal(t, int64(26330000), doc.SmartCode)
	require.Equal(t, StatusRegistered, doc.Status)
	require.Equal(t, "Monthly depreciation", doc.Narrative)

	require.Equal(t, SourceManual, entry.SourceType)
	require.Equal(t, doc.ID, *entry.SourceID)
	require.Len(t, entry.Lines, 2)
	require.True(t, entry.Lines[0].Debit.Equal(entry.Lines[1].Credit))
}

func TestCreateManualRequiresNarrative(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	in := manualInput()
	in.Narrative = ""
	_, _, err := svc.CreateManual(context.Background(), 1, in)

	var tagged *shared.Error
	require.ErrorAs(t, err, &tagged)
	require.Equal(t, shared.KindValidation, tagged.Kind)
	require.Empty(t, repo.docs)
}

func TestCreateManualDefaultsEntryDateToNow(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return fixed })

	in := manualInput()
	in.EntryDate = time.Time{}
	doc, entry, err := svc.CreateManual(context.Background(), 1, in)
	require.NoError(t, err)
	require.Equal(t, fixed, doc.EntryDate)
	require.Equal(t, fixed, entry.EntryDate)
}

func TestCreateManualRollsBackOnUnknownAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	in := manualInput()
	in.Lines[0].AccountCode = "99.99"
	_, _, err := svc.CreateManual(context.Background(), 1, in)
	require.Error(t, err)
	require.Empty(t, repo.docs, "document insert must roll back with the failed posting")
	require.Empty(t, repo.entries)
}
