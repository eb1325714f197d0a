package journals

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	lshared "github.com/folio-erp/folio-erp/internal/ledger/shared"
	"github.com/folio-erp/folio-erp/internal/shared"
)

type fakeAccount struct {
	id       int64
	postable bool
}

type fakeStore struct {
	accounts map[string]fakeAccount
	entries  []JournalEntry
	lines    map[int64][]JournalLine
	nextID   int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: map[string]fakeAccount{
			"21.01": {id: 1, postable: true},  // accounts payable
			"11.05": {id: 2, postable: true},  // VAT input credit
			"41.01": {id: 3, postable: true},  // general expense
			"21":    {id: 4, postable: false}, // grouping header
		},
		lines: make(map[int64][]JournalLine),
	}
}

func (s *fakeStore) ResolvePostableAccount(ctx context.Context, companyID int64, code string) (int64, error) {
	acc, ok := s.accounts[code]
	if !ok {
		return 0, lshared.ErrUnknownAccount
	}
	if !acc.postable {
		return 0, lshared.ErrAccountNotPostable
	}
	return acc.id, nil
}

func (s *fakeStore) InsertEntry(ctx context.Context, entry JournalEntry) (JournalEntry, error) {
	s.nextID++
	entry.ID = s.nextID
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *fakeStore) InsertLines(ctx context.Context, entryID int64, lines []JournalLine) error {
	s.lines[entryID] = append(s.lines[entryID], lines...)
	return nil
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func invoicePosting(lines []PostingLineInput) PostingInput {
	sourceID := int64(77)
	return PostingInput{
		SourceType: SourcePurchaseInvoice,
		SourceID:   &sourceID,
		Narrative:  "Purchase invoice F-1001",
		EntryDate:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		PostedBy:   5,
		Lines:      lines,
	}
}

func TestPostBalancedInvoiceEntry(t *testing.T) {
	store := newFakeStore()
	entry, err := Post(context.Background(), store, 1, invoicePosting([]PostingLineInput{
		{AccountCode: "21.01", Credit: dec(119000)},
		{AccountCode: "11.05", Debit: dec(19000)},
		{AccountCode: "41.01", Debit: dec(100000)},
	}))
	require.NoError(t, err)
	require.NotZero(t, entry.ID)
	require.Len(t, entry.Lines, 3)

	debit := decimal.Zero
	credit := decimal.Zero
	for _, line := range store.lines[entry.ID] {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	require.True(t, debit.Equal(credit), "entry must balance: %s != %s", debit, credit)
	require.True(t, debit.Equal(dec(119000)))
}

func TestPostRejectsUnbalanced(t *testing.T) {
	store := newFakeStore()
	_, err := Post(context.Background(), store, 1, invoicePosting([]PostingLineInput{
		{AccountCode: "21.01", Credit: dec(119000)},
		{AccountCode: "41.01", Debit: dec(100000)},
	}))
	require.ErrorIs(t, err, lshared.ErrUnbalanced)
	require.Empty(t, store.entries)
}

func TestPostRejectsEmptyLines(t *testing.T) {
	store := newFakeStore()
	_, err := Post(context.Background(), store, 1, invoicePosting(nil))
	require.ErrorIs(t, err, lshared.ErrNoLines)
}

func TestPostRejectsTwoSidedLine(t *testing.T) {
	store := newFakeStore()
	_, err := Post(context.Background(), store, 1, invoicePosting([]PostingLineInput{
		{AccountCode: "21.01", Debit: dec(100), Credit: dec(100)},
		{AccountCode: "41.01", Debit: dec(0)},
	}))
	var tagged *shared.Error
	require.ErrorAs(t, err, &tagged)
	require.Equal(t, shared.KindValidation, tagged.Kind)
	require.Empty(t, store.entries)
}

func TestPostRejectsNegativeAmount(t *testing.T) {
	store := newFakeStore()
	_, err := Post(context.Background(), store, 1, invoicePosting([]PostingLineInput{
		{AccountCode: "21.01", Credit: dec(-50)},
		{AccountCode: "41.01", Debit: dec(-50)},
	}))
	var tagged *shared.Error
	require.ErrorAs(t, err, &tagged)
	require.Equal(t, shared.KindValidation, tagged.Kind)
}

func TestPostRejectsZeroLine(t *testing.T) {
	store := newFakeStore()
	_, err := Post(context.Background(), store, 1, invoicePosting([]PostingLineInput{
		{AccountCode: "21.01"},
		{AccountCode: "41.01"},
	}))
	var tagged *shared.Error
	require.ErrorAs(t, err, &tagged)
	require.Equal(t, shared.KindValidation, tagged.Kind)
}

func TestPostUnknownAccountIsCriticalAndAbortsEntry(t *testing.T) {
	store := newFakeStore()
	_, err := Post(context.Background(), store, 1, invoicePosting([]PostingLineInput{
		{AccountCode: "21.01", Credit: dec(1000)},
		{AccountCode: "99.99", Debit: dec(1000)},
	}))
	require.ErrorIs(t, err, lshared.ErrUnknownAccount)

	var tagged *shared.Error
	require.ErrorAs(t, err, &tagged)
	require.Equal(t, shared.KindCritical, tagged.Kind)
	require.Empty(t, store.entries, "no header may be written when an account is missing")
	require.Empty(t, store.lines)
}

func TestPostRejectsGroupingAccount(t *testing.T) {
	store := newFakeStore()
	_, err := Post(context.Background(), store, 1, invoicePosting([]PostingLineInput{
		{AccountCode: "21", Credit: dec(1000)},
		{AccountCode: "41.01", Debit: dec(1000)},
	}))
	require.ErrorIs(t, err, lshared.ErrAccountNotPostable)
	require.Empty(t, store.entries)
}

func TestReverseLinesSwapsSides(t *testing.T) {
	lines := []JournalLine{
		{AccountCode: "21.01", Debit: decimal.Zero, Credit: dec(119000)},
		{AccountCode: "11.05", Debit: dec(19000), Credit: decimal.Zero},
		{AccountCode: "41.01", Debit: dec(100000), Credit: decimal.Zero},
	}
	mirror := ReverseLines(lines)
	require.Len(t, mirror, 3)
	require.True(t, mirror[0].Debit.Equal(dec(119000)))
	require.True(t, mirror[0].Credit.IsZero())
	require.True(t, mirror[1].Credit.Equal(dec(19000)))
	require.True(t, mirror[2].Credit.Equal(dec(100000)))

	// Original plus mirror nets to zero per account.
	for i, line := range lines {
		net := line.Debit.Sub(line.Credit).Add(mirror[i].Debit.Sub(mirror[i].Credit))
		require.True(t, net.IsZero(), "account %s must net to zero", line.AccountCode)
	}
}
