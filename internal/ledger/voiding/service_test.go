package voiding

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/folio-erp/folio-erp/internal/ledger/journals"
	lshared "github.com/folio-erp/folio-erp/internal/ledger/shared"
)

type fakeDoc struct {
	id        int64
	smartCode int64
	status    journals.DocumentStatus
}

type sourceKey struct {
	sourceType journals.SourceType
	sourceID   int64
}

type memoryVoidRepo struct {
	invoices map[int64]*fakeDoc // by smart code
	manuals  map[int64]*fakeDoc
	lines    map[sourceKey][]journals.JournalLine
	accounts map[string]int64

	entries  []journals.JournalEntry
	nextID   int64
	nextCode int64
}

func newMemoryVoidRepo() *memoryVoidRepo {
	return &memoryVoidRepo{
		invoices: make(map[int64]*fakeDoc),
		manuals:  make(map[int64]*fakeDoc),
		lines:    make(map[sourceKey][]journals.JournalLine),
		accounts: map[string]int64{"21.01": 1, "11.05": 2, "41.01": 3},
		nextCode: 26330000,
	}
}

func (r *memoryVoidRepo) seedInvoice(code int64, lines []journals.JournalLine) *fakeDoc {
	r.nextID++
	doc := &fakeDoc{id: r.nextID, smartCode: code, status: journals.StatusRegistered}
	r.invoices[code] = doc
	r.lines[sourceKey{journals.SourcePurchaseInvoice, doc.id}] = lines
	return doc
}

func (r *memoryVoidRepo) seedManual(code int64, lines []journals.JournalLine) *fakeDoc {
	r.nextID++
	doc := &fakeDoc{id: r.nextID, smartCode: code, status: journals.StatusRegistered}
	r.manuals[code] = doc
	r.lines[sourceKey{journals.SourceManual, doc.id}] = lines
	return doc
}

// WithTx snapshots state and restores it when fn fails, emulating rollback.
func (r *memoryVoidRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	snapshot := r.clone()
	if err := fn(ctx, r); err != nil {
		*r = *snapshot
		return err
	}
	return nil
}

func (r *memoryVoidRepo) clone() *memoryVoidRepo {
	cp := newMemoryVoidRepo()
	cp.nextID = r.nextID
	cp.nextCode = r.nextCode
	cp.entries = append([]journals.JournalEntry(nil), r.entries...)
	for k, v := range r.invoices {
		doc := *v
		cp.invoices[k] = &doc
	}
	for k, v := range r.manuals {
		doc := *v
		cp.manuals[k] = &doc
	}
	for k, v := range r.lines {
		cp.lines[k] = append([]journals.JournalLine(nil), v...)
	}
	return cp
}

func (r *memoryVoidRepo) ResolvePostableAccount(ctx context.Context, companyID int64, code string) (int64, error) {
	id, ok := r.accounts[code]
	if !ok {
		return 0, lshared.ErrUnknownAccount
	}
	return id, nil
}

func (r *memoryVoidRepo) InsertEntry(ctx context.Context, entry journals.JournalEntry) (journals.JournalEntry, error) {
	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *memoryVoidRepo) InsertLines(ctx context.Context, entryID int64, lines []journals.JournalLine) error {
	for i := range r.entries {
		if r.entries[i].ID == entryID {
			r.entries[i].Lines = lines
			if r.entries[i].SourceID != nil {
				r.lines[sourceKey{r.entries[i].SourceType, *r.entries[i].SourceID}] = lines
			}
		}
	}
	return nil
}

func (r *memoryVoidRepo) FindInvoiceBySmartCode(ctx context.Context, companyID, code int64) (Document, bool, error) {
	doc, ok := r.invoices[code]
	if !ok {
		return Document{}, false, nil
	}
	return Document{Kind: KindInvoice, ID: doc.id, SmartCode: doc.smartCode, Status: doc.status}, true, nil
}

func (r *memoryVoidRepo) FindManualBySmartCode(ctx context.Context, companyID, code int64) (Document, bool, error) {
	doc, ok := r.manuals[code]
	if !ok {
		return Document{}, false, nil
	}
	return Document{Kind: KindManual, ID: doc.id, SmartCode: doc.smartCode, Status: doc.status}, true, nil
}

func (r *memoryVoidRepo) LinesForSource(ctx context.Context, companyID int64, sourceType journals.SourceType, sourceID int64) ([]journals.JournalLine, error) {
	return r.lines[sourceKey{sourceType, sourceID}], nil
}

func (r *memoryVoidRepo) NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error) {
	code := r.nextCode
	r.nextCode++
	return code, nil
}

func (r *memoryVoidRepo) InsertMirrorDocument(ctx context.Context, doc journals.ManualDocument) (journals.ManualDocument, error) {
	r.nextID++
	doc.ID = r.nextID
	r.manuals[doc.SmartCode] = &fakeDoc{id: doc.ID, smartCode: doc.SmartCode, status: doc.Status}
	return doc, nil
}

func (r *memoryVoidRepo) MarkInvoiceVoided(ctx context.Context, companyID, invoiceID int64, motive string) error {
	for _, doc := range r.invoices {
		if doc.id == invoiceID {
			doc.status = journals.StatusVoided
			return nil
		}
	}
	return fmt.Errorf("invoice %d not found", invoiceID)
}

func (r *memoryVoidRepo) MarkManualVoided(ctx context.Context, companyID, manualID int64) error {
	for _, doc := range r.manuals {
		if doc.id == manualID {
			doc.status = journals.StatusVoided
			return nil
		}
	}
	return fmt.Errorf("manual %d not found", manualID)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func invoiceLines() []journals.JournalLine {
	return []journals.JournalLine{
		{AccountID: 1, AccountCode: "21.01", Debit: decimal.Zero, Credit: dec(119000)},
		{AccountID: 2, AccountCode: "11.05", Debit: dec(19000), Credit: decimal.Zero},
		{AccountID: 3, AccountCode: "41.01", Debit: dec(100000), Credit: decimal.Zero},
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
}

func TestVoidInvoiceCreatesMirrorAndFlagsOriginal(t *testing.T) {
	repo := newMemoryVoidRepo()
	repo.seedInvoice(26260000, invoiceLines())
	svc := NewService(repo, nil, nil)
	svc.WithNow(fixedNow)

	result, err := svc.Void(context.Background(), 1, VoidInput{DocumentCode: 26260000, Motive: "wrong supplier", ActorID: 9})
	require.NoError(t, err)
	require.Equal(t, int64(26260000), result.OriginalCode)
	require.NotZero(t, result.ReversalEntryID)

	require.Equal(t, journals.StatusVoided, repo.invoices[26260000].status)

	mirror, ok := repo.manuals[result.MirrorCode]
	require.True(t, ok, "mirror document must exist under its new smart code")
	require.Equal(t, journals.StatusVoided, mirror.status, "mirror is born VOIDED")

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	require.Equal(t, journals.SourceVoid, entry.SourceType)
	require.Equal(t, mirror.id, *entry.SourceID)
	require.Contains(t, entry.Narrative, "26260000")
	require.Contains(t, entry.Narrative, "wrong supplier")
	require.Equal(t, fixedNow(), entry.EntryDate, "mirror is dated at void time")

	// Mirror swaps sides: payable debited, VAT and expense credited.
	require.True(t, entry.Lines[0].Debit.Equal(dec(119000)))
	require.True(t, entry.Lines[1].Credit.Equal(dec(19000)))
	require.True(t, entry.Lines[2].Credit.Equal(dec(100000)))

	// Combined net per account is exactly zero.
	original := invoiceLines()
	for i := range original {
		net := original[i].Debit.Sub(original[i].Credit).
			Add(entry.Lines[i].Debit.Sub(entry.Lines[i].Credit))
		require.True(t, net.IsZero())
	}
}

func TestVoidTwiceFailsAndWritesNothing(t *testing.T) {
	repo := newMemoryVoidRepo()
	repo.seedInvoice(26260000, invoiceLines())
	svc := NewService(repo, nil, nil)
	svc.WithNow(fixedNow)

	_, err := svc.Void(context.Background(), 1, VoidInput{DocumentCode: 26260000, Motive: "dup", ActorID: 9})
	require.NoError(t, err)
	entriesAfterFirst := len(repo.entries)
	manualsAfterFirst := len(repo.manuals)

	_, err = svc.Void(context.Background(), 1, VoidInput{DocumentCode: 26260000, Motive: "dup again", ActorID: 9})
	require.ErrorIs(t, err, lshared.ErrAlreadyVoided)
	require.Len(t, repo.entries, entriesAfterFirst, "second void must add no journal rows")
	require.Len(t, repo.manuals, manualsAfterFirst)
}

func TestVoidManualEntry(t *testing.T) {
	repo := newMemoryVoidRepo()
	repo.nextCode = 26330001
	repo.seedManual(26330000, []journals.JournalLine{
		{AccountID: 3, AccountCode: "41.01", Debit: dec(5000), Credit: decimal.Zero},
		{AccountID: 1, AccountCode: "21.01", Debit: decimal.Zero, Credit: dec(5000)},
	})
	svc := NewService(repo, nil, nil)
	svc.WithNow(fixedNow)

	result, err := svc.Void(context.Background(), 1, VoidInput{DocumentCode: 26330000, Motive: "keyed wrong amount", ActorID: 2})
	require.NoError(t, err)
	require.Equal(t, journals.StatusVoided, repo.manuals[26330000].status)
	require.NotEqual(t, result.OriginalCode, result.MirrorCode)
}

func TestVoidUnknownCode(t *testing.T) {
	repo := newMemoryVoidRepo()
	svc := NewService(repo, nil, nil)

	_, err := svc.Void(context.Background(), 1, VoidInput{DocumentCode: 404, Motive: "missing", ActorID: 1})
	require.ErrorIs(t, err, lshared.ErrDocumentNotFound)
}

func TestVoidRequiresMotive(t *testing.T) {
	repo := newMemoryVoidRepo()
	repo.seedInvoice(26260000, invoiceLines())
	svc := NewService(repo, nil, nil)

	_, err := svc.Void(context.Background(), 1, VoidInput{DocumentCode: 26260000, ActorID: 1})
	require.ErrorIs(t, err, lshared.ErrMotiveRequired)
	require.Equal(t, journals.StatusRegistered, repo.invoices[26260000].status)
}

func TestVoidRollsBackWhenPostingFails(t *testing.T) {
	repo := newMemoryVoidRepo()
	// Lines referencing an account missing from the chart make the mirror
	// posting fail after the mirror document was inserted.
	repo.seedInvoice(26260000, []journals.JournalLine{
		{AccountID: 8, AccountCode: "88.88", Debit: dec(100), Credit: decimal.Zero},
		{AccountID: 1, AccountCode: "21.01", Debit: decimal.Zero, Credit: dec(100)},
	})
	svc := NewService(repo, nil, nil)
	svc.WithNow(fixedNow)

	_, err := svc.Void(context.Background(), 1, VoidInput{DocumentCode: 26260000, Motive: "bad chart", ActorID: 1})
	require.ErrorIs(t, err, lshared.ErrUnknownAccount)
	require.Equal(t, journals.StatusRegistered, repo.invoices[26260000].status, "original must stay REGISTERED after rollback")
	require.Empty(t, repo.entries)
	require.Len(t, repo.manuals, 0, "mirror insert must be rolled back")
}

type captureVoidCache struct {
	invalidated []int64
}

func (c *captureVoidCache) Invalidate(_ context.Context, companyID int64) error {
	c.invalidated = append(c.invalidated, companyID)
	return nil
}

func TestVoidInvalidatesReportCache(t *testing.T) {
	repo := newMemoryVoidRepo()
	repo.seedInvoice(26260000, invoiceLines())
	cache := &captureVoidCache{}
	svc := NewService(repo, nil, cache)
	svc.WithNow(fixedNow)

	_, err := svc.Void(context.Background(), 1, VoidInput{DocumentCode: 26260000, Motive: "wrong supplier", ActorID: 9})
	require.NoError(t, err)
	require.Equal(t, []int64{1}, cache.invalidated)

	// A failed void must not touch the cache.
	_, err = svc.Void(context.Background(), 1, VoidInput{DocumentCode: 26260000, Motive: "again", ActorID: 9})
	require.Error(t, err)
	require.Equal(t, []int64{1}, cache.invalidated)
}
