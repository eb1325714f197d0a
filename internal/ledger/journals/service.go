package journals

import (
	"context"
	"fmt"
	"time"

	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
	internalShared "github.com/folio-erp/folio-erp/internal/shared"
)

// AuditPort records ledger-affecting actions.
type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

// ReportCache drops cached period balances after a posting changes them.
type ReportCache interface {
	Invalidate(ctx context.Context, companyID int64) error
}

type Service struct {
	repo  Repository
	audit AuditPort
	cache ReportCache
	now   func() time.Time
}

func NewService(repo Repository, audit AuditPort, cache ReportCache) *Service {
	return &Service{repo: repo, audit: audit, cache: cache, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) List(ctx context.Context, companyID int64) ([]JournalEntry, error) {
	return s.repo.ListEntries(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, entryID int64) (JournalEntry, error) {
	return s.repo.GetEntry(ctx, companyID, entryID)
}

// CreateManual registers a user-entered journal voucher: a manual document
// with its own smart code plus the MANUAL entry posted against it, in one
// transaction.
func (s *Service) CreateManual(ctx context.Context, companyID int64, in ManualEntryInput) (ManualDocument, JournalEntry, error) {
	if in.Narrative == "" {
		return ManualDocument{}, JournalEntry{}, internalShared.Validation("ledger: narrative is required")
	}
	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = s.now()
	}
	posting := PostingInput{
		SourceType: SourceManual,
		Narrative:  in.Narrative,
		EntryDate:  entryDate,
		PostedBy:   in.PostedBy,
		Lines:      in.Lines,
	}
	if err := posting.Validate(); err != nil {
		return ManualDocument{}, JournalEntry{}, err
	}

	var doc ManualDocument
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		code, err := tx.NextSmartCode(ctx, companyID, sequence.Prefix(entryDate, sequence.DocTypeManualEntry))
		if err != nil {
			return err
		}
		doc, err = tx.InsertManualDocument(ctx, ManualDocument{
			CompanyID: companyID,
			SmartCode: code,
			Narrative: in.Narrative,
			EntryDate: entryDate,
			Status:    StatusRegistered,
			CreatedBy: in.PostedBy,
		})
		if err != nil {
			return err
		}
		posting.SourceID = &doc.ID
		entry, err = Post(ctx, tx, companyID, posting)
		return err
	})
	if err != nil {
		return ManualDocument{}, JournalEntry{}, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, companyID)
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, internalShared.AuditLog{
			ActorID:   in.PostedBy,
			CompanyID: companyID,
			Action:    "journal.manual",
			Entity:    "manual_entry",
			EntityID:  fmt.Sprintf("%d", doc.ID),
			Meta: map[string]any{
				"smart_code": doc.SmartCode,
				"entry_id":   entry.ID,
			},
			At: s.now(),
		})
	}
	return doc, entry, nil
}
