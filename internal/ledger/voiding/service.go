package voiding

import (
	"context"
	"fmt"
	"time"

	"github.com/folio-erp/folio-erp/internal/ledger/journals"
	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
	lshared "github.com/folio-erp/folio-erp/internal/ledger/shared"
	internalShared "github.com/folio-erp/folio-erp/internal/shared"
)

// AuditPort records void actions.
type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

// ReportCache drops cached period balances after a void changes them.
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

// Void closes a document by mirroring its journal entry, never by deleting
// history. The smart code resolves against the invoice registry first, then
// the manual-entry registry. The mirror is a first-class manual document
// with a fresh smart code, dated at void time and born VOIDED; the original
// is flagged VOIDED in the same transaction. Any failure rolls the whole
// operation back and leaves the original REGISTERED.
func (s *Service) Void(ctx context.Context, companyID int64, in VoidInput) (VoidResult, error) {
	if in.Motive == "" {
		return VoidResult{}, lshared.ErrMotiveRequired
	}

	var result VoidResult
	now := s.now()
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		doc, found, err := tx.FindInvoiceBySmartCode(ctx, companyID, in.DocumentCode)
		if err != nil {
			return err
		}
		if !found {
			doc, found, err = tx.FindManualBySmartCode(ctx, companyID, in.DocumentCode)
			if err != nil {
				return err
			}
		}
		if !found {
			return lshared.ErrDocumentNotFound
		}
		if doc.Status == journals.StatusVoided {
			return lshared.ErrAlreadyVoided
		}

		sourceType := journals.SourcePurchaseInvoice
		if doc.Kind == KindManual {
			sourceType = journals.SourceManual
		}
		lines, err := tx.LinesForSource(ctx, companyID, sourceType, doc.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return lshared.ErrEntryNotFound
		}

		mirrorCode, err := tx.NextSmartCode(ctx, companyID, sequence.Prefix(now, sequence.DocTypeManualEntry))
		if err != nil {
			return err
		}
		narrative := fmt.Sprintf("Void of %d: %s", doc.SmartCode, in.Motive)
		mirror, err := tx.InsertMirrorDocument(ctx, journals.ManualDocument{
			CompanyID: companyID,
			SmartCode: mirrorCode,
			Narrative: narrative,
			EntryDate: now,
			Status:    journals.StatusVoided,
			CreatedBy: in.ActorID,
		})
		if err != nil {
			return err
		}

		entry, err := journals.Post(ctx, tx, companyID, journals.PostingInput{
			SourceType: journals.SourceVoid,
			SourceID:   &mirror.ID,
			Narrative:  narrative,
			EntryDate:  now,
			PostedBy:   in.ActorID,
			Lines:      journals.ReverseLines(lines),
		})
		if err != nil {
			return err
		}

		switch doc.Kind {
		case KindInvoice:
			err = tx.MarkInvoiceVoided(ctx, companyID, doc.ID, in.Motive)
		case KindManual:
			err = tx.MarkManualVoided(ctx, companyID, doc.ID)
		}
		if err != nil {
			return err
		}

		result = VoidResult{
			OriginalCode:    doc.SmartCode,
			MirrorCode:      mirrorCode,
			MirrorID:        mirror.ID,
			ReversalEntryID: entry.ID,
		}
		return nil
	})
	if err != nil {
		return VoidResult{}, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, companyID)
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, internalShared.AuditLog{
			ActorID:   in.ActorID,
			CompanyID: companyID,
			Action:    "document.void",
			Entity:    "document",
			EntityID:  fmt.Sprintf("%d", result.OriginalCode),
			Meta: map[string]any{
				"mirror_code":       result.MirrorCode,
				"reversal_entry_id": result.ReversalEntryID,
				"motive":            in.Motive,
			},
			At: now,
		})
	}
	return result, nil
}
