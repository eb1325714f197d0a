package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/folio-erp/folio-erp/internal/ledger/journals"
	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
	internalShared "github.com/folio-erp/folio-erp/internal/shared"
)

// AuditPort records invoice actions.
type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

// ReportCache is invalidated after any posting so the ledger view never
// serves stale balances.
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

func (s *Service) List(ctx context.Context, companyID int64, filters ListFilters) ([]PurchaseInvoice, error) {
	return s.repo.List(ctx, companyID, filters)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (PurchaseInvoice, error) {
	return s.repo.Get(ctx, companyID, id)
}

// Register validates the invoice, allocates its smart code, inserts the row
// and posts the balanced journal entry, all in one transaction:
//
//	credit accounts payable for gross
//	debit VAT input credit for tax (tax-affected documents only)
//	debit expense for net
//
// A duplicate (supplier, invoice number) among non-voided invoices rejects
// the whole request; an unresolvable posting account aborts with a critical
// error and nothing is written.
func (s *Service) Register(ctx context.Context, companyID int64, in RegisterInput) (PurchaseInvoice, journals.JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return PurchaseInvoice{}, journals.JournalEntry{}, err
	}
	dueDate := in.DueDate
	if dueDate.IsZero() {
		dueDate = in.IssueDate.AddDate(0, 1, 0)
	}

	var invoice PurchaseInvoice
	var entry journals.JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ok, err := tx.SupplierExists(ctx, companyID, in.SupplierID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSupplierNotFound
		}

		dup, err := tx.DuplicateExists(ctx, companyID, in.SupplierID, in.InvoiceNumber)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateInvoice
		}

		code, err := tx.NextSmartCode(ctx, companyID, sequence.Prefix(in.IssueDate, sequence.DocTypePurchaseInvoice))
		if err != nil {
			return err
		}

		invoice, err = tx.InsertInvoice(ctx, PurchaseInvoice{
			CompanyID:     companyID,
			SmartCode:     code,
			SupplierID:    in.SupplierID,
			InvoiceNumber: in.InvoiceNumber,
			IssueDate:     in.IssueDate,
			DueDate:       dueDate,
			NetAmount:     in.NetAmount,
			TaxAmount:     in.TaxAmount,
			GrossAmount:   in.GrossAmount,
			TaxAffected:   in.TaxAffected,
			Status:        journals.StatusRegistered,
			CreatedBy:     in.RegisteredBy,
		})
		if err != nil {
			return err
		}

		accounts, err := tx.PostingAccounts(ctx, companyID)
		if err != nil {
			return err
		}

		entry, err = journals.Post(ctx, tx, companyID, journals.PostingInput{
			SourceType: journals.SourcePurchaseInvoice,
			SourceID:   &invoice.ID,
			Narrative:  fmt.Sprintf("Purchase invoice %s supplier %d", in.InvoiceNumber, in.SupplierID),
			EntryDate:  in.IssueDate,
			PostedBy:   in.RegisteredBy,
			Lines:      postingLines(accounts, in),
		})
		return err
	})
	if err != nil {
		return PurchaseInvoice{}, journals.JournalEntry{}, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, companyID)
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, internalShared.AuditLog{
			ActorID:   in.RegisteredBy,
			CompanyID: companyID,
			Action:    "invoice.register",
			Entity:    "purchase_invoice",
			EntityID:  fmt.Sprintf("%d", invoice.ID),
			Meta: map[string]any{
				"smart_code": invoice.SmartCode,
				"entry_id":   entry.ID,
				"gross":      in.GrossAmount.String(),
			},
			At: s.now(),
		})
	}
	return invoice, entry, nil
}

// postingLines builds the fixed three-line (or two-line when no tax)
// allocation for invoice intake. The input already guarantees
// gross == net + tax, so the result balances by construction.
func postingLines(accounts PostingAccounts, in RegisterInput) []journals.PostingLineInput {
	lines := []journals.PostingLineInput{
		{AccountCode: accounts.PayableCode, Credit: in.GrossAmount, Debit: decimal.Zero},
	}
	if in.TaxAffected && in.TaxAmount.IsPositive() {
		lines = append(lines, journals.PostingLineInput{
			AccountCode: accounts.VATInputCode, Debit: in.TaxAmount, Credit: decimal.Zero,
		})
	}
	if in.NetAmount.IsPositive() {
		lines = append(lines, journals.PostingLineInput{
			AccountCode: accounts.ExpenseCode, Debit: in.NetAmount, Credit: decimal.Zero,
		})
	}
	return lines
}
