package quotations

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
	"github.com/folio-erp/folio-erp/internal/shared"
	"github.com/folio-erp/folio-erp/jobs"
)

// vatRate is the Chilean IVA applied to tax-affected quotes.
var vatRate = decimal.NewFromFloat(0.19)

// AuditPort records quotation actions.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// PDFRenderer converts rendered HTML into PDF bytes.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Enqueuer submits the quotation email job.
type Enqueuer interface {
	EnqueueQuotationEmail(ctx context.Context, payload jobs.QuotationEmailPayload) error
}

type Service struct {
	repo     Repository
	renderer PDFRenderer
	queue    Enqueuer
	audit    AuditPort
}

func NewService(repo Repository, renderer PDFRenderer, queue Enqueuer, audit AuditPort) *Service {
	return &Service{repo: repo, renderer: renderer, queue: queue, audit: audit}
}

func (s *Service) List(ctx context.Context, companyID int64, filters ListFilters) ([]Quotation, error) {
	return s.repo.List(ctx, companyID, filters)
}

func (s *Service) Get(ctx context.Context, companyID, id int64) (Quotation, error) {
	return s.repo.Get(ctx, companyID, id)
}

// Create registers a DRAFT quotation with a fresh smart code. Line totals
// are quantity times unit price; tax is the VAT share of the summed net,
// rounded to whole pesos.
func (s *Service) Create(ctx context.Context, companyID int64, in CreateInput) (Quotation, error) {
	if err := in.Validate(); err != nil {
		return Quotation{}, err
	}
	validUntil := in.ValidUntil
	if validUntil.IsZero() {
		validUntil = in.IssueDate.AddDate(0, 0, 30)
	}

	lines := make([]Line, 0, len(in.Lines))
	net := decimal.Zero
	for _, line := range in.Lines {
		total := line.Quantity.Mul(line.UnitPrice).Round(0)
		lines = append(lines, Line{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   total,
		})
		net = net.Add(total)
	}
	tax := decimal.Zero
	if in.TaxAffected {
		tax = net.Mul(vatRate).Round(0)
	}

	var quotation Quotation
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ok, err := tx.ClientExists(ctx, companyID, in.ClientID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrClientNotFound
		}
		code, err := tx.NextSmartCode(ctx, companyID, sequence.Prefix(in.IssueDate, sequence.DocTypeQuotation))
		if err != nil {
			return err
		}
		quotation, err = tx.InsertQuotation(ctx, Quotation{
			CompanyID:   companyID,
			SmartCode:   code,
			ClientID:    in.ClientID,
			IssueDate:   in.IssueDate,
			ValidUntil:  validUntil,
			NetAmount:   net,
			TaxAmount:   tax,
			GrossAmount: net.Add(tax),
			Status:      StatusDraft,
			Notes:       in.Notes,
			CreatedBy:   in.CreatedBy,
		})
		if err != nil {
			return err
		}
		quotation.Lines, err = tx.InsertLines(ctx, quotation.ID, lines)
		return err
	})
	if err != nil {
		return Quotation{}, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   in.CreatedBy,
			CompanyID: companyID,
			Action:    "quotation.create",
			Entity:    "quotation",
			EntityID:  fmt.Sprintf("%d", quotation.ID),
			Meta:      map[string]any{"smart_code": quotation.SmartCode},
			At:        time.Now(),
		})
	}
	return quotation, nil
}

// SetStatus applies a lifecycle transition.
func (s *Service) SetStatus(ctx context.Context, companyID, id int64, to Status) error {
	quotation, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !CanTransition(quotation.Status, to) {
		return ErrInvalidTransition
	}
	return s.repo.UpdateStatus(ctx, companyID, id, quotation.Status, to)
}

// RenderPDF fetches the quotation and converts its printable HTML.
func (s *Service) RenderPDF(ctx context.Context, companyID, id int64) ([]byte, error) {
	quotation, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	html, err := RenderHTML(quotation)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderHTML(ctx, html)
}

// Send renders the PDF, enqueues the email job and moves a DRAFT quote to
// SENT. Re-sending an already-sent quote just enqueues again.
func (s *Service) Send(ctx context.Context, companyID, id, actorID int64) error {
	quotation, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return err
	}
	if quotation.ClientEmail == "" {
		return shared.Validation("quotations: client has no email address")
	}
	if quotation.Status != StatusDraft && quotation.Status != StatusSent {
		return ErrInvalidTransition
	}

	pdf, err := s.RenderPDF(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := s.queue.EnqueueQuotationEmail(ctx, jobs.QuotationEmailPayload{
		CompanyID:   companyID,
		QuotationID: quotation.ID,
		SmartCode:   quotation.SmartCode,
		To:          quotation.ClientEmail,
		Subject:     fmt.Sprintf("Cotización %d", quotation.SmartCode),
		PDF:         pdf,
	}); err != nil {
		return err
	}

	if quotation.Status == StatusDraft {
		if err := s.repo.UpdateStatus(ctx, companyID, id, StatusDraft, StatusSent); err != nil {
			return err
		}
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   actorID,
			CompanyID: companyID,
			Action:    "quotation.send",
			Entity:    "quotation",
			EntityID:  fmt.Sprintf("%d", quotation.ID),
			Meta:      map[string]any{"to": quotation.ClientEmail},
			At:        time.Now(),
		})
	}
	return nil
}
