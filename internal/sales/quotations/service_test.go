package quotations

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/folio-erp/folio-erp/jobs"
)

type memoryQuotationRepo struct {
	clients    map[int64]string // id -> email
	quotations []Quotation
	nextCode   map[int64]int64
	nextID     int64
}

func newMemoryQuotationRepo() *memoryQuotationRepo {
	return &memoryQuotationRepo{
		clients:  map[int64]string{3: "cliente@example.cl"},
		nextCode: make(map[int64]int64),
	}
}

func (r *memoryQuotationRepo) List(ctx context.Context, companyID int64, filters ListFilters) ([]Quotation, error) {
	return r.quotations, nil
}

func (r *memoryQuotationRepo) Get(ctx context.Context, companyID, id int64) (Quotation, error) {
	for _, q := range r.quotations {
		if q.ID == id {
			return q, nil
		}
	}
	return Quotation{}, ErrQuotationNotFound
}

func (r *memoryQuotationRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	quotations := append([]Quotation(nil), r.quotations...)
	if err := fn(ctx, r); err != nil {
		r.quotations = quotations
		return err
	}
	return nil
}

func (r *memoryQuotationRepo) UpdateStatus(ctx context.Context, companyID, id int64, from, to Status) error {
	for i := range r.quotations {
		if r.quotations[i].ID == id && r.quotations[i].Status == from {
			r.quotations[i].Status = to
			return nil
		}
	}
	return ErrInvalidTransition
}

func (r *memoryQuotationRepo) ClientExists(ctx context.Context, companyID, clientID int64) (bool, error) {
	_, ok := r.clients[clientID]
	return ok, nil
}

func (r *memoryQuotationRepo) NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error) {
	code, ok := r.nextCode[prefix]
	if !ok {
		code = prefix * 10000
	}
	r.nextCode[prefix] = code + 1
	return code, nil
}

func (r *memoryQuotationRepo) InsertQuotation(ctx context.Context, quotation Quotation) (Quotation, error) {
	r.nextID++
	quotation.ID = r.nextID
	quotation.ClientEmail = r.clients[quotation.ClientID]
	r.quotations = append(r.quotations, quotation)
	return quotation, nil
}

func (r *memoryQuotationRepo) InsertLines(ctx context.Context, quotationID int64, lines []Line) ([]Line, error) {
	for i := range lines {
		lines[i].ID = int64(i + 1)
		lines[i].QuotationID = quotationID
	}
	for i := range r.quotations {
		if r.quotations[i].ID == quotationID {
			r.quotations[i].Lines = lines
		}
	}
	return lines, nil
}

type fakeRenderer struct{ calls int }

func (f *fakeRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	f.calls++
	return []byte("%PDF-1.7 " + html[:20]), nil
}

type fakeQueue struct{ payloads []jobs.QuotationEmailPayload }

func (f *fakeQueue) EnqueueQuotationEmail(ctx context.Context, payload jobs.QuotationEmailPayload) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func createInput() CreateInput {
	return CreateInput{
		ClientID:    3,
		IssueDate:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		TaxAffected: true,
		CreatedBy:   4,
		Lines: []LineInput{
			{Description: "Servicio de instalación", Quantity: dec(2), UnitPrice: dec(45000)},
			{Description: "Materiales", Quantity: dec(1), UnitPrice: dec(10000)},
		},
	}
}

func TestCreateComputesTotalsAndSmartCode(t *testing.T) {
	repo := newMemoryQuotationRepo()
	svc := NewService(repo, &fakeRenderer{}, &fakeQueue{}, nil)

	quotation, err := svc.Create(context.Background(), 1, createInput())
	require.NoError(t, err)
	require.Equal(t, int64(26360000), quotation.SmartCode, "2026 quotation prefix is 2636")
	require.Equal(t, StatusDraft, quotation.Status)

	require.True(t, quotation.NetAmount.Equal(dec(100000)))
	require.True(t, quotation.TaxAmount.Equal(dec(19000)), "19 percent VAT on net")
	require.True(t, quotation.GrossAmount.Equal(dec(119000)))

	require.Len(t, quotation.Lines, 2)
	require.True(t, quotation.Lines[0].LineTotal.Equal(dec(90000)))
	require.Equal(t, time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC), quotation.ValidUntil, "validity defaults to 30 days")
}

func TestCreateExemptQuoteHasNoTax(t *testing.T) {
	repo := newMemoryQuotationRepo()
	svc := NewService(repo, &fakeRenderer{}, &fakeQueue{}, nil)

	in := createInput()
	in.TaxAffected = false
	quotation, err := svc.Create(context.Background(), 1, in)
	require.NoError(t, err)
	require.True(t, quotation.TaxAmount.IsZero())
	require.True(t, quotation.GrossAmount.Equal(quotation.NetAmount))
}

func TestCreateUnknownClient(t *testing.T) {
	repo := newMemoryQuotationRepo()
	svc := NewService(repo, &fakeRenderer{}, &fakeQueue{}, nil)

	in := createInput()
	in.ClientID = 404
	_, err := svc.Create(context.Background(), 1, in)
	require.ErrorIs(t, err, ErrClientNotFound)
	require.Empty(t, repo.quotations)
}

func TestSendEnqueuesEmailAndMarksSent(t *testing.T) {
	repo := newMemoryQuotationRepo()
	queue := &fakeQueue{}
	svc := NewService(repo, &fakeRenderer{}, queue, nil)

	quotation, err := svc.Create(context.Background(), 1, createInput())
	require.NoError(t, err)

	require.NoError(t, svc.Send(context.Background(), 1, quotation.ID, 4))

	require.Len(t, queue.payloads, 1)
	payload := queue.payloads[0]
	require.Equal(t, "cliente@example.cl", payload.To)
	require.Equal(t, quotation.SmartCode, payload.SmartCode)
	require.True(t, strings.HasPrefix(string(payload.PDF), "%PDF"))

	sent, err := repo.Get(context.Background(), 1, quotation.ID)
	require.NoError(t, err)
	require.Equal(t, StatusSent, sent.Status)
}

func TestStatusTransitions(t *testing.T) {
	require.True(t, CanTransition(StatusDraft, StatusSent))
	require.True(t, CanTransition(StatusSent, StatusAccepted))
	require.True(t, CanTransition(StatusSent, StatusRejected))
	require.False(t, CanTransition(StatusAccepted, StatusRejected))
	require.False(t, CanTransition(StatusRejected, StatusSent))
}

func TestSetStatusRejectsTerminalMoves(t *testing.T) {
	repo := newMemoryQuotationRepo()
	svc := NewService(repo, &fakeRenderer{}, &fakeQueue{}, nil)

	quotation, err := svc.Create(context.Background(), 1, createInput())
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(context.Background(), 1, quotation.ID, StatusAccepted))
	err = svc.SetStatus(context.Background(), 1, quotation.ID, StatusRejected)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRenderHTMLFormatsMoney(t *testing.T) {
	html, err := RenderHTML(Quotation{
		SmartCode:   26360000,
		ClientName:  "Comercial Andina",
		IssueDate:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		ValidUntil:  time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
		NetAmount:   dec(1234567),
		TaxAmount:   dec(234568),
		GrossAmount: dec(1469135),
		Lines: []Line{
			{Description: "Servicio", Quantity: dec(1), UnitPrice: dec(1234567), LineTotal: dec(1234567)},
		},
	})
	require.NoError(t, err)
	require.Contains(t, html, "Cotización N° 26360000")
	require.Contains(t, html, "Comercial Andina")
	require.Contains(t, html, "$1.234.567", "es-CL grouping uses dots")
	require.Contains(t, html, "05-03-2026")
}
