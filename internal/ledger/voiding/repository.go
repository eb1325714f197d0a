package voiding

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-erp/folio-erp/internal/ledger/journals"
	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
)

// Repository opens the transaction the void workflow runs in.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository is the transactional surface of the void workflow. It embeds
// the posting engine store so the mirror entry is written in the same
// transaction that flags the original.
type TxRepository interface {
	journals.TxStore
	FindInvoiceBySmartCode(ctx context.Context, companyID, code int64) (Document, bool, error)
	FindManualBySmartCode(ctx context.Context, companyID, code int64) (Document, bool, error)
	LinesForSource(ctx context.Context, companyID int64, sourceType journals.SourceType, sourceID int64) ([]journals.JournalLine, error)
	NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error)
	InsertMirrorDocument(ctx context.Context, doc journals.ManualDocument) (journals.ManualDocument, error)
	MarkInvoiceVoided(ctx context.Context, companyID, invoiceID int64, motive string) error
	MarkManualVoided(ctx context.Context, companyID, manualID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{TxStore: journals.NewTxStore(tx), tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	journals.TxStore
	tx pgx.Tx
}

// FindInvoiceBySmartCode locks the invoice row so two concurrent voids of
// the same document serialise; the loser then sees status VOIDED.
func (r *txRepository) FindInvoiceBySmartCode(ctx context.Context, companyID, code int64) (Document, bool, error) {
	var doc Document
	err := r.tx.QueryRow(ctx, `SELECT id, smart_code, status FROM purchase_invoices WHERE company_id=$1 AND smart_code=$2 FOR UPDATE`, companyID, code).
		Scan(&doc.ID, &doc.SmartCode, &doc.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, false, nil
		}
		return Document{}, false, err
	}
	doc.Kind = KindInvoice
	return doc, true, nil
}

func (r *txRepository) FindManualBySmartCode(ctx context.Context, companyID, code int64) (Document, bool, error) {
	var doc Document
	err := r.tx.QueryRow(ctx, `SELECT id, smart_code, status FROM manual_entries WHERE company_id=$1 AND smart_code=$2 FOR UPDATE`, companyID, code).
		Scan(&doc.ID, &doc.SmartCode, &doc.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, false, nil
		}
		return Document{}, false, err
	}
	doc.Kind = KindManual
	return doc, true, nil
}

func (r *txRepository) LinesForSource(ctx context.Context, companyID int64, sourceType journals.SourceType, sourceID int64) ([]journals.JournalLine, error) {
	rows, err := r.tx.Query(ctx, `SELECT l.id, l.entry_id, l.account_id, a.code, l.debit, l.credit
FROM journal_lines l
JOIN journal_entries e ON e.id=l.entry_id
JOIN accounts a ON a.id=l.account_id
WHERE e.company_id=$1 AND e.source_type=$2 AND e.source_id=$3
ORDER BY l.id`, companyID, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []journals.JournalLine
	for rows.Next() {
		var line journals.JournalLine
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.AccountCode, &line.Debit, &line.Credit); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *txRepository) NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error) {
	return sequence.NextSmartCode(ctx, r.tx, companyID, prefix)
}

func (r *txRepository) InsertMirrorDocument(ctx context.Context, doc journals.ManualDocument) (journals.ManualDocument, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO manual_entries (company_id, smart_code, narrative, entry_date, status, created_by)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at`,
		doc.CompanyID, doc.SmartCode, doc.Narrative, doc.EntryDate, doc.Status, doc.CreatedBy).
		Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return journals.ManualDocument{}, err
	}
	return doc, nil
}

func (r *txRepository) MarkInvoiceVoided(ctx context.Context, companyID, invoiceID int64, motive string) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE purchase_invoices SET status='VOIDED', void_motive=$3, updated_at=NOW() WHERE company_id=$1 AND id=$2`, companyID, invoiceID, motive)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *txRepository) MarkManualVoided(ctx context.Context, companyID, manualID int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE manual_entries SET status='VOIDED' WHERE company_id=$1 AND id=$2`, companyID, manualID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
