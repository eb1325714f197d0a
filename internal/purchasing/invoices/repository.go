package invoices

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-erp/folio-erp/internal/ledger/journals"
	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
)

// Repository encapsulates DB operations for purchase invoices.
type Repository interface {
	List(ctx context.Context, companyID int64, filters ListFilters) ([]PurchaseInvoice, error)
	Get(ctx context.Context, companyID, id int64) (PurchaseInvoice, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository is the transactional surface of invoice registration. It
// embeds the posting engine store so the invoice row and its journal entry
// commit or roll back together.
type TxRepository interface {
	journals.TxStore
	SupplierExists(ctx context.Context, companyID, supplierID int64) (bool, error)
	DuplicateExists(ctx context.Context, companyID, supplierID int64, invoiceNumber string) (bool, error)
	NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error)
	InsertInvoice(ctx context.Context, invoice PurchaseInvoice) (PurchaseInvoice, error)
	PostingAccounts(ctx context.Context, companyID int64) (PostingAccounts, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const invoiceColumns = `id, company_id, smart_code, supplier_id, invoice_number, issue_date, due_date, net_amount, tax_amount, gross_amount, tax_affected, status, void_motive, created_by, created_at, updated_at`

func scanInvoice(row pgx.Row) (PurchaseInvoice, error) {
	var inv PurchaseInvoice
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.SmartCode, &inv.SupplierID, &inv.InvoiceNumber,
		&inv.IssueDate, &inv.DueDate, &inv.NetAmount, &inv.TaxAmount, &inv.GrossAmount,
		&inv.TaxAffected, &inv.Status, &inv.VoidMotive, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

func (r *repository) List(ctx context.Context, companyID int64, filters ListFilters) ([]PurchaseInvoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM purchase_invoices WHERE company_id=$1`
	args := []interface{}{companyID}
	argCount := 1

	if filters.SupplierID > 0 {
		argCount++
		query += ` AND supplier_id=$` + strconv.Itoa(argCount)
		args = append(args, filters.SupplierID)
	}
	if filters.Status != "" {
		argCount++
		query += ` AND status=$` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if !filters.From.IsZero() {
		argCount++
		query += ` AND issue_date >= $` + strconv.Itoa(argCount)
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		argCount++
		query += ` AND issue_date <= $` + strconv.Itoa(argCount)
		args = append(args, filters.To)
	}
	query += ` ORDER BY smart_code DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PurchaseInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (PurchaseInvoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM purchase_invoices WHERE company_id=$1 AND id=$2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseInvoice{}, ErrInvoiceNotFound
		}
		return PurchaseInvoice{}, err
	}
	return inv, nil
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

func (r *txRepository) SupplierExists(ctx context.Context, companyID, supplierID int64) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM suppliers WHERE company_id=$1 AND id=$2)`, companyID, supplierID).Scan(&exists)
	return exists, err
}

func (r *txRepository) DuplicateExists(ctx context.Context, companyID, supplierID int64, invoiceNumber string) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM purchase_invoices WHERE company_id=$1 AND supplier_id=$2 AND invoice_number=$3 AND status <> 'VOIDED')`,
		companyID, supplierID, invoiceNumber).Scan(&exists)
	return exists, err
}

func (r *txRepository) NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error) {
	return sequence.NextSmartCode(ctx, r.tx, companyID, prefix)
}

func (r *txRepository) InsertInvoice(ctx context.Context, invoice PurchaseInvoice) (PurchaseInvoice, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO purchase_invoices
(company_id, smart_code, supplier_id, invoice_number, issue_date, due_date, net_amount, tax_amount, gross_amount, tax_affected, status, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING id, created_at, updated_at`,
		invoice.CompanyID, invoice.SmartCode, invoice.SupplierID, invoice.InvoiceNumber,
		invoice.IssueDate, invoice.DueDate, invoice.NetAmount, invoice.TaxAmount, invoice.GrossAmount,
		invoice.TaxAffected, invoice.Status, invoice.CreatedBy).
		Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return PurchaseInvoice{}, mapInsertError(err)
	}
	return invoice, nil
}

// mapInsertError translates unique-violation errors from the invoice insert.
// Only the partial index on (company, supplier, invoice_number) means a
// duplicate invoice; the (company, smart_code) constraint firing here would
// be an allocator fault and must not masquerade as one.
func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" &&
		pgErr.ConstraintName == "purchase_invoices_live_number" {
		return ErrDuplicateInvoice
	}
	return err
}

func (r *txRepository) PostingAccounts(ctx context.Context, companyID int64) (PostingAccounts, error) {
	var pa PostingAccounts
	err := r.tx.QueryRow(ctx, `SELECT payable_code, vat_input_code, expense_code FROM posting_accounts WHERE company_id=$1`, companyID).
		Scan(&pa.PayableCode, &pa.VATInputCode, &pa.ExpenseCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PostingAccounts{}, ErrPostingNotConfigured
		}
		return PostingAccounts{}, err
	}
	return pa, nil
}
