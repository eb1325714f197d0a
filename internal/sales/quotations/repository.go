package quotations

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
)

// ListFilters narrows a quotation listing.
type ListFilters struct {
	ClientID int64
	Status   Status
}

type Repository interface {
	List(ctx context.Context, companyID int64, filters ListFilters) ([]Quotation, error)
	Get(ctx context.Context, companyID, id int64) (Quotation, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	UpdateStatus(ctx context.Context, companyID, id int64, from, to Status) error
}

// TxRepository is the transactional surface of quotation creation.
type TxRepository interface {
	ClientExists(ctx context.Context, companyID, clientID int64) (bool, error)
	NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error)
	InsertQuotation(ctx context.Context, quotation Quotation) (Quotation, error)
	InsertLines(ctx context.Context, quotationID int64, lines []Line) ([]Line, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const quotationColumns = `q.id, q.company_id, q.smart_code, q.client_id, c.name, c.email, q.issue_date, q.valid_until, q.net_amount, q.tax_amount, q.gross_amount, q.status, q.notes, q.created_by, q.created_at, q.updated_at`

func scanQuotation(row pgx.Row) (Quotation, error) {
	var q Quotation
	err := row.Scan(&q.ID, &q.CompanyID, &q.SmartCode, &q.ClientID, &q.ClientName, &q.ClientEmail,
		&q.IssueDate, &q.ValidUntil, &q.NetAmount, &q.TaxAmount, &q.GrossAmount,
		&q.Status, &q.Notes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}

func (r *repository) List(ctx context.Context, companyID int64, filters ListFilters) ([]Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations q JOIN clients c ON c.id = q.client_id WHERE q.company_id=$1`
	args := []interface{}{companyID}
	argCount := 1

	if filters.ClientID > 0 {
		argCount++
		query += ` AND q.client_id=$` + strconv.Itoa(argCount)
		args = append(args, filters.ClientID)
	}
	if filters.Status != "" {
		argCount++
		query += ` AND q.status=$` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	query += ` ORDER BY q.smart_code DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (Quotation, error) {
	q, err := scanQuotation(r.db.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations q JOIN clients c ON c.id = q.client_id WHERE q.company_id=$1 AND q.id=$2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quotation{}, ErrQuotationNotFound
		}
		return Quotation{}, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, quotation_id, description, quantity, unit_price, line_total
FROM quotation_lines WHERE quotation_id=$1 ORDER BY id`, q.ID)
	if err != nil {
		return Quotation{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.QuotationID, &line.Description, &line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return Quotation{}, err
		}
		q.Lines = append(q.Lines, line)
	}
	return q, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// UpdateStatus applies a guarded transition; the WHERE clause keeps it
// atomic under concurrent updates.
func (r *repository) UpdateStatus(ctx context.Context, companyID, id int64, from, to Status) error {
	cmd, err := r.db.Exec(ctx, `UPDATE quotations SET status=$4, updated_at=NOW()
WHERE company_id=$1 AND id=$2 AND status=$3`, companyID, id, from, to)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) ClientExists(ctx context.Context, companyID, clientID int64) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE company_id=$1 AND id=$2)`, companyID, clientID).Scan(&exists)
	return exists, err
}

func (r *txRepository) NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error) {
	return sequence.NextSmartCode(ctx, r.tx, companyID, prefix)
}

func (r *txRepository) InsertQuotation(ctx context.Context, quotation Quotation) (Quotation, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO quotations (company_id, smart_code, client_id, issue_date, valid_until, net_amount, tax_amount, gross_amount, status, notes, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id, created_at, updated_at`,
		quotation.CompanyID, quotation.SmartCode, quotation.ClientID, quotation.IssueDate, quotation.ValidUntil,
		quotation.NetAmount, quotation.TaxAmount, quotation.GrossAmount, quotation.Status, quotation.Notes, quotation.CreatedBy).
		Scan(&quotation.ID, &quotation.CreatedAt, &quotation.UpdatedAt)
	if err != nil {
		return Quotation{}, err
	}
	return quotation, nil
}

func (r *txRepository) InsertLines(ctx context.Context, quotationID int64, lines []Line) ([]Line, error) {
	for i := range lines {
		lines[i].QuotationID = quotationID
		err := r.tx.QueryRow(ctx, `INSERT INTO quotation_lines (quotation_id, description, quantity, unit_price, line_total)
VALUES ($1,$2,$3,$4,$5) RETURNING id`,
			quotationID, lines[i].Description, lines[i].Quantity, lines[i].UnitPrice, lines[i].LineTotal).
			Scan(&lines[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return lines, nil
}
