package suppliers

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
	"github.com/folio-erp/folio-erp/internal/platform/db"
	"github.com/folio-erp/folio-erp/internal/shared"
)

// ListFilters narrows and pages a registry listing.
type ListFilters struct {
	Search string
	Page   int
	Limit  int
}

type Repository interface {
	List(ctx context.Context, companyID int64, filters ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, companyID, id int64) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, companyID, id int64, supplier Supplier) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const supplierColumns = `id, company_id, code, name, tax_id, address, email, phone, created_at, updated_at`

func (r *repository) List(ctx context.Context, companyID int64, filters ListFilters) ([]Supplier, int, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE company_id=$1`
	countQuery := `SELECT COUNT(*) FROM suppliers WHERE company_id=$1`
	args := []interface{}{companyID}
	countArgs := []interface{}{companyID}
	argCount := 1

	if filters.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR tax_id ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY code`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.TaxID, &s.Address, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (Supplier, error) {
	var s Supplier
	err := r.db.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE company_id=$1 AND id=$2`, companyID, id).
		Scan(&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.TaxID, &s.Address, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, shared.NotFound("suppliers: supplier not found")
		}
		return Supplier{}, err
	}
	return s, nil
}

// Create allocates the supplier code from the row-locked sequence and
// inserts the row inside one transaction.
func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		code, err := sequence.Next(ctx, tx, supplier.CompanyID, sequence.EntitySuppliers)
		if err != nil {
			return err
		}
		supplier.Code = code
		return tx.QueryRow(ctx, `INSERT INTO suppliers (company_id, code, name, tax_id, address, email, phone)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`,
			supplier.CompanyID, supplier.Code, supplier.Name, supplier.TaxID, supplier.Address, supplier.Email, supplier.Phone).
			Scan(&supplier.ID, &supplier.CreatedAt, &supplier.UpdatedAt)
	})
	if err != nil {
		return Supplier{}, err
	}
	return supplier, nil
}

func (r *repository) Update(ctx context.Context, companyID, id int64, supplier Supplier) error {
	cmd, err := r.db.Exec(ctx, `UPDATE suppliers SET name=$3, tax_id=$4, address=$5, email=$6, phone=$7, updated_at=NOW()
WHERE company_id=$1 AND id=$2`, companyID, id, supplier.Name, supplier.TaxID, supplier.Address, supplier.Email, supplier.Phone)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.NotFound("suppliers: supplier not found")
	}
	return nil
}
