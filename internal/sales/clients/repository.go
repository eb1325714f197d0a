package clients

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
	List(ctx context.Context, companyID int64, filters ListFilters) ([]Client, int, error)
	Get(ctx context.Context, companyID, id int64) (Client, error)
	Create(ctx context.Context, client Client) (Client, error)
	Update(ctx context.Context, companyID, id int64, client Client) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const clientColumns = `id, company_id, code, name, tax_id, contact, address, email, phone, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.TaxID, &c.Contact, &c.Address, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, companyID int64, filters ListFilters) ([]Client, int, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE company_id=$1`
	countQuery := `SELECT COUNT(*) FROM clients WHERE company_id=$1`
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

	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, companyID, id int64) (Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE company_id=$1 AND id=$2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, shared.NotFound("clients: client not found")
		}
		return Client{}, err
	}
	return c, nil
}

// Create allocates the client code from the row-locked sequence and inserts
// the row inside one transaction.
func (r *repository) Create(ctx context.Context, client Client) (Client, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		code, err := sequence.Next(ctx, tx, client.CompanyID, sequence.EntityClients)
		if err != nil {
			return err
		}
		client.Code = code
		return tx.QueryRow(ctx, `INSERT INTO clients (company_id, code, name, tax_id, contact, address, email, phone)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id, created_at, updated_at`,
			client.CompanyID, client.Code, client.Name, client.TaxID, client.Contact, client.Address, client.Email, client.Phone).
			Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	})
	if err != nil {
		return Client{}, err
	}
	return client, nil
}

func (r *repository) Update(ctx context.Context, companyID, id int64, client Client) error {
	cmd, err := r.db.Exec(ctx, `UPDATE clients SET name=$3, tax_id=$4, contact=$5, address=$6, email=$7, phone=$8, updated_at=NOW()
WHERE company_id=$1 AND id=$2`, companyID, id, client.Name, client.TaxID, client.Contact, client.Address, client.Email, client.Phone)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.NotFound("clients: client not found")
	}
	return nil
}
