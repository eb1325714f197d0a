package companies

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
	"github.com/folio-erp/folio-erp/internal/platform/db"
	"github.com/folio-erp/folio-erp/internal/shared"
)

// ErrCompanyNotFound indicates a missing tenant.
var ErrCompanyNotFound = shared.NotFound("companies: company not found")

type Repository interface {
	List(ctx context.Context) ([]Company, error)
	Get(ctx context.Context, id int64) (Company, error)
	Onboard(ctx context.Context, company Company) (Company, error)
	OnboardWithOwner(ctx context.Context, company Company, owner Owner) (Company, int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const companyColumns = `id, name, tax_id, address, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Company, error) {
	rows, err := r.db.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Company, error) {
	var c Company
	err := r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, ErrCompanyNotFound
		}
		return Company{}, err
	}
	return c, nil
}

// Onboard creates the tenant and everything posting needs, in one
// transaction: the company row, the chart of accounts cloned from the
// master template, zero-seeded registry sequences, and the default posting
// accounts resolved against the cloned chart.
func (r *repository) Onboard(ctx context.Context, company Company) (Company, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return r.provision(ctx, tx, &company)
	})
	if err != nil {
		return Company{}, err
	}
	return company, nil
}

// OnboardWithOwner provisions the tenant and its first user atomically. The
// owner gets the admin role; a taken email rolls the whole tenant back.
func (r *repository) OnboardWithOwner(ctx context.Context, company Company, owner Owner) (Company, int64, error) {
	var ownerID int64
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := r.provision(ctx, tx, &company); err != nil {
			return err
		}
		err := tx.QueryRow(ctx, `INSERT INTO users (company_id, role_id, email, name, password_hash, is_active)
VALUES ($1,$2,$3,$4,$5,TRUE) RETURNING id`,
			company.ID, shared.RoleAdmin, owner.Email, owner.Name, owner.PasswordHash).Scan(&ownerID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_email_key" {
				return shared.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return Company{}, 0, err
	}
	return company, ownerID, nil
}

func (r *repository) provision(ctx context.Context, tx pgx.Tx, company *Company) error {
	err := tx.QueryRow(ctx, `INSERT INTO companies (name, tax_id, address)
VALUES ($1,$2,$3) RETURNING id, created_at, updated_at`,
		company.Name, company.TaxID, company.Address).
		Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO accounts (company_id, code, name, type, level, postable)
SELECT $1, code, name, type, level, postable FROM account_templates ORDER BY code`, company.ID); err != nil {
		return err
	}

	for _, entity := range []string{sequence.EntitySuppliers, sequence.EntityClients} {
		if _, err := tx.Exec(ctx, `INSERT INTO sequences (company_id, entity, last_value) VALUES ($1,$2,0)`, company.ID, entity); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `INSERT INTO posting_accounts (company_id, payable_code, vat_input_code, expense_code)
SELECT $1, payable_code, vat_input_code, expense_code FROM posting_account_defaults`, company.ID)
	return err
}
