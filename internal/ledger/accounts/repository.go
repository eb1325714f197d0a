package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	lshared "github.com/folio-erp/folio-erp/internal/ledger/shared"
)

type Repository interface {
	List(ctx context.Context, companyID int64) ([]Account, error)
	GetByCode(ctx context.Context, companyID int64, code string) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, companyID int64) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, code, name, type, level, postable, created_at, updated_at FROM accounts WHERE company_id=$1 ORDER BY code`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		err := rows.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.Level, &a.Postable, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) GetByCode(ctx context.Context, companyID int64, code string) (Account, error) {
	var a Account
	err := r.db.QueryRow(ctx, `SELECT id, company_id, code, name, type, level, postable, created_at, updated_at FROM accounts WHERE company_id=$1 AND code=$2`, companyID, code).
		Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.Level, &a.Postable, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, lshared.ErrUnknownAccount
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, account Account) (Account, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO accounts (company_id, code, name, type, level, postable)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at, updated_at`,
		account.CompanyID, account.Code, account.Name, account.Type, account.Level, account.Postable).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return Account{}, err
	}
	return account, nil
}
