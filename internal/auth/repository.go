package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-erp/folio-erp/internal/shared"
)

// ErrEmailTaken indicates a duplicate signup email.
var ErrEmailTaken = shared.ErrEmailTaken

type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const userColumns = `id, company_id, role_id, email, name, password_hash, is_active, created_at, updated_at`

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.CompanyID, &u.RoleID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrInvalidCredentials
		}
		return User{}, err
	}
	return u, nil
}

func (r *repository) Create(ctx context.Context, user User) (User, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO users (company_id, role_id, email, name, password_hash, is_active)
VALUES ($1,$2,$3,$4,$5,TRUE) RETURNING id, is_active, created_at, updated_at`,
		user.CompanyID, user.RoleID, user.Email, user.Name, user.PasswordHash).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "users_email_key" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}
