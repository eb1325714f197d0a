// Package sequence provides the per-company document numbering generators.
package sequence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	lshared "github.com/folio-erp/folio-erp/internal/ledger/shared"
)

// Entity names for row-locked counters, seeded at company onboarding.
const (
	EntitySuppliers = "proveedores"
	EntityClients   = "clientes"
)

// Next increments the row-locked counter for (companyID, entity) and returns
// the new value. The SELECT ... FOR UPDATE serialises concurrent callers, so
// N concurrent calls yield N distinct consecutive values with no gaps. Must
// run inside the transaction that consumes the value.
func Next(ctx context.Context, tx pgx.Tx, companyID int64, entity string) (int64, error) {
	var current int64
	err := tx.QueryRow(ctx, `SELECT last_value FROM sequences WHERE company_id=$1 AND entity=$2 FOR UPDATE`, companyID, entity).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, lshared.ErrSequenceNotFound
		}
		return 0, err
	}
	next := current + 1
	if _, err := tx.Exec(ctx, `UPDATE sequences SET last_value=$3 WHERE company_id=$1 AND entity=$2`, companyID, entity, next); err != nil {
		return 0, err
	}
	return next, nil
}
