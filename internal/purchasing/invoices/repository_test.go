package invoices

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapInsertErrorDuplicateNumber(t *testing.T) {
	err := mapInsertError(&pgconn.PgError{Code: "23505", ConstraintName: "purchase_invoices_live_number"})
	require.ErrorIs(t, err, ErrDuplicateInvoice)
}

func TestMapInsertErrorSmartCodeConstraintPassesThrough(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "purchase_invoices_company_id_smart_code_key"}
	err := mapInsertError(pgErr)
	require.NotErrorIs(t, err, ErrDuplicateInvoice, "a smart-code collision is an allocator fault, not a duplicate invoice")
	require.ErrorIs(t, err, pgErr)
}

func TestMapInsertErrorOtherErrorsPassThrough(t *testing.T) {
	plain := fmt.Errorf("connection reset")
	require.ErrorIs(t, mapInsertError(plain), plain)

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "purchase_invoices_supplier_id_fkey"}
	require.False(t, errors.Is(mapInsertError(fk), ErrDuplicateInvoice))
}
