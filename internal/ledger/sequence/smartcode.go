package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// DocType is the two-digit document-type component of a smart code.
type DocType int

const (
	DocTypePurchaseInvoice DocType = 26
	DocTypeManualEntry     DocType = 33
	DocTypeQuotation       DocType = 36
)

// Prefix derives the four-digit smart-code prefix for a document: two-digit
// fiscal year followed by the two-digit document type. A 2026 purchase
// invoice yields 2626.
func Prefix(issueDate time.Time, docType DocType) int64 {
	return int64(issueDate.Year()%100)*100 + int64(docType)
}

// Seed is the first smart code for a prefix: the prefix followed by four
// zero digits.
func Seed(prefix int64) int64 {
	return prefix * 10000
}

// NextSmartCode returns the next smart code for the prefix: the numeric max
// of existing codes string-matching the prefix plus one, or Seed(prefix)
// when none exist. The scan covers every table carrying smart codes so a
// code is unique across document kinds.
//
// The legacy scheme was a bare MAX-then-INSERT, which lets two concurrent
// registrations compute the same code. The scan therefore takes a
// transaction-scoped advisory lock on (company, prefix) first; holders queue
// behind each other until commit, which keeps the numbering scheme intact
// while closing the race.
func NextSmartCode(ctx context.Context, tx pgx.Tx, companyID int64, prefix int64) (int64, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, int32(companyID), int32(prefix)); err != nil {
		return 0, err
	}
	pattern := fmt.Sprintf("%d%%", prefix)
	var max *int64
	err := tx.QueryRow(ctx, `SELECT MAX(code) FROM (
		SELECT smart_code AS code FROM purchase_invoices WHERE company_id=$1 AND smart_code::text LIKE $2
		UNION ALL
		SELECT smart_code FROM manual_entries WHERE company_id=$1 AND smart_code::text LIKE $2
		UNION ALL
		SELECT smart_code FROM quotations WHERE company_id=$1 AND smart_code::text LIKE $2
	) codes`, companyID, pattern).Scan(&max)
	if err != nil {
		return 0, err
	}
	if max == nil {
		return Seed(prefix), nil
	}
	return *max + 1, nil
}
