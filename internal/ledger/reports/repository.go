package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// BalancesRange sums journal lines per account for documents whose issue
	// date falls in [start, end] inclusive and whose status is not VOIDED.
	// Void mirrors are born VOIDED, so a reversal pair drops out entirely.
	BalancesRange(ctx context.Context, companyID int64, start, end time.Time) ([]LineAggregate, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) BalancesRange(ctx context.Context, companyID int64, start, end time.Time) ([]LineAggregate, error) {
	rows, err := r.db.Query(ctx, `SELECT a.code, a.name, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
FROM journal_lines l
JOIN journal_entries e ON e.id=l.entry_id
JOIN accounts a ON a.id=l.account_id
LEFT JOIN purchase_invoices pi ON e.source_type='PURCHASE_INVOICE' AND pi.id=e.source_id
LEFT JOIN manual_entries me ON e.source_type IN ('MANUAL','VOID') AND me.id=e.source_id
WHERE e.company_id=$1
  AND COALESCE(pi.status, me.status) <> 'VOIDED'
  AND COALESCE(pi.issue_date, me.entry_date)::date BETWEEN $2::date AND $3::date
GROUP BY a.code, a.name
ORDER BY a.code`, companyID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var aggregates []LineAggregate
	for rows.Next() {
		var agg LineAggregate
		if err := rows.Scan(&agg.AccountCode, &agg.AccountName, &agg.Debit, &agg.Credit); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, rows.Err()
}
