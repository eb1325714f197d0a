package journals

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folio-erp/folio-erp/internal/ledger/sequence"
	lshared "github.com/folio-erp/folio-erp/internal/ledger/shared"
)

// Repository encapsulates DB operations for the journal viewer and the
// manual-entry intake.
type Repository interface {
	ListEntries(ctx context.Context, companyID int64) ([]JournalEntry, error)
	GetEntry(ctx context.Context, companyID, entryID int64) (JournalEntry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available within one transaction.
type TxRepository interface {
	TxStore
	NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error)
	InsertManualDocument(ctx context.Context, doc ManualDocument) (ManualDocument, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const entryColumns = `id, company_id, source_type, source_id, narrative, entry_date, created_by, created_at`

func (r *repository) ListEntries(ctx context.Context, companyID int64) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE company_id=$1 ORDER BY id DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.SourceType, &e.SourceID, &e.Narrative, &e.EntryDate, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) GetEntry(ctx context.Context, companyID, entryID int64) (JournalEntry, error) {
	var e JournalEntry
	err := r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE company_id=$1 AND id=$2`, companyID, entryID).
		Scan(&e.ID, &e.CompanyID, &e.SourceType, &e.SourceID, &e.Narrative, &e.EntryDate, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, lshared.ErrEntryNotFound
		}
		return JournalEntry{}, err
	}
	rows, err := r.db.Query(ctx, `SELECT l.id, l.entry_id, l.account_id, a.code, l.debit, l.credit
FROM journal_lines l JOIN accounts a ON a.id=l.account_id
WHERE l.entry_id=$1 ORDER BY l.id`, entryID)
	if err != nil {
		return JournalEntry{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line JournalLine
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.AccountCode, &line.Debit, &line.Credit); err != nil {
			return JournalEntry{}, err
		}
		e.Lines = append(e.Lines, line)
	}
	return e, rows.Err()
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	if err := fn(ctx, &txRepository{txStore{tx: tx}}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// txStore is the pgx-backed posting engine store. Other domains construct it
// over their own transaction via NewTxStore.
type txStore struct {
	tx pgx.Tx
}

// NewTxStore wraps an open transaction as a posting engine store.
func NewTxStore(tx pgx.Tx) TxStore {
	return &txStore{tx: tx}
}

func (s *txStore) ResolvePostableAccount(ctx context.Context, companyID int64, code string) (int64, error) {
	var id int64
	var postable bool
	err := s.tx.QueryRow(ctx, `SELECT id, postable FROM accounts WHERE company_id=$1 AND code=$2`, companyID, code).Scan(&id, &postable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, lshared.ErrUnknownAccount
		}
		return 0, err
	}
	if !postable {
		return 0, lshared.ErrAccountNotPostable
	}
	return id, nil
}

func (s *txStore) InsertEntry(ctx context.Context, entry JournalEntry) (JournalEntry, error) {
	err := s.tx.QueryRow(ctx, `INSERT INTO journal_entries (company_id, source_type, source_id, narrative, entry_date, created_by)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at`,
		entry.CompanyID, entry.SourceType, entry.SourceID, entry.Narrative, entry.EntryDate, entry.CreatedBy).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (s *txStore) InsertLines(ctx context.Context, entryID int64, lines []JournalLine) error {
	for _, line := range lines {
		if _, err := s.tx.Exec(ctx, `INSERT INTO journal_lines (entry_id, account_id, debit, credit)
VALUES ($1,$2,$3,$4)`, entryID, line.AccountID, line.Debit, line.Credit); err != nil {
			return err
		}
	}
	return nil
}

type txRepository struct {
	txStore
}

func (r *txRepository) NextSmartCode(ctx context.Context, companyID, prefix int64) (int64, error) {
	return sequence.NextSmartCode(ctx, r.tx, companyID, prefix)
}

func (r *txRepository) InsertManualDocument(ctx context.Context, doc ManualDocument) (ManualDocument, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO manual_entries (company_id, smart_code, narrative, entry_date, status, created_by)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id, created_at`,
		doc.CompanyID, doc.SmartCode, doc.Narrative, doc.EntryDate, doc.Status, doc.CreatedBy).
		Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return ManualDocument{}, err
	}
	return doc, nil
}
