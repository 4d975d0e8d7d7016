package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
)

const entryColumns = `id, account_id, voucher_id, date, debit, credit, running_balance, created_at`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends a ledger entry within the posting transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := pgxTxOf(tx)

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO ledger_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID,
		entry.AccountID,
		entry.VoucherID,
		timeToPgDate(entry.Date),
		decimalToNumeric(entry.Debit),
		decimalToNumeric(entry.Credit),
		decimalToNumeric(entry.RunningBalance),
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// ListByAccountAfter returns the account's entries strictly after date,
// ordered by (date, created_at), locked for the running-balance rewrite.
func (r *EntryRepository) ListByAccountAfter(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) ([]*domain.LedgerEntry, error) {
	pgxTx := pgxTxOf(tx)

	rows, err := pgxTx.Query(ctx, `
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE account_id = $1 AND date > $2
		ORDER BY date, created_at
		FOR UPDATE`, accountID, timeToPgDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// UpdateRunningBalance rewrites one entry's running balance.
func (r *EntryRepository) UpdateRunningBalance(ctx context.Context, tx usecase.Transaction, entryID string, balance decimal.Decimal) error {
	pgxTx := pgxTxOf(tx)

	_, err := pgxTx.Exec(ctx, `
		UPDATE ledger_entries SET running_balance = $2 WHERE id = $1`,
		entryID, decimalToNumeric(balance))

	return err
}

// ListByAccount lists an account's entries with pagination.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE account_id = $1
		ORDER BY date, created_at
		LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByVoucher lists the entries of a voucher.
func (r *EntryRepository) ListByVoucher(ctx context.Context, voucherID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE voucher_id = $1
		ORDER BY date, created_at`, voucherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByDate lists every entry posted on a calendar date.
func (r *EntryRepository) ListByDate(ctx context.Context, date time.Time) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE date = $1
		ORDER BY created_at`, timeToPgDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SumSigned totals an account's entries in [from, to) in the account's
// sign convention. A zero from means from the beginning of time.
func (r *EntryRepository) SumSigned(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN a.nature = 'CR' THEN e.credit - e.debit ELSE e.debit - e.credit END
		), 0)
		FROM ledger_entries e
		JOIN accounts a ON a.id = e.account_id
		WHERE e.account_id = $1`

	args := []any{accountID}
	if !from.IsZero() {
		args = append(args, timeToPgDate(from))
		query += ` AND e.date >= $2`
	}
	if !to.IsZero() {
		args = append(args, timeToPgDate(to))
		if len(args) == 3 {
			query += ` AND e.date < $3`
		} else {
			query += ` AND e.date < $2`
		}
	}

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for rows.Next() {
		var (
			e              domain.LedgerEntry
			date           pgtype.Date
			debit, credit  pgtype.Numeric
			runningBalance pgtype.Numeric
			createdAt      pgtype.Timestamptz
		)

		err := rows.Scan(&e.ID, &e.AccountID, &e.VoucherID, &date,
			&debit, &credit, &runningBalance, &createdAt)
		if err != nil {
			return nil, err
		}

		e.Date = date.Time
		e.Debit = numericToDecimal(debit)
		e.Credit = numericToDecimal(credit)
		e.RunningBalance = numericToDecimal(runningBalance)
		e.CreatedAt = createdAt.Time

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
