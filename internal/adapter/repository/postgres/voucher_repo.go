package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
)

// VoucherRepository implements usecase.VoucherRepository. Vouchers are
// append-only: there is no update or delete path.
type VoucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository creates a new VoucherRepository.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// Create inserts a voucher and its lines within the posting transaction.
func (r *VoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	pgxTx := pgxTxOf(tx)

	var key *string
	if voucher.IdempotencyKey != "" {
		key = &voucher.IdempotencyKey
	}

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO vouchers (id, type, date, narration, idempotency_key, reversed_voucher_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		voucher.ID,
		string(voucher.Type),
		timeToPgDate(voucher.Date),
		voucher.Narration,
		key,
		voucher.ReversedVoucherID,
		timeToPgTimestamptz(voucher.CreatedAt),
	)
	if err != nil {
		return err
	}

	for i, line := range voucher.Lines {
		_, err := pgxTx.Exec(ctx, `
			INSERT INTO voucher_lines (voucher_id, line_no, account_id, debit, credit, narration)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			voucher.ID, i, line.AccountID,
			decimalToNumeric(line.Debit), decimalToNumeric(line.Credit),
			line.Narration,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a voucher with its lines.
func (r *VoucherRepository) GetByID(ctx context.Context, id string) (*domain.Voucher, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByIdempotencyKey retrieves the voucher posted under a billing key.
func (r *VoucherRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Voucher, error) {
	return r.getOne(ctx, `WHERE idempotency_key = $1`, key)
}

// GetReversalOf retrieves the voucher that reverses the given voucher.
func (r *VoucherRepository) GetReversalOf(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return r.getOne(ctx, `WHERE reversed_voucher_id = $1`, voucherID)
}

func (r *VoucherRepository) getOne(ctx context.Context, where string, arg any) (*domain.Voucher, error) {
	var (
		v         domain.Voucher
		vtype     string
		date      pgtype.Date
		key       pgtype.Text
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, type, date, narration, idempotency_key, reversed_voucher_id, created_at
		FROM vouchers `+where, arg).Scan(
		&v.ID, &vtype, &date, &v.Narration, &key, &v.ReversedVoucherID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVoucherNotFound
		}

		return nil, err
	}

	v.Type = domain.VoucherType(vtype)
	v.Date = date.Time
	v.IdempotencyKey = key.String
	v.CreatedAt = createdAt.Time

	rows, err := r.pool.Query(ctx, `
		SELECT account_id, debit, credit, narration
		FROM voucher_lines
		WHERE voucher_id = $1
		ORDER BY line_no`, v.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line          domain.VoucherLine
			debit, credit pgtype.Numeric
		)

		if err := rows.Scan(&line.AccountID, &debit, &credit, &line.Narration); err != nil {
			return nil, err
		}

		line.Debit = numericToDecimal(debit)
		line.Credit = numericToDecimal(credit)
		v.Lines = append(v.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &v, nil
}
