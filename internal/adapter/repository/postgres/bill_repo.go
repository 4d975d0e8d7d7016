package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avnish/coldledger/internal/domain"
)

// BillRepository implements usecase.BillRepository. Charge lines are stored
// as a JSON document; they are read and written as a unit and never queried
// line by line.
type BillRepository struct {
	pool *pgxpool.Pool
}

// NewBillRepository creates a new BillRepository.
func NewBillRepository(pool *pgxpool.Pool) *BillRepository {
	return &BillRepository{pool: pool}
}

// Create inserts a draft bill.
func (r *BillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	lines, err := json.Marshal(bill.Lines)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO bills (id, party_id, lot_ids, period, billed_through,
			pkt1, pkt2, pkt3, lines, discount,
			taxable, cgst, sgst, igst, grand_total, outstanding,
			status, voucher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		bill.ID, bill.PartyID, bill.LotIDs, bill.Period,
		timeToPgTimestamptz(bill.BilledThrough),
		bill.Packets.PKT1, bill.Packets.PKT2, bill.Packets.PKT3,
		lines, decimalToNumeric(bill.Discount),
		decimalToNumeric(bill.Taxable),
		decimalToNumeric(bill.GST.CGST),
		decimalToNumeric(bill.GST.SGST),
		decimalToNumeric(bill.GST.IGST),
		decimalToNumeric(bill.GrandTotal),
		decimalToNumeric(bill.Outstanding),
		string(bill.Status), bill.VoucherID,
		timeToPgTimestamptz(bill.CreatedAt),
		timeToPgTimestamptz(bill.UpdatedAt),
	)

	return err
}

// Update rewrites the bill's mutable state.
func (r *BillRepository) Update(ctx context.Context, bill *domain.Bill) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bills
		SET outstanding = $2, status = $3, voucher_id = $4, updated_at = $5
		WHERE id = $1`,
		bill.ID,
		decimalToNumeric(bill.Outstanding),
		string(bill.Status),
		bill.VoucherID,
		timeToPgTimestamptz(bill.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBillNotFound
	}

	return nil
}

// GetByID retrieves a bill.
func (r *BillRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+billColumns+` FROM bills WHERE id = $1`, id)

	return scanBill(row)
}

// ListOpenByParty returns the party's PENDING bills, oldest first, for
// receipt allocation.
func (r *BillRepository) ListOpenByParty(ctx context.Context, partyID string) ([]*domain.Bill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+billColumns+` FROM bills
		WHERE party_id = $1 AND status = $2
		ORDER BY created_at`, partyID, string(domain.BillPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*domain.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}

	return bills, rows.Err()
}

// BilledPackets returns the cumulative packet quantity already billed
// against a lot, ignoring cancelled bills.
func (r *BillRepository) BilledPackets(ctx context.Context, lotID string) (domain.PacketQty, error) {
	var qty domain.PacketQty

	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(pkt1), 0), COALESCE(SUM(pkt2), 0), COALESCE(SUM(pkt3), 0)
		FROM bills
		WHERE $1 = ANY(lot_ids) AND status <> $2`,
		lotID, string(domain.BillCancelled)).Scan(&qty.PKT1, &qty.PKT2, &qty.PKT3)

	return qty, err
}

// LastBilledThrough returns the latest accrual cutoff among the lot's
// confirmed bills. NULL (never billed) scans as the zero time.
func (r *BillRepository) LastBilledThrough(ctx context.Context, lotID string) (time.Time, error) {
	var ts pgtype.Timestamptz

	err := r.pool.QueryRow(ctx, `
		SELECT MAX(billed_through) FROM bills
		WHERE $1 = ANY(lot_ids) AND status IN ($2, $3)`,
		lotID, string(domain.BillPending), string(domain.BillPaid)).Scan(&ts)
	if err != nil {
		return time.Time{}, err
	}
	if !ts.Valid {
		return time.Time{}, nil
	}

	return ts.Time, nil
}

const billColumns = `id, party_id, lot_ids, period, billed_through,
	pkt1, pkt2, pkt3, lines, discount,
	taxable, cgst, sgst, igst, grand_total, outstanding,
	status, voucher_id, created_at, updated_at`

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var (
		b          domain.Bill
		lines      []byte
		discount   pgtype.Numeric
		taxable    pgtype.Numeric
		cgst       pgtype.Numeric
		sgst       pgtype.Numeric
		igst       pgtype.Numeric
		grandTotal pgtype.Numeric
		outstand   pgtype.Numeric
		status     string
		billedThru pgtype.Timestamptz
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(&b.ID, &b.PartyID, &b.LotIDs, &b.Period, &billedThru,
		&b.Packets.PKT1, &b.Packets.PKT2, &b.Packets.PKT3,
		&lines, &discount,
		&taxable, &cgst, &sgst, &igst, &grandTotal, &outstand,
		&status, &b.VoucherID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}

		return nil, err
	}

	if err := json.Unmarshal(lines, &b.Lines); err != nil {
		return nil, err
	}

	b.Discount = numericToDecimal(discount)
	b.Taxable = numericToDecimal(taxable)
	b.GST = domain.GSTBreakup{
		CGST:  numericToDecimal(cgst),
		SGST:  numericToDecimal(sgst),
		IGST:  numericToDecimal(igst),
		Total: numericToDecimal(cgst).Add(numericToDecimal(sgst)).Add(numericToDecimal(igst)),
	}
	b.GrandTotal = numericToDecimal(grandTotal)
	b.Outstanding = numericToDecimal(outstand)
	b.Status = domain.BillStatus(status)
	b.BilledThrough = billedThru.Time
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
