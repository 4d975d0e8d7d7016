package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avnish/coldledger/internal/domain"
)

// LotRepository implements usecase.LotRepository. Lots and dispatches are
// written by the inventory side; billing only reads them here.
type LotRepository struct {
	pool *pgxpool.Pool
}

// NewLotRepository creates a new LotRepository.
func NewLotRepository(pool *pgxpool.Pool) *LotRepository {
	return &LotRepository{pool: pool}
}

// GetByID retrieves a lot with its dispatches.
func (r *LotRepository) GetByID(ctx context.Context, id string) (*domain.Lot, error) {
	lot, err := r.scanLotRow(r.pool.QueryRow(ctx, `
		SELECT id, party_id, commodity_id, receipt_date,
			pkt1, pkt2, pkt3, weight_pkt1, weight_pkt2, weight_pkt3, created_at
		FROM lots
		WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadDispatches(ctx, map[string]*domain.Lot{lot.ID: lot}); err != nil {
		return nil, err
	}

	return lot, nil
}

// ListOpen lists lots that still hold goods, ordered by receipt date.
func (r *LotRepository) ListOpen(ctx context.Context, limit, offset int) ([]*domain.Lot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.party_id, l.commodity_id, l.receipt_date,
			l.pkt1, l.pkt2, l.pkt3, l.weight_pkt1, l.weight_pkt2, l.weight_pkt3, l.created_at
		FROM lots l
		WHERE l.pkt1 + l.pkt2 + l.pkt3 > COALESCE((
			SELECT SUM(d.pkt1 + d.pkt2 + d.pkt3) FROM dispatches d WHERE d.lot_id = l.id
		), 0)
		ORDER BY l.receipt_date, l.id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Lot)
	var lots []*domain.Lot
	for rows.Next() {
		lot, err := r.scanLotRow(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
		byID[lot.ID] = lot
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadDispatches(ctx, byID); err != nil {
		return nil, err
	}

	return lots, nil
}

func (r *LotRepository) scanLotRow(row pgx.Row) (*domain.Lot, error) {
	var (
		lot         domain.Lot
		receiptDate pgtype.Date
		w1, w2, w3  pgtype.Numeric
		createdAt   pgtype.Timestamptz
	)

	err := row.Scan(&lot.ID, &lot.PartyID, &lot.CommodityID, &receiptDate,
		&lot.Packets.PKT1, &lot.Packets.PKT2, &lot.Packets.PKT3,
		&w1, &w2, &w3, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLotNotFound
		}

		return nil, err
	}

	lot.ReceiptDate = receiptDate.Time
	lot.Weights = domain.PacketWeight{
		PKT1: numericToDecimal(w1),
		PKT2: numericToDecimal(w2),
		PKT3: numericToDecimal(w3),
	}
	lot.CreatedAt = createdAt.Time

	return &lot, nil
}

func (r *LotRepository) loadDispatches(ctx context.Context, lots map[string]*domain.Lot) error {
	if len(lots) == 0 {
		return nil
	}

	ids := make([]string, 0, len(lots))
	for id := range lots {
		ids = append(ids, id)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, lot_id, dispatch_date, pkt1, pkt2, pkt3,
			weight_pkt1, weight_pkt2, weight_pkt3,
			sauda_id, sauda_pkt1, sauda_pkt2, sauda_pkt3, created_at
		FROM dispatches
		WHERE lot_id = ANY($1)
		ORDER BY dispatch_date, created_at`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d          domain.Dispatch
			date       pgtype.Date
			w1, w2, w3 pgtype.Numeric
			saudaID    pgtype.Text
			createdAt  pgtype.Timestamptz
		)

		err := rows.Scan(&d.ID, &d.LotID, &date,
			&d.Packets.PKT1, &d.Packets.PKT2, &d.Packets.PKT3,
			&w1, &w2, &w3,
			&saudaID, &d.SaudaPackets.PKT1, &d.SaudaPackets.PKT2, &d.SaudaPackets.PKT3,
			&createdAt)
		if err != nil {
			return err
		}

		d.Date = date.Time
		d.Weights = domain.PacketWeight{
			PKT1: numericToDecimal(w1),
			PKT2: numericToDecimal(w2),
			PKT3: numericToDecimal(w3),
		}
		d.SaudaID = saudaID.String
		d.CreatedAt = createdAt.Time

		if lot, ok := lots[d.LotID]; ok {
			lot.Dispatches = append(lot.Dispatches, d)
		}
	}

	return rows.Err()
}
