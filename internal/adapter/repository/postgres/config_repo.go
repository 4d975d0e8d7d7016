package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avnish/coldledger/internal/domain"
)

// ConfigRepository implements usecase.ConfigRepository over the commodity
// rent configuration and GST rate reference tables.
type ConfigRepository struct {
	pool *pgxpool.Pool
}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(pool *pgxpool.Pool) *ConfigRepository {
	return &ConfigRepository{pool: pool}
}

// GetRentConfig retrieves the rent configuration of a commodity.
func (r *ConfigRepository) GetRentConfig(ctx context.Context, commodityID string) (*domain.RentConfig, error) {
	var (
		cfg        domain.RentConfig
		rate1      pgtype.Numeric
		rate2      pgtype.Numeric
		rate3      pgtype.Numeric
		weightRate pgtype.Numeric
		startMonth int
		endMonth   int
		createdAt  pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT commodity_id, commodity_name,
			rate_pkt1, rate_pkt2, rate_pkt3, weight_rate,
			grace_period_days, zero_rent_days, half_rent_days,
			basis, rent_on, charge_as, mode,
			season_start_month, season_start_day, season_end_month, season_end_day,
			gst_rate_id, created_at
		FROM rent_configs
		WHERE commodity_id = $1`, commodityID).Scan(
		&cfg.CommodityID, &cfg.CommodityName,
		&rate1, &rate2, &rate3, &weightRate,
		&cfg.GracePeriodDays, &cfg.ZeroRentDays, &cfg.HalfRentDays,
		&cfg.Basis, &cfg.RentOn, &cfg.ChargeAs, &cfg.Mode,
		&startMonth, &cfg.SeasonStartDay, &endMonth, &cfg.SeasonEndDay,
		&cfg.GSTRateID, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}

		return nil, err
	}

	cfg.Rates = domain.PacketRates{
		PKT1: numericToDecimal(rate1),
		PKT2: numericToDecimal(rate2),
		PKT3: numericToDecimal(rate3),
	}
	cfg.WeightRate = numericToDecimal(weightRate)
	cfg.SeasonStartMonth = time.Month(startMonth)
	cfg.SeasonEndMonth = time.Month(endMonth)
	cfg.CreatedAt = createdAt.Time

	return &cfg, nil
}

// GetGSTRate retrieves a GST rate record.
func (r *ConfigRepository) GetGSTRate(ctx context.Context, id string) (*domain.GSTRate, error) {
	var (
		rate      domain.GSTRate
		cgst      pgtype.Numeric
		sgst      pgtype.Numeric
		igst      pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, cgst, sgst, igst, created_at
		FROM gst_rates
		WHERE id = $1`, id).Scan(&rate.ID, &rate.Name, &cgst, &sgst, &igst, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGSTRateNotFound
		}

		return nil, err
	}

	rate.CGST = numericToDecimal(cgst)
	rate.SGST = numericToDecimal(sgst)
	rate.IGST = numericToDecimal(igst)
	rate.CreatedAt = createdAt.Time

	return &rate, nil
}
