package usecase

import (
	"context"
	"time"

	"github.com/avnish/coldledger/internal/domain"
)

// RentUseCase resolves rent configurations and computes rent charges.
// Computation is pure and side-effect free; it may run with unbounded
// parallelism across lots.
type RentUseCase struct {
	configRepo ConfigRepository
	lotRepo    LotRepository
	billRepo   BillRepository
}

// NewRentUseCase creates a new RentUseCase.
func NewRentUseCase(configRepo ConfigRepository, lotRepo LotRepository, billRepo BillRepository) *RentUseCase {
	return &RentUseCase{
		configRepo: configRepo,
		lotRepo:    lotRepo,
		billRepo:   billRepo,
	}
}

// ResolveConfig returns the rent configuration in effect for a commodity.
// Reference data is single-version per commodity; the as-of date is
// accepted for interface stability should time-varying rates appear.
func (uc *RentUseCase) ResolveConfig(ctx context.Context, commodityID string, asOf time.Time) (*domain.RentConfig, error) {
	cfg, err := uc.configRepo.GetRentConfig(ctx, commodityID)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ComputeRentCharge computes the rent for a lot's full quantity up to asOf.
func (uc *RentUseCase) ComputeRentCharge(ctx context.Context, lotID string, asOf time.Time) (*domain.RentCharge, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}

	cfg, err := uc.ResolveConfig(ctx, lot.CommodityID, asOf)
	if err != nil {
		return nil, err
	}

	return domain.ComputeRent(lot, asOf, cfg)
}

// ComputeDispatchRentCharge computes the rent attributable to one dispatch
// of a lot, honoring the commodity's rent calculation mode. The quantity
// already billed against the lot is subtracted in NIKASI_TOTAL mode.
func (uc *RentUseCase) ComputeDispatchRentCharge(ctx context.Context, lotID, dispatchID string) (*domain.RentCharge, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}

	var dispatch *domain.Dispatch
	for i := range lot.Dispatches {
		if lot.Dispatches[i].ID == dispatchID {
			dispatch = &lot.Dispatches[i]
			break
		}
	}
	if dispatch == nil {
		return nil, domain.ErrLotNotFound
	}

	cfg, err := uc.ResolveConfig(ctx, lot.CommodityID, dispatch.Date)
	if err != nil {
		return nil, err
	}

	billed, err := uc.billRepo.BilledPackets(ctx, lotID)
	if err != nil {
		return nil, err
	}

	return domain.ComputeDispatchRent(lot, *dispatch, cfg, billed)
}
