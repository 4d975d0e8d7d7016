package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
	"github.com/avnish/coldledger/internal/usecase/mocks"
)

func newRentFixture(t *testing.T) (*usecase.RentUseCase, *mocks.MockConfigRepository, *mocks.MockLotRepository, *mocks.MockBillRepository) {
	t.Helper()

	configRepo := mocks.NewMockConfigRepository()
	lotRepo := mocks.NewMockLotRepository()
	billRepo := mocks.NewMockBillRepository()

	configRepo.AddRentConfig(&domain.RentConfig{
		CommodityID: "potato",
		Rates:       domain.PacketRates{PKT1: decimal.NewFromInt(1)},
		Basis:       domain.BasisPacket,
		RentOn:      domain.RentOnQuantity,
		ChargeAs:    domain.ChargeDaily,
		Mode:        domain.ModeNikasiTotal,
		GSTRateID:   "gst-18",
	})
	configRepo.AddRentConfig(&domain.RentConfig{
		CommodityID: "onion",
		Rates:       domain.PacketRates{PKT1: decimal.NewFromInt(2)},
		Basis:       domain.BasisPacket,
		RentOn:      domain.RentOnQuantity,
		ChargeAs:    domain.ChargeDaily,
		Mode:        domain.ModeSaudaBolan,
		GSTRateID:   "gst-18",
	})

	return usecase.NewRentUseCase(configRepo, lotRepo, billRepo), configRepo, lotRepo, billRepo
}

func TestRentUseCase_ResolveConfig(t *testing.T) {
	uc, configRepo, _, _ := newRentFixture(t)

	cfg, err := uc.ResolveConfig(context.Background(), "potato", day(2025, time.November, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CommodityID != "potato" {
		t.Errorf("commodity = %s, want potato", cfg.CommodityID)
	}

	if _, err := uc.ResolveConfig(context.Background(), "wheat", day(2025, time.November, 1)); !errors.Is(err, domain.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}

	// A structurally broken record never reaches the calculator.
	configRepo.AddRentConfig(&domain.RentConfig{
		CommodityID:     "broken",
		GracePeriodDays: -1,
		Basis:           domain.BasisPacket,
		RentOn:          domain.RentOnQuantity,
		ChargeAs:        domain.ChargeDaily,
		Mode:            domain.ModeNikasiTotal,
	})
	if _, err := uc.ResolveConfig(context.Background(), "broken", day(2025, time.November, 1)); !errors.Is(err, domain.ErrNegativeDayCount) {
		t.Fatalf("expected ErrNegativeDayCount, got %v", err)
	}
}

func TestRentUseCase_ComputeRentCharge(t *testing.T) {
	uc, _, lotRepo, _ := newRentFixture(t)

	lotRepo.Add(&domain.Lot{
		ID:          "lot-1",
		PartyID:     "acc-kisan",
		CommodityID: "potato",
		ReceiptDate: day(2025, time.November, 1),
		Packets:     domain.PacketQty{PKT1: 10},
	})

	charge, err := uc.ComputeRentCharge(context.Background(), "lot-1", day(2025, time.November, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if charge.ElapsedDays != 5 {
		t.Errorf("elapsed = %d, want 5", charge.ElapsedDays)
	}
	if !charge.Gross.Equal(decimal.NewFromInt(50)) {
		t.Errorf("gross = %s, want 50", charge.Gross)
	}

	if _, err := uc.ComputeRentCharge(context.Background(), "lot-missing", day(2025, time.November, 6)); !errors.Is(err, domain.ErrLotNotFound) {
		t.Fatalf("expected ErrLotNotFound, got %v", err)
	}
}

func TestRentUseCase_ComputeDispatchRentCharge_NikasiTotal(t *testing.T) {
	uc, _, lotRepo, billRepo := newRentFixture(t)
	ctx := context.Background()

	lotRepo.Add(&domain.Lot{
		ID:          "lot-1",
		PartyID:     "acc-kisan",
		CommodityID: "potato",
		ReceiptDate: day(2025, time.November, 1),
		Packets:     domain.PacketQty{PKT1: 10},
		Dispatches: []domain.Dispatch{
			{ID: "d-1", LotID: "lot-1", Date: day(2025, time.November, 5), Packets: domain.PacketQty{PKT1: 4}},
			{ID: "d-2", LotID: "lot-1", Date: day(2025, time.November, 10), Packets: domain.PacketQty{PKT1: 6}},
		},
	})

	// The first dispatch was already billed for its 4 packets.
	if err := billRepo.Create(ctx, &domain.Bill{
		ID:      "bill-1",
		PartyID: "acc-kisan",
		LotIDs:  []string{"lot-1"},
		Period:  "2025-11",
		Packets: domain.PacketQty{PKT1: 4},
		Status:  domain.BillPending,
	}); err != nil {
		t.Fatalf("seeding bill: %v", err)
	}

	charge, err := uc.ComputeDispatchRentCharge(ctx, "lot-1", "d-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cumulative dispatched 10 minus 4 already billed, 9 elapsed days.
	if charge.ElapsedDays != 9 {
		t.Errorf("elapsed = %d, want 9", charge.ElapsedDays)
	}
	if !charge.Gross.Equal(decimal.NewFromInt(54)) {
		t.Errorf("gross = %s, want 54 (6 packets x 1 x 9 days)", charge.Gross)
	}
}

func TestRentUseCase_ComputeDispatchRentCharge_SaudaBolan(t *testing.T) {
	uc, _, lotRepo, _ := newRentFixture(t)

	lotRepo.Add(&domain.Lot{
		ID:          "lot-2",
		PartyID:     "acc-kisan",
		CommodityID: "onion",
		ReceiptDate: day(2025, time.November, 1),
		Packets:     domain.PacketQty{PKT1: 20},
		Dispatches: []domain.Dispatch{
			{
				ID:           "d-1",
				LotID:        "lot-2",
				Date:         day(2025, time.November, 10),
				Packets:      domain.PacketQty{PKT1: 5},
				SaudaID:      "sauda-7",
				SaudaPackets: domain.PacketQty{PKT1: 3},
			},
		},
	})

	charge, err := uc.ComputeDispatchRentCharge(context.Background(), "lot-2", "d-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The deal quantity is authoritative: 3 packets x 2 x 9 days.
	if !charge.Gross.Equal(decimal.NewFromInt(54)) {
		t.Errorf("gross = %s, want 54", charge.Gross)
	}
	if charge.SaudaID != "sauda-7" {
		t.Errorf("sauda id = %s, want sauda-7", charge.SaudaID)
	}
}

func TestRentUseCase_ComputeDispatchRentCharge_UnknownDispatch(t *testing.T) {
	uc, _, lotRepo, _ := newRentFixture(t)

	lotRepo.Add(&domain.Lot{
		ID:          "lot-1",
		PartyID:     "acc-kisan",
		CommodityID: "potato",
		ReceiptDate: day(2025, time.November, 1),
		Packets:     domain.PacketQty{PKT1: 10},
	})

	if _, err := uc.ComputeDispatchRentCharge(context.Background(), "lot-1", "d-ghost"); !errors.Is(err, domain.ErrLotNotFound) {
		t.Fatalf("expected ErrLotNotFound, got %v", err)
	}
}
