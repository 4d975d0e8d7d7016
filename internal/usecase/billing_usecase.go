package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
)

// BillingUseCase builds bills from rent and ancillary charges and drives
// the bill lifecycle through the ledger.
type BillingUseCase struct {
	rentUC        *RentUseCase
	ledgerUC      *LedgerUseCase
	billRepo      BillRepository
	lotRepo       LotRepository
	accountRepo   AccountRepository
	configRepo    ConfigRepository
	idGen         IDGenerator
	supplierState string
}

// BillingConfig holds dependencies for the BillingUseCase.
type BillingConfig struct {
	RentUC        *RentUseCase
	LedgerUC      *LedgerUseCase
	BillRepo      BillRepository
	LotRepo       LotRepository
	AccountRepo   AccountRepository
	ConfigRepo    ConfigRepository
	IDGen         IDGenerator
	SupplierState string // GST state code of the storage operator
}

// NewBillingUseCase creates a new BillingUseCase.
func NewBillingUseCase(cfg BillingConfig) *BillingUseCase {
	return &BillingUseCase{
		rentUC:        cfg.RentUC,
		ledgerUC:      cfg.LedgerUC,
		billRepo:      cfg.BillRepo,
		lotRepo:       cfg.LotRepo,
		accountRepo:   cfg.AccountRepo,
		configRepo:    cfg.ConfigRepo,
		idGen:         cfg.IDGen,
		supplierState: cfg.SupplierState,
	}
}

// AncillaryCharge is a loading/unloading/dala style charge line input.
type AncillaryCharge struct {
	Kind        domain.ChargeKind
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

// BuildBillInput describes a draft bill request.
type BuildBillInput struct {
	LotIDs    []string
	AsOf      time.Time
	Period    string // defaults to AsOf's calendar month
	Ancillary []AncillaryCharge
	Discount  decimal.Decimal
}

// BuildBill computes rent for the selected lots, adds ancillary charges and
// GST, and persists a DRAFT bill. Nothing reaches the ledger until the bill
// is confirmed.
func (uc *BillingUseCase) BuildBill(ctx context.Context, input BuildBillInput) (*domain.Bill, error) {
	if len(input.LotIDs) == 0 {
		return nil, domain.ErrLotNotFound
	}

	if input.Period == "" {
		input.Period = domain.DateOf(input.AsOf).Format(BillingPeriodLayout)
	}

	bill := &domain.Bill{
		ID:            uc.idGen.Generate(),
		LotIDs:        input.LotIDs,
		Period:        input.Period,
		BilledThrough: domain.DateOf(input.AsOf),
		Discount:      input.Discount,
		Status:        domain.BillDraft,
	}

	var gstRateID string

	for _, lotID := range input.LotIDs {
		lot, err := uc.lotRepo.GetByID(ctx, lotID)
		if err != nil {
			return nil, err
		}

		if bill.PartyID == "" {
			bill.PartyID = lot.PartyID
		} else if bill.PartyID != lot.PartyID {
			return nil, fmt.Errorf("%w: lots belong to different parties", domain.ErrNotPartyAccount)
		}

		cfg, err := uc.rentUC.ResolveConfig(ctx, lot.CommodityID, input.AsOf)
		if err != nil {
			return nil, err
		}
		if gstRateID == "" {
			gstRateID = cfg.GSTRateID
		}

		// Charge only the accrual since the last confirmed bill, so a lot
		// held across periods is never billed twice for the same days.
		billedThrough, err := uc.billRepo.LastBilledThrough(ctx, lot.ID)
		if err != nil {
			return nil, err
		}

		charge, err := domain.ComputeRentSince(lot, billedThrough, input.AsOf, cfg)
		if err != nil {
			return nil, err
		}

		bill.Lines = append(bill.Lines, domain.ChargeLine{
			Kind:        domain.ChargeRent,
			Description: fmt.Sprintf("rent for lot %s (%d days)", lot.ID, charge.BillableDays),
			Quantity:    decimal.NewFromInt(lot.Packets.Total()),
			Rate:        decimal.Zero,
			Amount:      charge.Gross,
		})
		bill.Packets = bill.Packets.Add(lot.Packets)
	}

	for _, a := range input.Ancillary {
		bill.Lines = append(bill.Lines, domain.NewChargeLine(a.Kind, a.Description, a.Quantity, a.Rate))
	}

	party, err := uc.accountRepo.GetByID(ctx, bill.PartyID)
	if err != nil {
		return nil, err
	}
	if !party.IsParty() {
		return nil, domain.ErrNotPartyAccount
	}

	rate, err := uc.configRepo.GetGSTRate(ctx, gstRateID)
	if err != nil {
		return nil, err
	}

	if err := bill.Totalize(uc.supplierState, party.StateCode, rate); err != nil {
		return nil, err
	}

	bill.CreatedAt = time.Now().UTC()
	bill.UpdatedAt = bill.CreatedAt

	if err := uc.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

// ConfirmBill posts the bill's voucher and moves it DRAFT -> PENDING.
// Confirming a (lot, period) pair that is already posted returns
// ErrDuplicateBilling and posts nothing new.
func (uc *BillingUseCase) ConfirmBill(ctx context.Context, billID string, date time.Time) (*domain.Bill, error) {
	bill, err := uc.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	accounts, err := uc.voucherAccounts(ctx, bill.PartyID)
	if err != nil {
		return nil, err
	}

	voucher, err := bill.BuildVoucher(uc.idGen.Generate(), accounts, date)
	if err != nil {
		return nil, err
	}

	posted, err := uc.ledgerUC.PostVoucher(ctx, voucher)
	if err != nil {
		return nil, err
	}

	if err := bill.Confirm(posted.ID); err != nil {
		return nil, err
	}

	bill.UpdatedAt = time.Now().UTC()
	if err := uc.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

// CancelBill cancels a bill. PENDING bills are reversed in the ledger
// first; the original voucher stays on the books for audit.
func (uc *BillingUseCase) CancelBill(ctx context.Context, billID string, date time.Time) (*domain.Bill, error) {
	bill, err := uc.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	if bill.Status == domain.BillPending {
		if _, err := uc.ledgerUC.ReverseVoucher(ctx, bill.VoucherID, date, "cancellation of bill "+bill.ID); err != nil {
			return nil, err
		}
	}

	if err := bill.Cancel(); err != nil {
		return nil, err
	}

	bill.UpdatedAt = time.Now().UTC()
	if err := uc.billRepo.Update(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

// ReceiptInput describes a party payment.
type ReceiptInput struct {
	PartyID   string
	Amount    decimal.Decimal
	Date      time.Time
	ViaBank   bool
	Narration string
}

// ReceiptResult reports how a receipt was allocated.
type ReceiptResult struct {
	Voucher     *domain.Voucher
	BillsPaid   []string
	Unallocated decimal.Decimal
}

// CreateReceipt posts a receipt voucher (debit cash or bank, credit the
// party) and allocates the amount against the party's open bills oldest
// first. Fully offset bills flip to PAID.
func (uc *BillingUseCase) CreateReceipt(ctx context.Context, input ReceiptInput) (*ReceiptResult, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	moneyCode := AccountCash
	voucherType := domain.VoucherReceipt
	if input.ViaBank {
		moneyCode = AccountBank
		voucherType = domain.VoucherBank
	}

	moneyAccount, err := uc.accountRepo.GetByCode(ctx, moneyCode)
	if err != nil {
		return nil, err
	}

	voucher := &domain.Voucher{
		ID:        uc.idGen.Generate(),
		Type:      voucherType,
		Date:      domain.DateOf(input.Date),
		Narration: input.Narration,
		Lines: []domain.VoucherLine{
			{AccountID: moneyAccount.ID, Debit: input.Amount, Narration: "receipt"},
			{AccountID: input.PartyID, Credit: input.Amount, Narration: "receipt"},
		},
	}

	posted, err := uc.ledgerUC.PostVoucher(ctx, voucher)
	if err != nil {
		return nil, err
	}

	result := &ReceiptResult{Voucher: posted, Unallocated: input.Amount}

	open, err := uc.billRepo.ListOpenByParty(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}

	for _, bill := range open {
		if result.Unallocated.IsZero() {
			break
		}

		applied, err := bill.ApplyReceipt(result.Unallocated)
		if err != nil {
			return nil, err
		}

		result.Unallocated = result.Unallocated.Sub(applied)

		bill.UpdatedAt = time.Now().UTC()
		if err := uc.billRepo.Update(ctx, bill); err != nil {
			return nil, err
		}

		if bill.Status == domain.BillPaid {
			result.BillsPaid = append(result.BillsPaid, bill.ID)
		}
	}

	return result, nil
}

// BatchResult summarizes a batch billing run.
type BatchResult struct {
	Period  string
	Billed  int
	Skipped int
	Errors  []string
}

// RunBatch generates and confirms rent bills for every open lot for the
// given period. The run is idempotent per (lot, period): already-billed
// pairs are skipped, not errored, so a re-run never duplicates vouchers.
func (uc *BillingUseCase) RunBatch(ctx context.Context, period string, asOf time.Time) (*BatchResult, error) {
	if period == "" {
		period = domain.DateOf(asOf).Format(BillingPeriodLayout)
	}

	result := &BatchResult{Period: period}

	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		lots, err := uc.lotRepo.ListOpen(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, lot := range lots {
			err := uc.billLot(ctx, lot, period, asOf)
			switch {
			case errors.Is(err, domain.ErrDuplicateBilling):
				result.Skipped++
			case err != nil:
				result.Errors = append(result.Errors, fmt.Sprintf("lot %s: %v", lot.ID, err))
			default:
				result.Billed++
			}
		}

		if len(lots) < pageSize {
			break
		}
	}

	return result, nil
}

func (uc *BillingUseCase) billLot(ctx context.Context, lot *domain.Lot, period string, asOf time.Time) error {
	// Check the idempotency key up front so re-runs skip before even
	// creating a draft.
	if _, err := uc.ledgerUC.GetVoucherByIdempotencyKey(ctx, domain.BillingKey(lot.ID, period)); err == nil {
		return domain.ErrDuplicateBilling
	} else if !errors.Is(err, domain.ErrVoucherNotFound) {
		return err
	}

	// A manual bill may have covered this lot under a different voucher
	// key. Skip when rent has already accrued to asOf or beyond.
	billedThrough, err := uc.billRepo.LastBilledThrough(ctx, lot.ID)
	if err != nil {
		return err
	}
	if !billedThrough.IsZero() && !billedThrough.Before(domain.DateOf(asOf)) {
		return domain.ErrDuplicateBilling
	}

	bill, err := uc.BuildBill(ctx, BuildBillInput{
		LotIDs: []string{lot.ID},
		AsOf:   asOf,
		Period: period,
	})
	if err != nil {
		return err
	}

	_, err = uc.ConfirmBill(ctx, bill.ID, asOf)
	return err
}

// GetBill retrieves a bill by ID.
func (uc *BillingUseCase) GetBill(ctx context.Context, id string) (*domain.Bill, error) {
	return uc.billRepo.GetByID(ctx, id)
}

func (uc *BillingUseCase) voucherAccounts(ctx context.Context, partyID string) (domain.VoucherAccounts, error) {
	var accounts domain.VoucherAccounts
	accounts.PartyAccountID = partyID

	for _, ref := range []struct {
		code string
		dest *string
	}{
		{AccountRentIncome, &accounts.RentIncomeID},
		{AccountCGSTPayable, &accounts.CGSTPayableID},
		{AccountSGSTPayable, &accounts.SGSTPayableID},
		{AccountIGSTPayable, &accounts.IGSTPayableID},
	} {
		a, err := uc.accountRepo.GetByCode(ctx, ref.code)
		if err != nil {
			return accounts, fmt.Errorf("account %s: %w", ref.code, err)
		}
		*ref.dest = a.ID
	}

	return accounts, nil
}
