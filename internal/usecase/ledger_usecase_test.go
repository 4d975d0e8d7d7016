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

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type ledgerFixture struct {
	uc          *usecase.LedgerUseCase
	accountRepo *mocks.MockAccountRepository
	voucherRepo *mocks.MockVoucherRepository
	entryRepo   *mocks.MockEntryRepository
}

func newLedgerFixture(t *testing.T, accounts ...*domain.Account) *ledgerFixture {
	t.Helper()

	accountRepo := mocks.NewMockAccountRepository()
	voucherRepo := mocks.NewMockVoucherRepository()
	entryRepo := mocks.NewMockEntryRepository()

	for _, a := range accounts {
		if err := accountRepo.Create(context.Background(), a); err != nil {
			t.Fatalf("seeding account %s: %v", a.ID, err)
		}
		entryRepo.Natures[a.ID] = a.Nature
	}

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		TxManager:   mocks.NewMockTransactionManager(),
		AccountRepo: accountRepo,
		VoucherRepo: voucherRepo,
		EntryRepo:   entryRepo,
		IDGen:       mocks.NewMockIDGenerator(),
	})

	return &ledgerFixture{
		uc:          uc,
		accountRepo: accountRepo,
		voucherRepo: voucherRepo,
		entryRepo:   entryRepo,
	}
}

func cashAccount() *domain.Account {
	return &domain.Account{ID: "acc-cash", Code: "CASH", Name: "Cash In Hand", Nature: domain.NatureDebit}
}

func incomeAccount() *domain.Account {
	return &domain.Account{ID: "acc-income", Code: "RENT-INCOME", Name: "Storage Rent Income", Nature: domain.NatureCredit}
}

func simpleVoucher(amount decimal.Decimal, date time.Time) *domain.Voucher {
	return &domain.Voucher{
		Type:      domain.VoucherJournal,
		Date:      date,
		Narration: "test posting",
		Lines: []domain.VoucherLine{
			{AccountID: "acc-cash", Debit: amount},
			{AccountID: "acc-income", Credit: amount},
		},
	}
}

func TestLedgerUseCase_PostVoucher(t *testing.T) {
	tests := []struct {
		name      string
		voucher   *domain.Voucher
		errorType error
	}{
		{
			name:    "balanced voucher posts",
			voucher: simpleVoucher(decimal.NewFromInt(100), day(2025, time.November, 10)),
		},
		{
			name: "unbalanced voucher rejected",
			voucher: &domain.Voucher{
				Type: domain.VoucherJournal,
				Date: day(2025, time.November, 10),
				Lines: []domain.VoucherLine{
					{AccountID: "acc-cash", Debit: decimal.NewFromInt(100)},
					{AccountID: "acc-income", Credit: decimal.NewFromInt(90)},
				},
			},
			errorType: domain.ErrUnbalancedVoucher,
		},
		{
			name: "voucher without lines rejected",
			voucher: &domain.Voucher{
				Type: domain.VoucherJournal,
				Date: day(2025, time.November, 10),
			},
			errorType: domain.ErrEmptyVoucher,
		},
		{
			name: "line with both sides set rejected",
			voucher: &domain.Voucher{
				Type: domain.VoucherJournal,
				Date: day(2025, time.November, 10),
				Lines: []domain.VoucherLine{
					{AccountID: "acc-cash", Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)},
					{AccountID: "acc-income", Credit: decimal.Zero},
				},
			},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "unknown account rejected",
			voucher: &domain.Voucher{
				Type: domain.VoucherJournal,
				Date: day(2025, time.November, 10),
				Lines: []domain.VoucherLine{
					{AccountID: "acc-ghost", Debit: decimal.NewFromInt(100)},
					{AccountID: "acc-income", Credit: decimal.NewFromInt(100)},
				},
			},
			errorType: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t, cashAccount(), incomeAccount())

			posted, err := f.uc.PostVoucher(context.Background(), tt.voucher)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				if f.voucherRepo.Count() != 0 {
					t.Errorf("failed post persisted %d vouchers", f.voucherRepo.Count())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if posted.ID == "" {
				t.Error("posted voucher has no ID")
			}
			if f.voucherRepo.Count() != 1 {
				t.Errorf("expected 1 voucher, got %d", f.voucherRepo.Count())
			}
		})
	}
}

func TestLedgerUseCase_PostVoucher_UpdatesBalances(t *testing.T) {
	f := newLedgerFixture(t, cashAccount(), incomeAccount())

	_, err := f.uc.PostVoucher(context.Background(), simpleVoucher(decimal.NewFromInt(250), day(2025, time.November, 10)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cash, _ := f.accountRepo.GetByID(context.Background(), "acc-cash")
	if !cash.Balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("cash balance = %s, want 250", cash.Balance)
	}

	income, _ := f.accountRepo.GetByID(context.Background(), "acc-income")
	if !income.Balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("income balance = %s, want 250", income.Balance)
	}

	entries, err := f.entryRepo.ListByAccount(context.Background(), "acc-cash", 10, 0)
	if err != nil {
		t.Fatalf("listing entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 cash entry, got %d", len(entries))
	}
	if !entries[0].RunningBalance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("running balance = %s, want 250", entries[0].RunningBalance)
	}
}

func TestLedgerUseCase_PostVoucher_BooksClosed(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	_ = accountRepo.Create(context.Background(), cashAccount())
	_ = accountRepo.Create(context.Background(), incomeAccount())

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		TxManager:         mocks.NewMockTransactionManager(),
		AccountRepo:       accountRepo,
		VoucherRepo:       mocks.NewMockVoucherRepository(),
		EntryRepo:         mocks.NewMockEntryRepository(),
		IDGen:             mocks.NewMockIDGenerator(),
		BooksClosedBefore: day(2025, time.April, 1),
	})

	_, err := uc.PostVoucher(context.Background(), simpleVoucher(decimal.NewFromInt(10), day(2025, time.March, 31)))
	if !errors.Is(err, domain.ErrBooksClosed) {
		t.Fatalf("expected ErrBooksClosed, got %v", err)
	}

	if _, err := uc.PostVoucher(context.Background(), simpleVoucher(decimal.NewFromInt(10), day(2025, time.April, 1))); err != nil {
		t.Fatalf("voucher on the cutoff day should post: %v", err)
	}
}

func TestLedgerUseCase_PostVoucher_IdempotencyKey(t *testing.T) {
	f := newLedgerFixture(t, cashAccount(), incomeAccount())

	first := simpleVoucher(decimal.NewFromInt(100), day(2025, time.November, 10))
	first.IdempotencyKey = "bill:lot-1:2025-11"

	posted, err := f.uc.PostVoucher(context.Background(), first)
	if err != nil {
		t.Fatalf("first post failed: %v", err)
	}

	second := simpleVoucher(decimal.NewFromInt(100), day(2025, time.November, 10))
	second.IdempotencyKey = "bill:lot-1:2025-11"

	existing, err := f.uc.PostVoucher(context.Background(), second)
	if !errors.Is(err, domain.ErrDuplicateBilling) {
		t.Fatalf("expected ErrDuplicateBilling, got %v", err)
	}
	if existing == nil || existing.ID != posted.ID {
		t.Errorf("duplicate post should surface the original voucher")
	}
	if f.voucherRepo.Count() != 1 {
		t.Errorf("duplicate post created a voucher, count = %d", f.voucherRepo.Count())
	}

	cash, _ := f.accountRepo.GetByID(context.Background(), "acc-cash")
	if !cash.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("cash balance = %s, want 100 (no double posting)", cash.Balance)
	}
}

func TestLedgerUseCase_PostVoucher_BackdatedRecomputesRunningBalances(t *testing.T) {
	f := newLedgerFixture(t, cashAccount(), incomeAccount())
	ctx := context.Background()

	if _, err := f.uc.PostVoucher(ctx, simpleVoucher(decimal.NewFromInt(100), day(2025, time.November, 10))); err != nil {
		t.Fatalf("first post failed: %v", err)
	}
	if _, err := f.uc.PostVoucher(ctx, simpleVoucher(decimal.NewFromInt(40), day(2025, time.November, 5))); err != nil {
		t.Fatalf("backdated post failed: %v", err)
	}

	entries, err := f.entryRepo.ListByAccount(ctx, "acc-cash", 10, 0)
	if err != nil {
		t.Fatalf("listing entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 cash entries, got %d", len(entries))
	}

	// Entries come back date-ordered: the backdated one first.
	if !entries[0].Date.Equal(day(2025, time.November, 5)) {
		t.Fatalf("entries not date-ordered: first is %s", entries[0].Date)
	}
	if !entries[0].RunningBalance.Equal(decimal.NewFromInt(40)) {
		t.Errorf("backdated running balance = %s, want 40", entries[0].RunningBalance)
	}
	if !entries[1].RunningBalance.Equal(decimal.NewFromInt(140)) {
		t.Errorf("later running balance = %s, want 140", entries[1].RunningBalance)
	}

	cash, _ := f.accountRepo.GetByID(ctx, "acc-cash")
	if !cash.Balance.Equal(decimal.NewFromInt(140)) {
		t.Errorf("cached balance = %s, want 140", cash.Balance)
	}
}

func TestLedgerUseCase_ReverseVoucher(t *testing.T) {
	f := newLedgerFixture(t, cashAccount(), incomeAccount())
	ctx := context.Background()

	posted, err := f.uc.PostVoucher(ctx, simpleVoucher(decimal.NewFromInt(75), day(2025, time.November, 10)))
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}

	reversal, err := f.uc.ReverseVoucher(ctx, posted.ID, day(2025, time.November, 12), "")
	if err != nil {
		t.Fatalf("reversal failed: %v", err)
	}
	if reversal.ReversedVoucherID == nil || *reversal.ReversedVoucherID != posted.ID {
		t.Error("reversal does not reference the original voucher")
	}

	cash, _ := f.accountRepo.GetByID(ctx, "acc-cash")
	if !cash.Balance.IsZero() {
		t.Errorf("cash balance after reversal = %s, want 0", cash.Balance)
	}
	income, _ := f.accountRepo.GetByID(ctx, "acc-income")
	if !income.Balance.IsZero() {
		t.Errorf("income balance after reversal = %s, want 0", income.Balance)
	}

	if _, err := f.uc.ReverseVoucher(ctx, posted.ID, day(2025, time.November, 13), ""); !errors.Is(err, domain.ErrAlreadyReversed) {
		t.Fatalf("second reversal: expected ErrAlreadyReversed, got %v", err)
	}
}

func TestLedgerUseCase_GetAccountBalance_AsOf(t *testing.T) {
	f := newLedgerFixture(t, cashAccount(), incomeAccount())
	ctx := context.Background()

	if _, err := f.uc.PostVoucher(ctx, simpleVoucher(decimal.NewFromInt(40), day(2025, time.November, 5))); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if _, err := f.uc.PostVoucher(ctx, simpleVoucher(decimal.NewFromInt(100), day(2025, time.November, 10))); err != nil {
		t.Fatalf("post failed: %v", err)
	}

	tests := []struct {
		name string
		asOf time.Time
		want int64
	}{
		{"before any entry", day(2025, time.November, 1), 0},
		{"between entries", day(2025, time.November, 7), 40},
		{"on second entry day", day(2025, time.November, 10), 140},
		{"current cached balance", time.Time{}, 140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.uc.GetAccountBalance(ctx, "acc-cash", tt.asOf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("balance = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestLedgerUseCase_CheckTrialBalance(t *testing.T) {
	f := newLedgerFixture(t, cashAccount(), incomeAccount())
	ctx := context.Background()

	if _, err := f.uc.PostVoucher(ctx, simpleVoucher(decimal.NewFromInt(500), day(2025, time.November, 10))); err != nil {
		t.Fatalf("post failed: %v", err)
	}

	tb, err := f.uc.CheckTrialBalance(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tb.Consistent {
		t.Error("trial balance inconsistent after balanced posting")
	}
	if !tb.TotalDebit.Equal(decimal.NewFromInt(500)) {
		t.Errorf("total debit = %s, want 500", tb.TotalDebit)
	}
	if !tb.TotalCredit.Equal(decimal.NewFromInt(500)) {
		t.Errorf("total credit = %s, want 500", tb.TotalCredit)
	}
}
