package usecase_test

import (
	"context"
	"testing"

	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
	"github.com/avnish/coldledger/internal/usecase/mocks"
)

func TestBootstrapUseCase_EnsureChartOfAccounts(t *testing.T) {
	accountRepo := mocks.NewMockAccountRepository()
	accountUC := usecase.NewAccountUseCase(accountRepo, mocks.NewMockEntryRepository(), mocks.NewMockIDGenerator())
	uc := usecase.NewBootstrapUseCase(accountUC)
	ctx := context.Background()

	created, err := uc.EnsureChartOfAccounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 8 {
		t.Errorf("created = %d, want 8", created)
	}

	for _, code := range []string{
		usecase.AccountCash,
		usecase.AccountBank,
		usecase.AccountRentIncome,
		usecase.AccountCGSTPayable,
		usecase.AccountSGSTPayable,
		usecase.AccountIGSTPayable,
		usecase.AccountDebtors,
		usecase.AccountCreditors,
	} {
		account, err := accountRepo.GetByCode(ctx, code)
		if err != nil {
			t.Errorf("account %s missing: %v", code, err)
			continue
		}
		if !account.Balance.IsZero() {
			t.Errorf("account %s starts with balance %s", code, account.Balance)
		}
	}

	income, _ := accountRepo.GetByCode(ctx, usecase.AccountRentIncome)
	if income.Nature != domain.NatureCredit {
		t.Errorf("rent income nature = %s, want CR", income.Nature)
	}

	// The bootstrap step is idempotent.
	created, err = uc.EnsureChartOfAccounts(ctx)
	if err != nil {
		t.Fatalf("unexpected error on second run: %v", err)
	}
	if created != 0 {
		t.Errorf("second run created %d accounts, want 0", created)
	}
}
