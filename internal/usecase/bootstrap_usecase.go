package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
)

// BootstrapUseCase installs the base chart of accounts. It is an explicit,
// idempotent deployment step: running it again creates nothing new.
type BootstrapUseCase struct {
	accountUC *AccountUseCase
}

// NewBootstrapUseCase creates a new BootstrapUseCase.
func NewBootstrapUseCase(accountUC *AccountUseCase) *BootstrapUseCase {
	return &BootstrapUseCase{accountUC: accountUC}
}

type seedAccount struct {
	code   string
	name   string
	nature domain.AccountNature
}

var baseChart = []seedAccount{
	{AccountCash, "Cash In Hand", domain.NatureDebit},
	{AccountBank, "Bank Accounts", domain.NatureDebit},
	{AccountRentIncome, "Storage Rent Income", domain.NatureCredit},
	{AccountCGSTPayable, "CGST Payable", domain.NatureCredit},
	{AccountSGSTPayable, "SGST Payable", domain.NatureCredit},
	{AccountIGSTPayable, "IGST Payable", domain.NatureCredit},
	{AccountDebtors, "Sundry Debtors", domain.NatureDebit},
	{AccountCreditors, "Sundry Creditors", domain.NatureCredit},
}

// EnsureChartOfAccounts creates any missing base accounts and returns how
// many were created.
func (uc *BootstrapUseCase) EnsureChartOfAccounts(ctx context.Context) (int, error) {
	created := 0

	for _, seed := range baseChart {
		_, err := uc.accountUC.accountRepo.GetByCode(ctx, seed.code)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return created, err
		}

		_, err = uc.accountUC.CreateAccount(ctx, CreateAccountInput{
			Code:           seed.code,
			Name:           seed.name,
			Nature:         seed.nature,
			OpeningBalance: decimal.Zero,
		})
		if err != nil {
			return created, err
		}

		created++
	}

	return created, nil
}
