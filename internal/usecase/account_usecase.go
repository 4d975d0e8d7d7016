package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
)

// AccountUseCase handles chart-of-accounts business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, entryRepo EntryRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Code           string
	Name           string
	ParentID       *string
	Nature         domain.AccountNature
	PartyType      domain.PartyType
	StateCode      string
	OpeningBalance decimal.Decimal
}

// CreateAccount creates a new account. The cached balance starts at the
// opening balance; everything after that comes from posted entries.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if input.StateCode != "" {
		if err := domain.ValidateStateCode(input.StateCode); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Code:           input.Code,
		Name:           input.Name,
		ParentID:       input.ParentID,
		Nature:         input.Nature,
		PartyType:      input.PartyType,
		StateCode:      input.StateCode,
		OpeningBalance: input.OpeningBalance,
		Balance:        input.OpeningBalance,
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.accountRepo.List(ctx, limit, offset)
}

// GetEntriesInput represents input for listing an account's entries.
type GetEntriesInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntries lists an account's ledger entries.
func (uc *AccountUseCase) GetEntries(ctx context.Context, input GetEntriesInput) ([]*domain.LedgerEntry, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.entryRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}
