package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
)

// DaybookUseCase derives daily opening/closing balances and party
// positions from posted ledger entries. These are read-side views,
// recomputed from entry history, never independently mutated.
type DaybookUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
}

// NewDaybookUseCase creates a new DaybookUseCase.
func NewDaybookUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *DaybookUseCase {
	return &DaybookUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// DaybookLine is one account's movement for the day.
type DaybookLine struct {
	Account *domain.Account
	Opening decimal.Decimal
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Closing decimal.Decimal
	Entries []*domain.LedgerEntry
}

// Daybook is the per-day cash and bank summary.
type Daybook struct {
	Date  time.Time
	Lines []DaybookLine
}

// GetDaybook derives the daybook for a date over the cash and bank
// accounts: closing = opening + signed entries of the day, and opening is
// the previous day's closing by construction. A date with no entries
// reports closing == opening for every account.
func (uc *DaybookUseCase) GetDaybook(ctx context.Context, date time.Time) (*Daybook, error) {
	date = domain.DateOf(date)

	book := &Daybook{Date: date}

	for _, code := range []string{AccountCash, AccountBank} {
		account, err := uc.accountRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}

		line, err := uc.daybookLine(ctx, account, date)
		if err != nil {
			return nil, err
		}

		book.Lines = append(book.Lines, *line)
	}

	return book, nil
}

func (uc *DaybookUseCase) daybookLine(ctx context.Context, account *domain.Account, date time.Time) (*DaybookLine, error) {
	before, err := uc.entryRepo.SumSigned(ctx, account.ID, time.Time{}, date)
	if err != nil {
		return nil, err
	}

	opening := account.OpeningBalance.Add(before)

	line := &DaybookLine{
		Account: account,
		Opening: opening,
		Debit:   decimal.Zero,
		Credit:  decimal.Zero,
		Closing: opening,
	}

	entries, err := uc.entryRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.AccountID != account.ID {
			continue
		}

		line.Entries = append(line.Entries, e)
		line.Debit = line.Debit.Add(e.Debit)
		line.Credit = line.Credit.Add(e.Credit)
		line.Closing = line.Closing.Add(e.SignedAmount(account.Nature))
	}

	return line, nil
}

// PartyOutstanding is one party's current signed position.
type PartyOutstanding struct {
	Account *domain.Account
	Amount  decimal.Decimal
	Side    domain.OutstandingSide
}

// GetPartyOutstanding returns the current outstanding of a single party.
func (uc *DaybookUseCase) GetPartyOutstanding(ctx context.Context, partyID string) (*PartyOutstanding, error) {
	account, err := uc.accountRepo.GetByID(ctx, partyID)
	if err != nil {
		return nil, err
	}

	if !account.IsParty() {
		return nil, domain.ErrNotPartyAccount
	}

	amount, side := account.Outstanding()

	return &PartyOutstanding{Account: account, Amount: amount, Side: side}, nil
}

// ListPartyOutstandings buckets all parties into debtors and creditors.
func (uc *DaybookUseCase) ListPartyOutstandings(ctx context.Context, limit, offset int) (debtors, creditors []*PartyOutstanding, err error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	parties, err := uc.accountRepo.ListParties(ctx, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	for _, p := range parties {
		amount, side := p.Outstanding()

		out := &PartyOutstanding{Account: p, Amount: amount, Side: side}
		switch side {
		case domain.SideDebtor:
			debtors = append(debtors, out)
		case domain.SideCreditor:
			creditors = append(creditors, out)
		}
	}

	return debtors, creditors, nil
}
