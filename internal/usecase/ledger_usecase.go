package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
)

// LedgerUseCase posts balanced vouchers and maintains per-account running
// balances. Posting is all-or-nothing: either every entry is appended and
// every touched balance updated, or nothing is persisted.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	voucherRepo VoucherRepository
	entryRepo   EntryRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier

	// booksClosedBefore rejects vouchers dated before the cutoff.
	// Zero means the books are open all the way back.
	booksClosedBefore time.Time
}

// LedgerConfig holds dependencies for the LedgerUseCase.
type LedgerConfig struct {
	TxManager         TransactionManager
	AccountRepo       AccountRepository
	VoucherRepo       VoucherRepository
	EntryRepo         EntryRepository
	OutboxRepo        OutboxRepository // optional
	IDGen             IDGenerator
	Retrier           Retrier // optional
	BooksClosedBefore time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(cfg LedgerConfig) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:         cfg.TxManager,
		accountRepo:       cfg.AccountRepo,
		voucherRepo:       cfg.VoucherRepo,
		entryRepo:         cfg.EntryRepo,
		outboxRepo:        cfg.OutboxRepo,
		idGen:             cfg.IDGen,
		retrier:           cfg.Retrier,
		booksClosedBefore: cfg.BooksClosedBefore,
	}
}

// PostVoucher validates and posts a voucher. An unbalanced voucher is a
// programming invariant violation and aborts before anything is written.
// When the voucher carries an idempotency key that has already been posted,
// ErrDuplicateBilling is returned together with the existing voucher.
func (uc *LedgerUseCase) PostVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	if v.ID == "" {
		v.ID = uc.idGen.Generate()
	}
	v.Date = domain.DateOf(v.Date)

	if err := v.Validate(); err != nil {
		return nil, err
	}

	if !uc.booksClosedBefore.IsZero() && v.Date.Before(domain.DateOf(uc.booksClosedBefore)) {
		return nil, domain.ErrBooksClosed
	}

	if v.IdempotencyKey != "" {
		existing, err := uc.voucherRepo.GetByIdempotencyKey(ctx, v.IdempotencyKey)
		if err != nil && !errors.Is(err, domain.ErrVoucherNotFound) {
			return nil, err
		}
		if existing != nil {
			return existing, domain.ErrDuplicateBilling
		}
	}

	post := func() error { return uc.post(ctx, v) }

	if uc.retrier != nil {
		if err := uc.retrier.Retry(ctx, post); err != nil {
			return nil, err
		}
	} else if err := post(); err != nil {
		return nil, err
	}

	return v, nil
}

func (uc *LedgerUseCase) post(ctx context.Context, v *domain.Voucher) error {
	// Lock accounts in sorted order so concurrent posts touching the same
	// accounts serialize without deadlocking.
	accountIDs := v.AccountIDs()
	sort.Strings(accountIDs)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	if len(accounts) != len(accountIDs) {
		return domain.ErrAccountNotFound
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a
	}

	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}

	if err := uc.voucherRepo.Create(ctx, tx, v); err != nil {
		return err
	}

	for _, line := range v.Lines {
		account := accountMap[line.AccountID]

		if err := uc.appendEntry(ctx, tx, account, v, line, now); err != nil {
			return err
		}
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   v.ID,
			AggregateType: domain.AggregateTypeVoucher,
			EventType:     domain.EventTypeVoucherPosted,
			Payload: map[string]any{
				"voucher_id": v.ID,
				"type":       string(v.Type),
				"date":       v.Date.Format(time.DateOnly),
				"amount":     v.TotalDebit().String(),
			},
			CreatedAt: now,
		}
		if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// appendEntry appends one ledger entry and maintains the account's cached
// balance and running balances. An entry dated earlier than existing
// entries forces recomputation of every later entry on the account;
// correctness takes priority over the extra writes.
func (uc *LedgerUseCase) appendEntry(ctx context.Context, tx Transaction, account *domain.Account, v *domain.Voucher, line domain.VoucherLine, now time.Time) error {
	signed := account.SignedAmount(line.Debit, line.Credit)
	newBalance := account.Balance.Add(signed)

	later, err := uc.entryRepo.ListByAccountAfter(ctx, tx, account.ID, v.Date)
	if err != nil {
		return err
	}

	laterSum := decimal.Zero
	for _, e := range later {
		laterSum = laterSum.Add(e.SignedAmount(account.Nature))
	}

	// The running balance at the insertion point is the final cached
	// balance minus everything dated after the voucher.
	running := newBalance.Sub(laterSum)

	entry := &domain.LedgerEntry{
		ID:             uc.idGen.Generate(),
		AccountID:      account.ID,
		VoucherID:      v.ID,
		Date:           v.Date,
		Debit:          line.Debit,
		Credit:         line.Credit,
		RunningBalance: running,
		CreatedAt:      now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	for _, e := range later {
		running = running.Add(e.SignedAmount(account.Nature))
		if err := uc.entryRepo.UpdateRunningBalance(ctx, tx, e.ID, running); err != nil {
			return err
		}
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return err
	}

	account.Balance = newBalance
	account.Version++

	return nil
}

// ReverseVoucher posts the mirror-image voucher that cancels the original.
// A voucher may be reversed at most once.
func (uc *LedgerUseCase) ReverseVoucher(ctx context.Context, voucherID string, date time.Time, narration string) (*domain.Voucher, error) {
	original, err := uc.voucherRepo.GetByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	existing, err := uc.voucherRepo.GetReversalOf(ctx, voucherID)
	if err != nil && !errors.Is(err, domain.ErrVoucherNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyReversed
	}

	if narration == "" {
		narration = "reversal of " + voucherID
	}

	reversal := original.Reversal(uc.idGen.Generate(), date, narration)

	return uc.PostVoucher(ctx, reversal)
}

// GetVoucher retrieves a voucher by ID.
func (uc *LedgerUseCase) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	return uc.voucherRepo.GetByID(ctx, id)
}

// GetVoucherByIdempotencyKey retrieves the voucher posted under a billing
// idempotency key, or ErrVoucherNotFound.
func (uc *LedgerUseCase) GetVoucherByIdempotencyKey(ctx context.Context, key string) (*domain.Voucher, error) {
	return uc.voucherRepo.GetByIdempotencyKey(ctx, key)
}

// GetAccountBalance returns the account balance as of end of day asOf.
// A zero asOf returns the current cached balance.
func (uc *LedgerUseCase) GetAccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	if asOf.IsZero() {
		return account.Balance, nil
	}

	sum, err := uc.entryRepo.SumSigned(ctx, accountID, time.Time{}, domain.DateOf(asOf).AddDate(0, 0, 1))
	if err != nil {
		return decimal.Zero, err
	}

	return account.OpeningBalance.Add(sum), nil
}

// TrialBalance summarizes the chart of accounts into debit and credit
// columns. A consistent ledger has equal totals.
type TrialBalance struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Consistent  bool
}

// CheckTrialBalance verifies that the ledger is balanced.
func (uc *LedgerUseCase) CheckTrialBalance(ctx context.Context) (*TrialBalance, error) {
	const pageSize = 1000

	var accounts []*domain.Account
	for offset := 0; ; offset += pageSize {
		page, err := uc.accountRepo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, page...)
		if len(page) < pageSize {
			break
		}
	}

	tb := &TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}

	for _, a := range accounts {
		switch {
		case a.Balance.IsZero():
		case (a.Nature == domain.NatureDebit) == a.Balance.IsPositive():
			tb.TotalDebit = tb.TotalDebit.Add(a.Balance.Abs())
		default:
			tb.TotalCredit = tb.TotalCredit.Add(a.Balance.Abs())
		}
	}

	tb.Consistent = tb.TotalDebit.Equal(tb.TotalCredit)

	return tb, nil
}
