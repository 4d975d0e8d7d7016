package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListParties(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// ConfigRepository defines data access for commodity rent configurations
// and GST rate records.
type ConfigRepository interface {
	GetRentConfig(ctx context.Context, commodityID string) (*domain.RentConfig, error)
	GetGSTRate(ctx context.Context, id string) (*domain.GSTRate, error)
}

// LotRepository defines read access to lots and their dispatches. Lots are
// owned by the inventory side; billing only reads them.
type LotRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Lot, error)
	ListOpen(ctx context.Context, limit, offset int) ([]*domain.Lot, error)
}

// VoucherRepository defines data access for vouchers.
type VoucherRepository interface {
	Create(ctx context.Context, tx Transaction, voucher *domain.Voucher) error
	GetByID(ctx context.Context, id string) (*domain.Voucher, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Voucher, error)
	GetReversalOf(ctx context.Context, voucherID string) (*domain.Voucher, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	// ListByAccountAfter returns the account's entries strictly after date,
	// ordered by (date, created_at). Used to recompute running balances
	// when a backdated entry is inserted.
	ListByAccountAfter(ctx context.Context, tx Transaction, accountID string, date time.Time) ([]*domain.LedgerEntry, error)
	UpdateRunningBalance(ctx context.Context, tx Transaction, entryID string, balance decimal.Decimal) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	ListByVoucher(ctx context.Context, voucherID string) ([]*domain.LedgerEntry, error)
	ListByDate(ctx context.Context, date time.Time) ([]*domain.LedgerEntry, error)
	// SumSigned totals the account's entries in [from, to) in the account's
	// sign convention. A zero from means from the beginning of time.
	SumSigned(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, error)
}

// BillRepository defines data access for bills.
type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	Update(ctx context.Context, bill *domain.Bill) error
	GetByID(ctx context.Context, id string) (*domain.Bill, error)
	// ListOpenByParty returns PENDING bills of a party, oldest first.
	ListOpenByParty(ctx context.Context, partyID string) ([]*domain.Bill, error)
	// BilledPackets returns the cumulative packet quantity already billed
	// against a lot, excluding cancelled bills.
	BilledPackets(ctx context.Context, lotID string) (domain.PacketQty, error)
	// LastBilledThrough returns the latest date rent has accrued to on a
	// confirmed bill covering the lot. Zero time when the lot has never
	// been billed.
	LastBilledThrough(ctx context.Context, lotID string) (time.Time, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
