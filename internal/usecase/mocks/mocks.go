package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByCodeFunc         func(ctx context.Context, code string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; ok {
		return domain.ErrAccountExists
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Code == code {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return paginate(accounts, limit, offset), nil
}

func (m *MockAccountRepository) ListParties(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var parties []*domain.Account
	for _, acc := range m.accounts {
		if acc.IsParty() {
			parties = append(parties, acc)
		}
	}
	sort.Slice(parties, func(i, j int) bool { return parties[i].ID < parties[j].ID })
	return paginate(parties, limit, offset), nil
}

// MockConfigRepository is a mock implementation of ConfigRepository.
type MockConfigRepository struct {
	mu       sync.RWMutex
	configs  map[string]*domain.RentConfig
	gstRates map[string]*domain.GSTRate

	GetRentConfigFunc func(ctx context.Context, commodityID string) (*domain.RentConfig, error)
	GetGSTRateFunc    func(ctx context.Context, id string) (*domain.GSTRate, error)
}

func NewMockConfigRepository() *MockConfigRepository {
	return &MockConfigRepository{
		configs:  make(map[string]*domain.RentConfig),
		gstRates: make(map[string]*domain.GSTRate),
	}
}

func (m *MockConfigRepository) AddRentConfig(cfg *domain.RentConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[cfg.CommodityID] = cfg
}

func (m *MockConfigRepository) AddGSTRate(rate *domain.GSTRate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gstRates[rate.ID] = rate
}

func (m *MockConfigRepository) GetRentConfig(ctx context.Context, commodityID string) (*domain.RentConfig, error) {
	if m.GetRentConfigFunc != nil {
		return m.GetRentConfigFunc(ctx, commodityID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if cfg, ok := m.configs[commodityID]; ok {
		return cfg, nil
	}
	return nil, domain.ErrConfigNotFound
}

func (m *MockConfigRepository) GetGSTRate(ctx context.Context, id string) (*domain.GSTRate, error) {
	if m.GetGSTRateFunc != nil {
		return m.GetGSTRateFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rate, ok := m.gstRates[id]; ok {
		return rate, nil
	}
	return nil, domain.ErrGSTRateNotFound
}

// MockLotRepository is a mock implementation of LotRepository.
type MockLotRepository struct {
	mu   sync.RWMutex
	lots map[string]*domain.Lot

	GetByIDFunc  func(ctx context.Context, id string) (*domain.Lot, error)
	ListOpenFunc func(ctx context.Context, limit, offset int) ([]*domain.Lot, error)
}

func NewMockLotRepository() *MockLotRepository {
	return &MockLotRepository{lots: make(map[string]*domain.Lot)}
}

func (m *MockLotRepository) Add(lot *domain.Lot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lots[lot.ID] = lot
}

func (m *MockLotRepository) GetByID(ctx context.Context, id string) (*domain.Lot, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if lot, ok := m.lots[id]; ok {
		return lot, nil
	}
	return nil, domain.ErrLotNotFound
}

func (m *MockLotRepository) ListOpen(ctx context.Context, limit, offset int) ([]*domain.Lot, error) {
	if m.ListOpenFunc != nil {
		return m.ListOpenFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var open []*domain.Lot
	for _, lot := range m.lots {
		if !lot.OutstandingQty().IsZero() {
			open = append(open, lot)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].ID < open[j].ID })
	return paginate(open, limit, offset), nil
}

// MockVoucherRepository is a mock implementation of VoucherRepository.
type MockVoucherRepository struct {
	mu       sync.RWMutex
	vouchers map[string]*domain.Voucher

	CreateFunc func(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error
}

func NewMockVoucherRepository() *MockVoucherRepository {
	return &MockVoucherRepository{vouchers: make(map[string]*domain.Voucher)}
}

func (m *MockVoucherRepository) Create(ctx context.Context, tx usecase.Transaction, voucher *domain.Voucher) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, voucher)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vouchers[voucher.ID] = voucher
	return nil
}

func (m *MockVoucherRepository) GetByID(ctx context.Context, id string) (*domain.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vouchers[id]; ok {
		return v, nil
	}
	return nil, domain.ErrVoucherNotFound
}

func (m *MockVoucherRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.vouchers {
		if v.IdempotencyKey != "" && v.IdempotencyKey == key {
			return v, nil
		}
	}
	return nil, domain.ErrVoucherNotFound
}

func (m *MockVoucherRepository) GetReversalOf(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.vouchers {
		if v.ReversedVoucherID != nil && *v.ReversedVoucherID == voucherID {
			return v, nil
		}
	}
	return nil, domain.ErrVoucherNotFound
}

// Count returns the number of stored vouchers.
func (m *MockVoucherRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vouchers)
}

// MockEntryRepository is a mock implementation of EntryRepository.
// Natures maps account IDs to their nature for signed sums; accounts not
// present default to debit-normal.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry
	Natures map[string]domain.AccountNature

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{Natures: make(map[string]domain.AccountNature)}
}

func (m *MockEntryRepository) natureOf(accountID string) domain.AccountNature {
	if n, ok := m.Natures[accountID]; ok {
		return n
	}
	return domain.NatureDebit
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) ListByAccountAfter(ctx context.Context, tx usecase.Transaction, accountID string, date time.Time) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.AccountID == accountID && e.Date.After(date) {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (m *MockEntryRepository) UpdateRunningBalance(ctx context.Context, tx usecase.Transaction, entryID string, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == entryID {
			e.RunningBalance = balance
			return nil
		}
	}
	return domain.ErrVoucherNotFound
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return paginate(out, limit, offset), nil
}

func (m *MockEntryRepository) ListByVoucher(ctx context.Context, voucherID string) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.VoucherID == voucherID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (m *MockEntryRepository) ListByDate(ctx context.Context, date time.Time) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.Date.Equal(domain.DateOf(date)) {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (m *MockEntryRepository) SumSigned(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.AccountID != accountID {
			continue
		}
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !e.Date.Before(to) {
			continue
		}
		sum = sum.Add(e.SignedAmount(m.natureOf(accountID)))
	}
	return sum, nil
}

func sortEntries(entries []*domain.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

// MockBillRepository is a mock implementation of BillRepository.
type MockBillRepository struct {
	mu    sync.RWMutex
	bills map[string]*domain.Bill
}

func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{bills: make(map[string]*domain.Bill)}
}

func (m *MockBillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills[bill.ID] = bill
	return nil
}

func (m *MockBillRepository) Update(ctx context.Context, bill *domain.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bills[bill.ID]; !ok {
		return domain.ErrBillNotFound
	}
	m.bills[bill.ID] = bill
	return nil
}

func (m *MockBillRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.bills[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBillNotFound
}

func (m *MockBillRepository) ListOpenByParty(ctx context.Context, partyID string) ([]*domain.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var open []*domain.Bill
	for _, b := range m.bills {
		if b.PartyID == partyID && b.Status == domain.BillPending {
			open = append(open, b)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].CreatedAt.Before(open[j].CreatedAt) })
	return open, nil
}

func (m *MockBillRepository) BilledPackets(ctx context.Context, lotID string) (domain.PacketQty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total domain.PacketQty
	for _, b := range m.bills {
		if b.Status == domain.BillCancelled {
			continue
		}
		for _, id := range b.LotIDs {
			if id == lotID {
				total = total.Add(b.Packets)
			}
		}
	}
	return total, nil
}

func (m *MockBillRepository) LastBilledThrough(ctx context.Context, lotID string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest time.Time
	for _, b := range m.bills {
		if b.Status != domain.BillPending && b.Status != domain.BillPaid {
			continue
		}
		for _, id := range b.LotIDs {
			if id == lotID && b.BilledThrough.After(latest) {
				latest = b.BilledThrough
			}
		}
	}
	return latest, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return domain.ErrVoucherNotFound
}

// Events returns all stored events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + itoa(m.counter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
