package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one account-level posting of a voucher. Entries are
// append-only; RunningBalance is a cached derived value, recomputed for all
// later entries on the account whenever an earlier-dated entry is inserted.
type LedgerEntry struct {
	ID             string
	AccountID      string
	VoucherID      string
	Date           time.Time
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	RunningBalance decimal.Decimal
	CreatedAt      time.Time
}

// SignedAmount returns the entry amount in the account's sign convention.
func (e *LedgerEntry) SignedAmount(nature AccountNature) decimal.Decimal {
	if nature == NatureCredit {
		return e.Credit.Sub(e.Debit)
	}
	return e.Debit.Sub(e.Credit)
}
