package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType classifies vouchers by their books-of-entry.
type VoucherType string

const (
	VoucherReceipt VoucherType = "CR" // money received
	VoucherPayment VoucherType = "DR" // money paid out
	VoucherJournal VoucherType = "JV" // non-cash adjustment
	VoucherContra  VoucherType = "CV" // cash <-> bank movement
	VoucherBank    VoucherType = "BH" // bank-side entry
)

// VoucherLine is a single debit-or-credit leg of a voucher.
type VoucherLine struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Narration string
}

// Validate checks that exactly one side is set and positive.
func (l *VoucherLine) Validate() error {
	debitSet := l.Debit.IsPositive()
	creditSet := l.Credit.IsPositive()

	if debitSet == creditSet {
		return ErrInvalidAmount
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return ErrInvalidAmount
	}

	return nil
}

// Voucher is a balanced money movement. Vouchers are immutable once posted;
// corrections are new reversing vouchers, never in-place edits.
type Voucher struct {
	ID                string
	Type              VoucherType
	Date              time.Time
	Narration         string
	Lines             []VoucherLine
	IdempotencyKey    string // deterministic key for batch billing, "" otherwise
	ReversedVoucherID *string
	CreatedAt         time.Time
}

// TotalDebit sums the debit legs.
func (v *Voucher) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range v.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit legs.
func (v *Voucher) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range v.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// Validate asserts the double-entry invariant. An unbalanced voucher at
// posting time is a programming bug, not a user-facing validation.
func (v *Voucher) Validate() error {
	switch v.Type {
	case VoucherReceipt, VoucherPayment, VoucherJournal, VoucherContra, VoucherBank:
	default:
		return fmt.Errorf("%w %q", ErrInvalidVoucherType, v.Type)
	}

	if len(v.Lines) == 0 {
		return ErrEmptyVoucher
	}

	for i := range v.Lines {
		if err := v.Lines[i].Validate(); err != nil {
			return err
		}
	}

	if !v.TotalDebit().Equal(v.TotalCredit()) {
		return ErrUnbalancedVoucher
	}

	return nil
}

// AccountIDs returns the distinct accounts the voucher touches.
func (v *Voucher) AccountIDs() []string {
	seen := make(map[string]bool)

	var ids []string
	for _, l := range v.Lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}

	return ids
}

// Reversal builds the mirror-image voucher that cancels v. Cancellation is
// modeled as a new voucher so the audit history is preserved.
func (v *Voucher) Reversal(id string, date time.Time, narration string) *Voucher {
	lines := make([]VoucherLine, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = VoucherLine{
			AccountID: l.AccountID,
			Debit:     l.Credit,
			Credit:    l.Debit,
			Narration: l.Narration,
		}
	}

	original := v.ID

	return &Voucher{
		ID:                id,
		Type:              VoucherJournal,
		Date:              DateOf(date),
		Narration:         narration,
		Lines:             lines,
		ReversedVoucherID: &original,
	}
}
