package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the bill lifecycle state.
type BillStatus string

const (
	BillDraft     BillStatus = "DRAFT"
	BillPending   BillStatus = "PENDING"
	BillPaid      BillStatus = "PAID"
	BillCancelled BillStatus = "CANCELLED"
)

// ChargeKind classifies bill charge lines.
type ChargeKind string

const (
	ChargeRent      ChargeKind = "RENT"
	ChargeLoading   ChargeKind = "LOADING"
	ChargeUnloading ChargeKind = "UNLOADING"
	ChargeDala      ChargeKind = "DALA"
	ChargeOther     ChargeKind = "OTHER"
)

// ChargeLine is one billable line: qty x rate, rounded per line.
type ChargeLine struct {
	Kind        ChargeKind
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// NewChargeLine builds a charge line with its rounded amount.
func NewChargeLine(kind ChargeKind, description string, qty, rate decimal.Decimal) ChargeLine {
	return ChargeLine{
		Kind:        kind,
		Description: description,
		Quantity:    qty,
		Rate:        rate,
		Amount:      qty.Mul(rate).Round(2),
	}
}

// BillingKey is the deterministic idempotency key for a (lot, period)
// billing. Re-running a batch with the same key posts nothing new.
func BillingKey(lotID, period string) string {
	return "bill:" + lotID + ":" + period
}

// Bill aggregates rent and ancillary charges plus GST into one billable
// document for a party.
type Bill struct {
	ID      string
	PartyID string
	LotIDs  []string
	Period  string // billing period identifier, e.g. "2025-11"

	// BilledThrough is the date rent has accrued to on this bill. The next
	// billing of the same lots charges only from here, so successive runs
	// never re-bill days already invoiced.
	BilledThrough time.Time

	// Packets is the quantity this bill covers. Dispatch billing in
	// NIKASI_TOTAL mode subtracts the already-billed quantity from the
	// cumulative dispatched total, so partial dispatches never double-charge.
	Packets PacketQty

	Lines    []ChargeLine
	Discount decimal.Decimal

	Taxable    decimal.Decimal
	GST        GSTBreakup
	GrandTotal decimal.Decimal

	Outstanding decimal.Decimal
	Status      BillStatus
	VoucherID   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Totalize computes the taxable subtotal, GST split, and grand total.
func (b *Bill) Totalize(supplierState, partyState string, rate *GSTRate) error {
	subtotal := decimal.Zero
	for _, l := range b.Lines {
		subtotal = subtotal.Add(l.Amount)
	}

	if b.Discount.IsNegative() {
		return ErrInvalidAmount
	}

	b.Taxable = subtotal.Sub(b.Discount)
	if b.Taxable.IsNegative() {
		return ErrInvalidAmount
	}

	gst, err := SplitGST(b.Taxable, supplierState, partyState, rate)
	if err != nil {
		return err
	}

	b.GST = gst
	b.GrandTotal = b.Taxable.Add(gst.Total)
	b.Outstanding = b.GrandTotal

	return nil
}

// VoucherAccounts names the ledger accounts a bill voucher posts to.
type VoucherAccounts struct {
	PartyAccountID string
	RentIncomeID   string
	CGSTPayableID  string
	SGSTPayableID  string
	IGSTPayableID  string
}

// BuildVoucher produces the balanced double-entry voucher for the bill:
// the party's receivable is debited for the gross total and rent income
// and GST payable are credited for their components. The balance check
// runs before the voucher ever reaches the ledger engine.
func (b *Bill) BuildVoucher(id string, accounts VoucherAccounts, date time.Time) (*Voucher, error) {
	lines := []VoucherLine{
		{AccountID: accounts.PartyAccountID, Debit: b.GrandTotal, Narration: "storage rent bill"},
		{AccountID: accounts.RentIncomeID, Credit: b.Taxable, Narration: "rent and charges"},
	}

	if b.GST.IGST.IsPositive() {
		lines = append(lines, VoucherLine{AccountID: accounts.IGSTPayableID, Credit: b.GST.IGST, Narration: "igst"})
	}
	if b.GST.CGST.IsPositive() {
		lines = append(lines, VoucherLine{AccountID: accounts.CGSTPayableID, Credit: b.GST.CGST, Narration: "cgst"})
	}
	if b.GST.SGST.IsPositive() {
		lines = append(lines, VoucherLine{AccountID: accounts.SGSTPayableID, Credit: b.GST.SGST, Narration: "sgst"})
	}

	v := &Voucher{
		ID:             id,
		Type:           VoucherJournal,
		Date:           DateOf(date),
		Narration:      "rent bill " + b.ID,
		Lines:          lines,
		IdempotencyKey: billIdempotencyKey(b),
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}

	return v, nil
}

// billIdempotencyKey derives the voucher idempotency key from the full lot
// selection. Sorting keeps the key stable across input orderings, and a
// multi-lot bill never collides with a single-lot bill sharing its first
// lot.
func billIdempotencyKey(b *Bill) string {
	if b.Period == "" || len(b.LotIDs) == 0 {
		return ""
	}
	if len(b.LotIDs) == 1 {
		return BillingKey(b.LotIDs[0], b.Period)
	}

	ids := append([]string(nil), b.LotIDs...)
	sort.Strings(ids)
	return BillingKey(strings.Join(ids, "+"), b.Period)
}

// Confirm moves a draft bill to PENDING once its voucher is posted.
func (b *Bill) Confirm(voucherID string) error {
	if b.Status != BillDraft {
		return ErrInvalidTransition
	}

	b.Status = BillPending
	b.VoucherID = voucherID

	return nil
}

// ApplyReceipt offsets the bill's outstanding by a receipt allocation and
// returns the amount actually applied. Partial payments keep the bill
// PENDING with reduced outstanding; full allocation flips it to PAID.
func (b *Bill) ApplyReceipt(amount decimal.Decimal) (decimal.Decimal, error) {
	if b.Status != BillPending {
		return decimal.Zero, ErrInvalidTransition
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}

	applied := amount
	if applied.GreaterThan(b.Outstanding) {
		applied = b.Outstanding
	}

	b.Outstanding = b.Outstanding.Sub(applied)
	if b.Outstanding.IsZero() {
		b.Status = BillPaid
	}

	return applied, nil
}

// Cancel marks the bill cancelled. A PENDING bill requires a reversing
// voucher, which the caller posts before flipping the status.
func (b *Bill) Cancel() error {
	switch b.Status {
	case BillDraft, BillPending:
		b.Status = BillCancelled
		return nil
	default:
		return ErrInvalidTransition
	}
}
