package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestVoucherValidate(t *testing.T) {
	tests := []struct {
		name    string
		lines   []VoucherLine
		wantErr error
	}{
		{
			name: "balanced voucher",
			lines: []VoucherLine{
				{AccountID: "party", Debit: decimal.NewFromInt(118)},
				{AccountID: "rent", Credit: decimal.NewFromInt(100)},
				{AccountID: "gst", Credit: decimal.NewFromInt(18)},
			},
		},
		{
			name: "unbalanced voucher",
			lines: []VoucherLine{
				{AccountID: "party", Debit: decimal.NewFromInt(118)},
				{AccountID: "rent", Credit: decimal.NewFromInt(100)},
			},
			wantErr: ErrUnbalancedVoucher,
		},
		{
			name:    "empty voucher",
			wantErr: ErrEmptyVoucher,
		},
		{
			name: "line with both sides set",
			lines: []VoucherLine{
				{AccountID: "a", Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(10)},
				{AccountID: "b", Credit: decimal.NewFromInt(0)},
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "line with no side set",
			lines: []VoucherLine{
				{AccountID: "a"},
				{AccountID: "b"},
			},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Voucher{ID: "v1", Type: VoucherJournal, Date: date(2025, time.June, 1), Lines: tt.lines}

			err := v.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVoucherValidate_Type(t *testing.T) {
	lines := []VoucherLine{
		{AccountID: "party", Debit: decimal.NewFromInt(100)},
		{AccountID: "rent", Credit: decimal.NewFromInt(100)},
	}

	for _, typ := range []VoucherType{VoucherReceipt, VoucherPayment, VoucherJournal, VoucherContra, VoucherBank} {
		v := &Voucher{ID: "v1", Type: typ, Date: date(2025, time.June, 1), Lines: lines}
		if err := v.Validate(); err != nil {
			t.Errorf("Validate() with type %s = %v", typ, err)
		}
	}

	v := &Voucher{ID: "v1", Type: VoucherType("XX"), Date: date(2025, time.June, 1), Lines: lines}
	if err := v.Validate(); !errors.Is(err, ErrInvalidVoucherType) {
		t.Errorf("Validate() = %v, want ErrInvalidVoucherType", err)
	}
}

func TestVoucherReversal(t *testing.T) {
	v := &Voucher{
		ID:   "v1",
		Type: VoucherJournal,
		Date: date(2025, time.June, 1),
		Lines: []VoucherLine{
			{AccountID: "party", Debit: decimal.NewFromInt(118)},
			{AccountID: "rent", Credit: decimal.NewFromInt(100)},
			{AccountID: "gst", Credit: decimal.NewFromInt(18)},
		},
	}

	rev := v.Reversal("v2", date(2025, time.June, 3), "cancellation")

	if err := rev.Validate(); err != nil {
		t.Fatalf("reversal not balanced: %v", err)
	}

	if rev.ReversedVoucherID == nil || *rev.ReversedVoucherID != "v1" {
		t.Error("reversal must reference the original voucher")
	}

	if !rev.Lines[0].Credit.Equal(decimal.NewFromInt(118)) {
		t.Errorf("expected party credited 118, got %s", rev.Lines[0].Credit)
	}

	if !rev.TotalDebit().Equal(v.TotalDebit()) {
		t.Errorf("reversal total %s != original total %s", rev.TotalDebit(), v.TotalDebit())
	}
}

func TestVoucherAccountIDs(t *testing.T) {
	v := &Voucher{Lines: []VoucherLine{
		{AccountID: "a", Debit: decimal.NewFromInt(5)},
		{AccountID: "b", Credit: decimal.NewFromInt(3)},
		{AccountID: "a", Credit: decimal.NewFromInt(2)},
	}}

	ids := v.AccountIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct accounts, got %d", len(ids))
	}
}
