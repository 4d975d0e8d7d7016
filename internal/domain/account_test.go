package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountSignedAmount(t *testing.T) {
	debit := &Account{Nature: NatureDebit}
	credit := &Account{Nature: NatureCredit}

	d100 := decimal.NewFromInt(100)

	if !debit.SignedAmount(d100, decimal.Zero).Equal(d100) {
		t.Error("debit-normal account should grow on debit")
	}

	if !debit.SignedAmount(decimal.Zero, d100).Equal(d100.Neg()) {
		t.Error("debit-normal account should shrink on credit")
	}

	if !credit.SignedAmount(decimal.Zero, d100).Equal(d100) {
		t.Error("credit-normal account should grow on credit")
	}
}

func TestAccountOutstanding(t *testing.T) {
	tests := []struct {
		name     string
		nature   AccountNature
		balance  int64
		wantAmt  int64
		wantSide OutstandingSide
	}{
		{"debit positive is debtor", NatureDebit, 500, 500, SideDebtor},
		{"credit positive is creditor", NatureCredit, 300, 300, SideCreditor},
		{"debit negative is creditor", NatureDebit, -200, 200, SideCreditor},
		{"credit negative is debtor", NatureCredit, -150, 150, SideDebtor},
		{"zero is settled", NatureDebit, 0, 0, SideSettled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{
				Nature:    tt.nature,
				PartyType: PartyKisan,
				Balance:   decimal.NewFromInt(tt.balance),
			}

			amt, side := a.Outstanding()
			if !amt.Equal(decimal.NewFromInt(tt.wantAmt)) {
				t.Errorf("amount = %s, want %d", amt, tt.wantAmt)
			}
			if side != tt.wantSide {
				t.Errorf("side = %s, want %s", side, tt.wantSide)
			}
		})
	}
}

func TestAccountApplyEntry(t *testing.T) {
	a := &Account{Nature: NatureDebit, Balance: decimal.NewFromInt(100)}

	got := a.ApplyEntry(decimal.NewFromInt(50), decimal.Zero)
	if !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("balance = %s, want 150", got)
	}
}
