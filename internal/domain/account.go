package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountNature determines the sign convention of an account: debit-normal
// accounts (assets, expenses, receivables) grow on the debit side,
// credit-normal accounts (income, liabilities, payables) on the credit side.
type AccountNature string

const (
	NatureDebit  AccountNature = "DR"
	NatureCredit AccountNature = "CR"
)

// PartyType classifies party ledger accounts.
type PartyType string

const (
	PartyKisan   PartyType = "KISAN"   // farmer / depositor
	PartyAarti   PartyType = "AARTI"   // commission agent
	PartyVyapari PartyType = "VYAPARI" // trader
	PartyOther   PartyType = "OTHER"
	PartyNone    PartyType = "" // not a party account
)

// OutstandingSide reports which side of the books a party sits on.
type OutstandingSide string

const (
	SideDebtor   OutstandingSide = "DEBTOR"
	SideCreditor OutstandingSide = "CREDITOR"
	SideSettled  OutstandingSide = "SETTLED"
)

// Account is a node in the chart of accounts. Balance is a cached value
// derived from posted entries; it is never adjusted independently of them.
type Account struct {
	ID             string
	Code           string
	Name           string
	ParentID       *string
	Nature         AccountNature
	PartyType      PartyType
	StateCode      string // GST state code, relevant for party accounts
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsParty reports whether the account is a party (counterparty) account.
func (a *Account) IsParty() bool {
	return a.PartyType != PartyNone
}

// SignedAmount converts a debit/credit pair into this account's sign
// convention: positive means the balance grows.
func (a *Account) SignedAmount(debit, credit decimal.Decimal) decimal.Decimal {
	if a.Nature == NatureCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// ApplyEntry returns the balance after posting the given debit/credit.
func (a *Account) ApplyEntry(debit, credit decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(a.SignedAmount(debit, credit))
}

// Outstanding returns the party position: the balance signed per nature and
// the side it falls on. A positive balance on a debit-normal party account
// is money owed to us (debtor); on a credit-normal account, money we owe.
func (a *Account) Outstanding() (decimal.Decimal, OutstandingSide) {
	switch {
	case a.Balance.IsZero():
		return decimal.Zero, SideSettled
	case a.Balance.IsPositive() && a.Nature == NatureDebit:
		return a.Balance, SideDebtor
	case a.Balance.IsPositive() && a.Nature == NatureCredit:
		return a.Balance, SideCreditor
	case a.Nature == NatureDebit:
		// Negative balance on a debit-normal account: we owe the party.
		return a.Balance.Neg(), SideCreditor
	default:
		return a.Balance.Neg(), SideDebtor
	}
}
