package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GSTRate is a reference tax rate record. The rating config defines IGST as
// CGST+SGST; SplitGST fails loudly when a record violates that.
type GSTRate struct {
	ID        string
	Name      string
	CGST      decimal.Decimal // percent
	SGST      decimal.Decimal // percent
	IGST      decimal.Decimal // percent
	CreatedAt time.Time
}

// Validate checks the CGST+SGST == IGST construction invariant.
func (r *GSTRate) Validate() error {
	if !r.CGST.Add(r.SGST).Equal(r.IGST) {
		return ErrRateInconsistency
	}
	return nil
}

// GSTBreakup is the tax split of one taxable amount. Exactly one of
// (CGST, SGST) or IGST is non-zero.
type GSTBreakup struct {
	CGST  decimal.Decimal
	SGST  decimal.Decimal
	IGST  decimal.Decimal
	Total decimal.Decimal
}

// SplitGST splits tax on a taxable amount. Matching supplier and party
// state codes yield an intra-state CGST+SGST split, otherwise IGST.
// Both paths produce the same total for the same nominal rate: the
// intra-state split computes the total at the full rate and assigns the
// rounding remainder to the SGST line, so the two halves always reconcile
// to the penny.
func SplitGST(taxable decimal.Decimal, supplierState, partyState string, rate *GSTRate) (GSTBreakup, error) {
	if err := rate.Validate(); err != nil {
		return GSTBreakup{}, err
	}

	hundred := decimal.NewFromInt(100)
	total := taxable.Mul(rate.IGST).Div(hundred).Round(2)

	if supplierState != partyState {
		return GSTBreakup{IGST: total, Total: total}, nil
	}

	cgst := taxable.Mul(rate.CGST).Div(hundred).Round(2)
	return GSTBreakup{
		CGST:  cgst,
		SGST:  total.Sub(cgst),
		Total: total,
	}, nil
}
