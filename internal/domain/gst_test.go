package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func gst18() *GSTRate {
	return &GSTRate{
		ID:   "gst-18",
		Name: "GST 18%",
		CGST: decimal.NewFromInt(9),
		SGST: decimal.NewFromInt(9),
		IGST: decimal.NewFromInt(18),
	}
}

func TestSplitGST(t *testing.T) {
	tests := []struct {
		name          string
		taxable       string
		supplierState string
		partyState    string
		wantCGST      string
		wantSGST      string
		wantIGST      string
		wantTotal     string
	}{
		{
			name:    "same state splits cgst and sgst",
			taxable: "1000", supplierState: "09", partyState: "09",
			wantCGST: "90", wantSGST: "90", wantIGST: "0", wantTotal: "180",
		},
		{
			name:    "different state charges igst",
			taxable: "1000", supplierState: "09", partyState: "27",
			wantCGST: "0", wantSGST: "0", wantIGST: "180", wantTotal: "180",
		},
		{
			// 0.03 x 9% = 0.0027 -> cgst 0.00; total at 18% = 0.01 goes to sgst,
			// so both paths reconcile to the penny
			name:    "rounding remainder lands on last line",
			taxable: "0.03", supplierState: "09", partyState: "09",
			wantCGST: "0", wantSGST: "0.01", wantIGST: "0", wantTotal: "0.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitGST(decimal.RequireFromString(tt.taxable), tt.supplierState, tt.partyState, gst18())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			check := func(field, got, want string) {
				if got != want {
					t.Errorf("%s = %s, want %s", field, got, want)
				}
			}
			check("cgst", got.CGST.String(), tt.wantCGST)
			check("sgst", got.SGST.String(), tt.wantSGST)
			check("igst", got.IGST.String(), tt.wantIGST)
			check("total", got.Total.String(), tt.wantTotal)
		})
	}
}

func TestSplitGST_BothPathsEqualTotal(t *testing.T) {
	for _, taxable := range []string{"1000", "999.37", "0.01", "123456.78"} {
		amount := decimal.RequireFromString(taxable)

		intra, err := SplitGST(amount, "09", "09", gst18())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		inter, err := SplitGST(amount, "09", "27", gst18())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !intra.Total.Equal(inter.Total) {
			t.Errorf("taxable %s: intra total %s != inter total %s", taxable, intra.Total, inter.Total)
		}

		if !intra.CGST.Add(intra.SGST).Equal(intra.Total) {
			t.Errorf("taxable %s: cgst+sgst %s != total %s", taxable, intra.CGST.Add(intra.SGST), intra.Total)
		}
	}
}

func TestSplitGST_RateInconsistency(t *testing.T) {
	bad := &GSTRate{
		CGST: decimal.NewFromInt(9),
		SGST: decimal.NewFromInt(9),
		IGST: decimal.NewFromInt(12),
	}

	_, err := SplitGST(decimal.NewFromInt(100), "09", "09", bad)
	if err != ErrRateInconsistency {
		t.Fatalf("expected ErrRateInconsistency, got %v", err)
	}
}
