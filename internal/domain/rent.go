package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Day-count convention: the receipt day is day 0 and is not billable.
// elapsedDays is the calendar-day difference between the receipt date and
// the as-of/dispatch date, so a lot received and dispatched the same day
// has zero elapsed days. The convention is applied uniformly to every lot.

var half = decimal.NewFromFloat(0.5)

// AppliedRate records one rate line used in a rent computation.
type AppliedRate struct {
	PacketType string // PKT1, PKT2, PKT3, or WEIGHT
	Quantity   decimal.Decimal
	Rate       decimal.Decimal
	PerPeriod  decimal.Decimal // quantity x rate, per billing period unit
}

// RentCharge is the computed rent for one lot over one storage interval.
// It is a pure value: recomputable on demand and never mutated.
type RentCharge struct {
	LotID    string
	SaudaID  string
	FromDate time.Time
	ToDate   time.Time

	ElapsedDays  int
	BillableDays int
	ZeroDays     int
	HalfDays     int
	FullDays     int

	RatesApplied []AppliedRate
	Gross        decimal.Decimal
}

// ComputeRent computes the rent for a lot's full received quantity from its
// receipt date to asOf. Used for as-of quotes and periodic billing runs.
func ComputeRent(lot *Lot, asOf time.Time, cfg *RentConfig) (*RentCharge, error) {
	return computeRent(lot, asOf, cfg, lot.Packets, lot.Weights, "")
}

// ComputeRentSince computes the rent accrued after an earlier billing
// cutoff: the cumulative charge to asOf minus the cumulative charge to
// since. Day counts stay anchored at the receipt date, so each storage day
// is billed exactly once and at the tier band it falls in regardless of how
// the interval is split across billing runs. A zero since bills from
// receipt.
func ComputeRentSince(lot *Lot, since, asOf time.Time, cfg *RentConfig) (*RentCharge, error) {
	full, err := ComputeRent(lot, asOf, cfg)
	if err != nil {
		return nil, err
	}

	if since.IsZero() || !DateOf(since).After(DateOf(lot.ReceiptDate)) {
		return full, nil
	}
	if !DateOf(since).Before(DateOf(asOf)) {
		return &RentCharge{
			LotID:        lot.ID,
			FromDate:     DateOf(since),
			ToDate:       DateOf(asOf),
			RatesApplied: full.RatesApplied,
			Gross:        decimal.Zero,
		}, nil
	}

	prior, err := ComputeRent(lot, since, cfg)
	if err != nil {
		return nil, err
	}

	return &RentCharge{
		LotID:        lot.ID,
		FromDate:     DateOf(since),
		ToDate:       full.ToDate,
		ElapsedDays:  full.ElapsedDays - prior.ElapsedDays,
		BillableDays: full.BillableDays - prior.BillableDays,
		ZeroDays:     full.ZeroDays - prior.ZeroDays,
		HalfDays:     full.HalfDays - prior.HalfDays,
		FullDays:     full.FullDays - prior.FullDays,
		RatesApplied: full.RatesApplied,
		Gross:        full.Gross.Sub(prior.Gross),
	}, nil
}

// ComputeDispatchRent computes the rent attributable to one dispatch.
// billed is the quantity already charged by earlier billing of this lot;
// in NIKASI_TOTAL mode the chargeable quantity is cumulative
// dispatched-to-date minus billed, so repeated partial dispatches never
// double-charge the same goods. In SAUDA_BOLAN mode the deal quantity
// linked to the dispatch is authoritative.
func ComputeDispatchRent(lot *Lot, d Dispatch, cfg *RentConfig, billed PacketQty) (*RentCharge, error) {
	var qty PacketQty
	saudaID := ""

	switch cfg.Mode {
	case ModeSaudaBolan:
		qty = d.SaudaPackets
		if qty.IsZero() {
			qty = d.Packets
		}
		saudaID = d.SaudaID
	default: // ModeNikasiTotal
		qty = lot.DispatchedQty(d.Date).Sub(billed)
		if !qty.Valid() {
			qty = PacketQty{}
		}
	}

	return computeRent(lot, d.Date, cfg, qty, lot.Weights.Scale(qty, lot.Packets), saudaID)
}

func computeRent(lot *Lot, asOf time.Time, cfg *RentConfig, qty PacketQty, wt PacketWeight, saudaID string) (*RentCharge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	elapsed := DaysBetween(lot.ReceiptDate, asOf)
	if elapsed < 0 {
		return nil, ErrInvalidDateRange
	}

	rates := appliedRates(cfg, qty, wt)

	charge := &RentCharge{
		LotID:        lot.ID,
		SaudaID:      saudaID,
		FromDate:     DateOf(lot.ReceiptDate),
		ToDate:       DateOf(asOf),
		ElapsedDays:  elapsed,
		RatesApplied: rates,
		Gross:        decimal.Zero,
	}

	base := decimal.Zero
	for _, r := range rates {
		base = base.Add(r.PerPeriod)
	}

	// Grace delays the start of billing altogether; the zero/half tiers are
	// evaluated against the post-grace day count. Tier boundaries are
	// half-open, so a boundary day belongs to the cheaper tier.
	billable := elapsed - cfg.GracePeriodDays
	if billable < 0 {
		billable = 0
	}
	charge.BillableDays = billable
	charge.ZeroDays = min(billable, cfg.ZeroRentDays)
	charge.HalfDays = min(billable-charge.ZeroDays, cfg.HalfRentDays)
	charge.FullDays = billable - charge.ZeroDays - charge.HalfDays

	switch cfg.ChargeAs {
	case ChargeSeasonal:
		// One flat seasonal charge once any day of the interval falls in
		// the season window, regardless of exact day count.
		if cfg.InSeason(lot.ReceiptDate, asOf) {
			charge.Gross = base.Round(2)
		}
	case ChargeMonthly:
		charge.Gross = monthlyRent(lot.ReceiptDate, cfg, base, billable)
	default: // ChargeDaily
		if billable > 0 {
			weighted := half.Mul(decimal.NewFromInt(int64(charge.HalfDays))).
				Add(decimal.NewFromInt(int64(charge.FullDays)))
			charge.Gross = base.Mul(weighted).Round(2)
		}
	}

	return charge, nil
}

// monthlyRent prorates a per-month rate over the billable window, charging
// each calendar month the interval crosses separately. Each month's
// sub-charge is rounded before summing, matching per-period invoicing.
func monthlyRent(receipt time.Time, cfg *RentConfig, base decimal.Decimal, billable int) decimal.Decimal {
	if billable <= 0 {
		return decimal.Zero
	}

	// Billable day k (0-based) falls on receipt + grace + 1 + k.
	first := DateOf(receipt).AddDate(0, 0, cfg.GracePeriodDays+1)

	type monthKey struct {
		year  int
		month time.Month
	}

	weighted := make(map[monthKey]decimal.Decimal)
	var order []monthKey

	for k := 0; k < billable; k++ {
		day := first.AddDate(0, 0, k)
		mult := tierMultiplier(k, cfg)
		if mult.IsZero() {
			continue
		}

		key := monthKey{day.Year(), day.Month()}
		if _, ok := weighted[key]; !ok {
			order = append(order, key)
		}
		weighted[key] = weighted[key].Add(mult)
	}

	total := decimal.Zero
	for _, key := range order {
		days := DaysInMonth(time.Date(key.year, key.month, 1, 0, 0, 0, 0, time.UTC))
		monthCharge := base.Mul(weighted[key]).Div(decimal.NewFromInt(int64(days))).Round(2)
		total = total.Add(monthCharge)
	}

	return total
}

// tierMultiplier returns the rate multiplier of post-grace billable day k:
// [0, zero) free, [zero, zero+half) half rate, beyond that full rate.
func tierMultiplier(k int, cfg *RentConfig) decimal.Decimal {
	switch {
	case k < cfg.ZeroRentDays:
		return decimal.Zero
	case k < cfg.ZeroRentDays+cfg.HalfRentDays:
		return half
	default:
		return decimal.NewFromInt(1)
	}
}

// appliedRates resolves the billing quantity per rentOn/rentBasis into
// per-period rate lines.
func appliedRates(cfg *RentConfig, qty PacketQty, wt PacketWeight) []AppliedRate {
	if cfg.RentOn == RentOnQuantity {
		return packetLines(cfg.Rates, decimal.NewFromInt(qty.PKT1), decimal.NewFromInt(qty.PKT2), decimal.NewFromInt(qty.PKT3))
	}

	switch cfg.Basis {
	case BasisPacket:
		return packetLines(cfg.Rates, wt.PKT1, wt.PKT2, wt.PKT3)
	case BasisQuintal:
		quintals := wt.Total().Div(decimal.NewFromInt(100))
		return []AppliedRate{{
			PacketType: "WEIGHT",
			Quantity:   quintals,
			Rate:       cfg.WeightRate,
			PerPeriod:  quintals.Mul(cfg.WeightRate),
		}}
	default: // BasisWeight
		w := wt.Total()
		return []AppliedRate{{
			PacketType: "WEIGHT",
			Quantity:   w,
			Rate:       cfg.WeightRate,
			PerPeriod:  w.Mul(cfg.WeightRate),
		}}
	}
}

func packetLines(rates PacketRates, q1, q2, q3 decimal.Decimal) []AppliedRate {
	var lines []AppliedRate
	for _, l := range []struct {
		typ  string
		qty  decimal.Decimal
		rate decimal.Decimal
	}{
		{"PKT1", q1, rates.PKT1},
		{"PKT2", q2, rates.PKT2},
		{"PKT3", q3, rates.PKT3},
	} {
		if l.qty.IsZero() {
			continue
		}
		lines = append(lines, AppliedRate{
			PacketType: l.typ,
			Quantity:   l.qty,
			Rate:       l.rate,
			PerPeriod:  l.qty.Mul(l.rate),
		})
	}
	return lines
}
