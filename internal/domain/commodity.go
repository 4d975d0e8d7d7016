package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RentBasis selects how weight-based rent maps onto the rate table.
type RentBasis string

const (
	BasisQuintal RentBasis = "QUINTAL" // weight/100 x weight rate
	BasisPacket  RentBasis = "PACKET"  // per-packet-type weight x packet rate
	BasisWeight  RentBasis = "WEIGHT"  // raw weight x weight rate
)

// RentOn selects the billing quantity: packet counts or weight.
type RentOn string

const (
	RentOnQuantity RentOn = "QUANTITY"
	RentOnWeight   RentOn = "WEIGHT"
)

// ChargeRentType is the billing period unit.
type ChargeRentType string

const (
	ChargeDaily    ChargeRentType = "DAILY"
	ChargeMonthly  ChargeRentType = "MONTHLY"
	ChargeSeasonal ChargeRentType = "SEASONALLY"
)

// RentCalculationMode selects the authoritative quantity when a lot is
// dispatched in parts.
type RentCalculationMode string

const (
	// ModeNikasiTotal charges on the cumulative dispatched-to-date quantity.
	ModeNikasiTotal RentCalculationMode = "NIKASI_TOTAL"
	// ModeSaudaBolan charges on the deal (sauda) quantity linked to the
	// dispatch, independent of other dispatches against the same lot.
	ModeSaudaBolan RentCalculationMode = "SAUDA_BOLAN"
)

// PacketRates holds the per-packet-type rates. The unit depends on
// ChargeRentType: per day, per month, or per season.
type PacketRates struct {
	PKT1 decimal.Decimal
	PKT2 decimal.Decimal
	PKT3 decimal.Decimal
}

// RentConfig is the immutable rent configuration of a commodity.
type RentConfig struct {
	CommodityID   string
	CommodityName string

	Rates      PacketRates
	WeightRate decimal.Decimal // per quintal or per weight unit, per RentBasis

	GracePeriodDays int
	ZeroRentDays    int
	HalfRentDays    int

	Basis    RentBasis
	RentOn   RentOn
	ChargeAs ChargeRentType
	Mode     RentCalculationMode

	// Season window for SEASONALLY billing, expressed as month/day pairs.
	// A zero SeasonStartMonth means the season covers the whole year.
	SeasonStartMonth time.Month
	SeasonStartDay   int
	SeasonEndMonth   time.Month
	SeasonEndDay     int

	GSTRateID string

	CreatedAt time.Time
}

// Validate checks structural invariants of the configuration.
func (c *RentConfig) Validate() error {
	if c.GracePeriodDays < 0 || c.ZeroRentDays < 0 || c.HalfRentDays < 0 {
		return ErrNegativeDayCount
	}

	switch c.Basis {
	case BasisQuintal, BasisPacket, BasisWeight:
	default:
		return fmt.Errorf("unknown rent basis %q", c.Basis)
	}

	switch c.RentOn {
	case RentOnQuantity, RentOnWeight:
	default:
		return fmt.Errorf("unknown rent-on mode %q", c.RentOn)
	}

	switch c.ChargeAs {
	case ChargeDaily, ChargeMonthly, ChargeSeasonal:
	default:
		return fmt.Errorf("unknown charge periodicity %q", c.ChargeAs)
	}

	switch c.Mode {
	case ModeNikasiTotal, ModeSaudaBolan:
	default:
		return fmt.Errorf("unknown rent calculation mode %q", c.Mode)
	}

	return nil
}

// InSeason reports whether any day of [from, to] falls within the season
// window. Windows may wrap the year end (e.g. Oct 1 .. Mar 31).
func (c *RentConfig) InSeason(from, to time.Time) bool {
	if c.SeasonStartMonth == 0 {
		return true
	}

	for d := DateOf(from); !d.After(DateOf(to)); d = d.AddDate(0, 0, 1) {
		if c.dayInSeason(d) {
			return true
		}
	}

	return false
}

func (c *RentConfig) dayInSeason(d time.Time) bool {
	start := int(c.SeasonStartMonth)*100 + c.SeasonStartDay
	end := int(c.SeasonEndMonth)*100 + c.SeasonEndDay
	cur := int(d.Month())*100 + d.Day()

	if start <= end {
		return cur >= start && cur <= end
	}
	// Window wraps the year end.
	return cur >= start || cur <= end
}
