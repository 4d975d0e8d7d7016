package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PacketQty holds per-packet-type counts (the three bag-size categories
// tracked per lot).
type PacketQty struct {
	PKT1 int64
	PKT2 int64
	PKT3 int64
}

// Total returns the total packet count.
func (q PacketQty) Total() int64 {
	return q.PKT1 + q.PKT2 + q.PKT3
}

// Add returns q + o component-wise.
func (q PacketQty) Add(o PacketQty) PacketQty {
	return PacketQty{q.PKT1 + o.PKT1, q.PKT2 + o.PKT2, q.PKT3 + o.PKT3}
}

// Sub returns q - o component-wise.
func (q PacketQty) Sub(o PacketQty) PacketQty {
	return PacketQty{q.PKT1 - o.PKT1, q.PKT2 - o.PKT2, q.PKT3 - o.PKT3}
}

// Covers reports whether q >= o in every component.
func (q PacketQty) Covers(o PacketQty) bool {
	return q.PKT1 >= o.PKT1 && q.PKT2 >= o.PKT2 && q.PKT3 >= o.PKT3
}

// IsZero reports whether all components are zero.
func (q PacketQty) IsZero() bool {
	return q.PKT1 == 0 && q.PKT2 == 0 && q.PKT3 == 0
}

// Valid reports whether no component is negative.
func (q PacketQty) Valid() bool {
	return q.PKT1 >= 0 && q.PKT2 >= 0 && q.PKT3 >= 0
}

// PacketWeight holds per-packet-type weights in quintal-compatible units.
type PacketWeight struct {
	PKT1 decimal.Decimal
	PKT2 decimal.Decimal
	PKT3 decimal.Decimal
}

// Total returns the total weight.
func (w PacketWeight) Total() decimal.Decimal {
	return w.PKT1.Add(w.PKT2).Add(w.PKT3)
}

// Scale returns the weight of qty packets assuming w describes the weight
// of the full lot quantity full.
func (w PacketWeight) Scale(qty, full PacketQty) PacketWeight {
	return PacketWeight{
		PKT1: perPacketShare(w.PKT1, qty.PKT1, full.PKT1),
		PKT2: perPacketShare(w.PKT2, qty.PKT2, full.PKT2),
		PKT3: perPacketShare(w.PKT3, qty.PKT3, full.PKT3),
	}
}

func perPacketShare(total decimal.Decimal, qty, full int64) decimal.Decimal {
	if full == 0 || qty == 0 {
		return decimal.Zero
	}
	return total.Mul(decimal.NewFromInt(qty)).Div(decimal.NewFromInt(full))
}

// Dispatch is a Nikasi event removing goods from a lot. When the dispatch
// executes a trade deal, SaudaID and SaudaPackets identify the deal and its
// contracted quantity.
type Dispatch struct {
	ID           string
	LotID        string
	Date         time.Time
	Packets      PacketQty
	Weights      PacketWeight
	SaudaID      string
	SaudaPackets PacketQty
	CreatedAt    time.Time
}

// Lot is an Amad: an immutable goods-receipt record. Dispatches are
// appended by the inventory side; billing reads them.
type Lot struct {
	ID          string
	PartyID     string
	CommodityID string
	ReceiptDate time.Time
	Packets     PacketQty
	Weights     PacketWeight
	Dispatches  []Dispatch
	CreatedAt   time.Time
}

// DispatchedQty returns the cumulative dispatched packet counts, optionally
// limited to dispatches dated on or before asOf.
func (l *Lot) DispatchedQty(asOf time.Time) PacketQty {
	var total PacketQty
	for _, d := range l.Dispatches {
		if DaysBetween(d.Date, asOf) >= 0 {
			total = total.Add(d.Packets)
		}
	}
	return total
}

// OutstandingQty returns received minus cumulative dispatched counts.
func (l *Lot) OutstandingQty() PacketQty {
	var dispatched PacketQty
	for _, d := range l.Dispatches {
		dispatched = dispatched.Add(d.Packets)
	}
	return l.Packets.Sub(dispatched)
}

// ValidateDispatch checks a dispatch against the lot without mutating it.
// Rejected dispatches leave the lot untouched.
func (l *Lot) ValidateDispatch(d Dispatch) error {
	if !d.Packets.Valid() || d.Packets.IsZero() {
		return ErrNegativeQuantity
	}

	if DaysBetween(l.ReceiptDate, d.Date) < 0 {
		return ErrInvalidDateRange
	}

	if !l.OutstandingQty().Covers(d.Packets) {
		return ErrInsufficientOutstanding
	}

	return nil
}
