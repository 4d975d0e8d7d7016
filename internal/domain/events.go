package domain

import "time"

// Event types
const (
	EventTypeVoucherPosted   = "voucher.posted"
	EventTypeVoucherReversed = "voucher.reversed"
	EventTypeBillIssued      = "bill.issued"
	EventTypeBillPaid        = "bill.paid"
	EventTypeAccountCreated  = "account.created"
)

// Aggregate types
const (
	AggregateTypeVoucher = "voucher"
	AggregateTypeBill    = "bill"
	AggregateTypeAccount = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// VoucherPostedEvent payload
type VoucherPostedEvent struct {
	VoucherID string `json:"voucher_id"`
	Type      string `json:"type"`
	Date      string `json:"date"`
	Amount    string `json:"amount"`
}

// VoucherReversedEvent payload
type VoucherReversedEvent struct {
	ReversalVoucherID string `json:"reversal_voucher_id"`
	OriginalVoucherID string `json:"original_voucher_id"`
	Amount            string `json:"amount"`
}

// BillIssuedEvent payload
type BillIssuedEvent struct {
	BillID     string `json:"bill_id"`
	PartyID    string `json:"party_id"`
	Period     string `json:"period"`
	GrandTotal string `json:"grand_total"`
}

// BillPaidEvent payload
type BillPaidEvent struct {
	BillID  string `json:"bill_id"`
	PartyID string `json:"party_id"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
}
