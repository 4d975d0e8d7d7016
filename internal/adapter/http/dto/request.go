package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	ParentID       *string         `json:"parent_id,omitempty"`
	Nature         string          `json:"nature"`
	PartyType      string          `json:"party_type,omitempty"`
	StateCode      string          `json:"state_code,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Code:           r.Code,
		Name:           r.Name,
		ParentID:       r.ParentID,
		Nature:         domain.AccountNature(r.Nature),
		PartyType:      domain.PartyType(r.PartyType),
		StateCode:      r.StateCode,
		OpeningBalance: r.OpeningBalance,
	}
}

// AncillaryChargeItem is one extra charge on a bill request.
type AncillaryChargeItem struct {
	Kind        string          `json:"kind"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// BuildBillRequest represents a request to draft a rent bill.
type BuildBillRequest struct {
	LotIDs    []string              `json:"lot_ids"`
	AsOf      time.Time             `json:"as_of"`
	Period    string                `json:"period,omitempty"`
	Ancillary []AncillaryChargeItem `json:"ancillary,omitempty"`
	Discount  decimal.Decimal       `json:"discount"`
}

// ToUseCaseInput converts to use case input.
func (r *BuildBillRequest) ToUseCaseInput() usecase.BuildBillInput {
	ancillary := make([]usecase.AncillaryCharge, len(r.Ancillary))
	for i, a := range r.Ancillary {
		ancillary[i] = usecase.AncillaryCharge{
			Kind:        domain.ChargeKind(a.Kind),
			Description: a.Description,
			Quantity:    a.Quantity,
			Rate:        a.Rate,
		}
	}
	return usecase.BuildBillInput{
		LotIDs:    r.LotIDs,
		AsOf:      r.AsOf,
		Period:    r.Period,
		Ancillary: ancillary,
		Discount:  r.Discount,
	}
}

// BillActionRequest carries the effective date for a bill confirm or cancel.
type BillActionRequest struct {
	Date time.Time `json:"date"`
}

// ReceiptRequest represents a party payment.
type ReceiptRequest struct {
	PartyID   string          `json:"party_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	ViaBank   bool            `json:"via_bank"`
	Narration string          `json:"narration,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReceiptRequest) ToUseCaseInput() usecase.ReceiptInput {
	return usecase.ReceiptInput{
		PartyID:   r.PartyID,
		Amount:    r.Amount,
		Date:      r.Date,
		ViaBank:   r.ViaBank,
		Narration: r.Narration,
	}
}

// VoucherLineItem is one debit-or-credit leg in a voucher request.
type VoucherLineItem struct {
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration,omitempty"`
}

// PostVoucherRequest represents a manual voucher posting.
type PostVoucherRequest struct {
	Type      string            `json:"type"`
	Date      time.Time         `json:"date"`
	Narration string            `json:"narration,omitempty"`
	Lines     []VoucherLineItem `json:"lines"`
}

// ToDomain converts the request into an unposted voucher.
func (r *PostVoucherRequest) ToDomain() *domain.Voucher {
	lines := make([]domain.VoucherLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.VoucherLine{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Narration: l.Narration,
		}
	}
	return &domain.Voucher{
		Type:      domain.VoucherType(r.Type),
		Date:      r.Date,
		Narration: r.Narration,
		Lines:     lines,
	}
}

// ReverseVoucherRequest represents a voucher reversal.
type ReverseVoucherRequest struct {
	Date      time.Time `json:"date"`
	Narration string    `json:"narration,omitempty"`
}

// RunBatchRequest represents a batch billing run.
type RunBatchRequest struct {
	Period string    `json:"period,omitempty"`
	AsOf   time.Time `json:"as_of"`
}
