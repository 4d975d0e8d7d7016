package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	ParentID       *string         `json:"parent_id,omitempty"`
	Nature         string          `json:"nature"`
	PartyType      string          `json:"party_type,omitempty"`
	StateCode      string          `json:"state_code,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		ParentID:       a.ParentID,
		Nature:         string(a.Nature),
		PartyType:      string(a.PartyType),
		StateCode:      a.StateCode,
		OpeningBalance: a.OpeningBalance,
		Balance:        a.Balance,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a paginated account listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse represents an account balance at a point in time.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      *time.Time      `json:"as_of,omitempty"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	VoucherID      string          `json:"voucher_id"`
	Date           time.Time       `json:"date"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		AccountID:      e.AccountID,
		VoucherID:      e.VoucherID,
		Date:           e.Date,
		Debit:          e.Debit,
		Credit:         e.Credit,
		RunningBalance: e.RunningBalance,
		CreatedAt:      e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// VoucherLineResponse represents one voucher leg in API responses.
type VoucherLineResponse struct {
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration,omitempty"`
}

// VoucherResponse represents a voucher in API responses.
type VoucherResponse struct {
	ID                string                `json:"id"`
	Type              string                `json:"type"`
	Date              time.Time             `json:"date"`
	Narration         string                `json:"narration,omitempty"`
	Lines             []VoucherLineResponse `json:"lines"`
	ReversedVoucherID *string               `json:"reversed_voucher_id,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// VoucherFromDomain converts a domain voucher to a response.
func VoucherFromDomain(v *domain.Voucher) *VoucherResponse {
	lines := make([]VoucherLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = VoucherLineResponse{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Narration: l.Narration,
		}
	}
	return &VoucherResponse{
		ID:                v.ID,
		Type:              string(v.Type),
		Date:              v.Date,
		Narration:         v.Narration,
		Lines:             lines,
		ReversedVoucherID: v.ReversedVoucherID,
		CreatedAt:         v.CreatedAt,
	}
}

// PacketQtyResponse represents packet counts per packet type.
type PacketQtyResponse struct {
	PKT1 int64 `json:"pkt1"`
	PKT2 int64 `json:"pkt2"`
	PKT3 int64 `json:"pkt3"`
}

// ChargeLineResponse represents one bill charge line.
type ChargeLineResponse struct {
	Kind        string          `json:"kind"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// GSTBreakupResponse represents the tax split of a bill.
type GSTBreakupResponse struct {
	CGST  decimal.Decimal `json:"cgst"`
	SGST  decimal.Decimal `json:"sgst"`
	IGST  decimal.Decimal `json:"igst"`
	Total decimal.Decimal `json:"total"`
}

// BillResponse represents a bill in API responses.
type BillResponse struct {
	ID          string               `json:"id"`
	PartyID     string               `json:"party_id"`
	LotIDs      []string             `json:"lot_ids"`
	Period      string               `json:"period"`
	Packets     PacketQtyResponse    `json:"packets"`
	Lines       []ChargeLineResponse `json:"lines"`
	Discount    decimal.Decimal      `json:"discount"`
	Taxable     decimal.Decimal      `json:"taxable"`
	GST         GSTBreakupResponse   `json:"gst"`
	GrandTotal  decimal.Decimal      `json:"grand_total"`
	Outstanding decimal.Decimal      `json:"outstanding"`
	Status      string               `json:"status"`
	VoucherID   string               `json:"voucher_id,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// BillFromDomain converts a domain bill to a response.
func BillFromDomain(b *domain.Bill) *BillResponse {
	lines := make([]ChargeLineResponse, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = ChargeLineResponse{
			Kind:        string(l.Kind),
			Description: l.Description,
			Quantity:    l.Quantity,
			Rate:        l.Rate,
			Amount:      l.Amount,
		}
	}
	return &BillResponse{
		ID:      b.ID,
		PartyID: b.PartyID,
		LotIDs:  b.LotIDs,
		Period:  b.Period,
		Packets: PacketQtyResponse{
			PKT1: b.Packets.PKT1,
			PKT2: b.Packets.PKT2,
			PKT3: b.Packets.PKT3,
		},
		Lines:    lines,
		Discount: b.Discount,
		Taxable:  b.Taxable,
		GST: GSTBreakupResponse{
			CGST:  b.GST.CGST,
			SGST:  b.GST.SGST,
			IGST:  b.GST.IGST,
			Total: b.GST.Total,
		},
		GrandTotal:  b.GrandTotal,
		Outstanding: b.Outstanding,
		Status:      string(b.Status),
		VoucherID:   b.VoucherID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// AppliedRateResponse represents one rate line of a rent computation.
type AppliedRateResponse struct {
	PacketType string          `json:"packet_type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
	PerPeriod  decimal.Decimal `json:"per_period"`
}

// RentChargeResponse represents a computed rent charge.
type RentChargeResponse struct {
	LotID        string                `json:"lot_id"`
	SaudaID      string                `json:"sauda_id,omitempty"`
	FromDate     time.Time             `json:"from_date"`
	ToDate       time.Time             `json:"to_date"`
	ElapsedDays  int                   `json:"elapsed_days"`
	BillableDays int                   `json:"billable_days"`
	ZeroDays     int                   `json:"zero_days"`
	HalfDays     int                   `json:"half_days"`
	FullDays     int                   `json:"full_days"`
	RatesApplied []AppliedRateResponse `json:"rates_applied"`
	Gross        decimal.Decimal       `json:"gross"`
}

// RentChargeFromDomain converts a domain rent charge to a response.
func RentChargeFromDomain(c *domain.RentCharge) *RentChargeResponse {
	rates := make([]AppliedRateResponse, len(c.RatesApplied))
	for i, r := range c.RatesApplied {
		rates[i] = AppliedRateResponse{
			PacketType: r.PacketType,
			Quantity:   r.Quantity,
			Rate:       r.Rate,
			PerPeriod:  r.PerPeriod,
		}
	}
	return &RentChargeResponse{
		LotID:        c.LotID,
		SaudaID:      c.SaudaID,
		FromDate:     c.FromDate,
		ToDate:       c.ToDate,
		ElapsedDays:  c.ElapsedDays,
		BillableDays: c.BillableDays,
		ZeroDays:     c.ZeroDays,
		HalfDays:     c.HalfDays,
		FullDays:     c.FullDays,
		RatesApplied: rates,
		Gross:        c.Gross,
	}
}

// ReceiptResponse reports how a receipt was allocated.
type ReceiptResponse struct {
	Voucher     *VoucherResponse `json:"voucher"`
	BillsPaid   []string         `json:"bills_paid"`
	Unallocated decimal.Decimal  `json:"unallocated"`
}

// ReceiptFromResult converts a receipt result to a response.
func ReceiptFromResult(res *usecase.ReceiptResult) *ReceiptResponse {
	return &ReceiptResponse{
		Voucher:     VoucherFromDomain(res.Voucher),
		BillsPaid:   res.BillsPaid,
		Unallocated: res.Unallocated,
	}
}

// BatchResultResponse summarizes a batch billing run.
type BatchResultResponse struct {
	Period  string   `json:"period"`
	Billed  int      `json:"billed"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// DaybookLineResponse is one account's movement for the day.
type DaybookLineResponse struct {
	Account *AccountResponse `json:"account"`
	Opening decimal.Decimal  `json:"opening"`
	Debit   decimal.Decimal  `json:"debit"`
	Credit  decimal.Decimal  `json:"credit"`
	Closing decimal.Decimal  `json:"closing"`
	Entries []*EntryResponse `json:"entries"`
}

// DaybookResponse represents the per-day cash and bank summary.
type DaybookResponse struct {
	Date  time.Time             `json:"date"`
	Lines []DaybookLineResponse `json:"lines"`
}

// DaybookFromUseCase converts a daybook to a response.
func DaybookFromUseCase(d *usecase.Daybook) *DaybookResponse {
	lines := make([]DaybookLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = DaybookLineResponse{
			Account: AccountFromDomain(l.Account),
			Opening: l.Opening,
			Debit:   l.Debit,
			Credit:  l.Credit,
			Closing: l.Closing,
			Entries: EntriesFromDomain(l.Entries),
		}
	}
	return &DaybookResponse{Date: d.Date, Lines: lines}
}

// OutstandingResponse represents one party's signed position.
type OutstandingResponse struct {
	Account *AccountResponse `json:"account"`
	Amount  decimal.Decimal  `json:"amount"`
	Side    string           `json:"side"`
}

// OutstandingFromUseCase converts a party outstanding to a response.
func OutstandingFromUseCase(o *usecase.PartyOutstanding) *OutstandingResponse {
	return &OutstandingResponse{
		Account: AccountFromDomain(o.Account),
		Amount:  o.Amount,
		Side:    string(o.Side),
	}
}

// OutstandingsFromUseCase converts party outstandings to responses.
func OutstandingsFromUseCase(outs []*usecase.PartyOutstanding) []*OutstandingResponse {
	result := make([]*OutstandingResponse, len(outs))
	for i, o := range outs {
		result[i] = OutstandingFromUseCase(o)
	}
	return result
}

// PartyOutstandingsResponse buckets parties into debtors and creditors.
type PartyOutstandingsResponse struct {
	Debtors   []*OutstandingResponse `json:"debtors"`
	Creditors []*OutstandingResponse `json:"creditors"`
}

// TrialBalanceResponse represents the ledger-wide balance check.
type TrialBalanceResponse struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Consistent  bool            `json:"consistent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
