package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avnish/coldledger/internal/adapter/http/dto"
	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
)

type ledgerServiceStub struct {
	postFn    func(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error)
	getFn     func(ctx context.Context, id string) (*domain.Voucher, error)
	reverseFn func(ctx context.Context, voucherID string, date time.Time, narration string) (*domain.Voucher, error)
	trialFn   func(ctx context.Context) (*usecase.TrialBalance, error)
}

func (s *ledgerServiceStub) PostVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	return s.postFn(ctx, v)
}

func (s *ledgerServiceStub) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	return s.getFn(ctx, id)
}

func (s *ledgerServiceStub) ReverseVoucher(ctx context.Context, voucherID string, date time.Time, narration string) (*domain.Voucher, error) {
	return s.reverseFn(ctx, voucherID, date, narration)
}

func (s *ledgerServiceStub) CheckTrialBalance(ctx context.Context) (*usecase.TrialBalance, error) {
	return s.trialFn(ctx)
}

func TestVoucherHandler_Post_Success(t *testing.T) {
	var captured *domain.Voucher
	handler := NewVoucherHandler(&ledgerServiceStub{
		postFn: func(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
			captured = v
			posted := *v
			posted.ID = "v-1"
			return &posted, nil
		},
	})

	body, _ := json.Marshal(dto.PostVoucherRequest{
		Type: "JV",
		Date: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
		Lines: []dto.VoucherLineItem{
			{AccountID: "acc-cash", Debit: decimal.NewFromInt(100)},
			{AccountID: "acc-income", Credit: decimal.NewFromInt(100)},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/vouchers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Type != domain.VoucherJournal || len(captured.Lines) != 2 {
		t.Fatalf("expected voucher to match request, got %+v", captured)
	}

	var resp dto.VoucherResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "v-1" || len(resp.Lines) != 2 {
		t.Fatalf("unexpected voucher response: %+v", resp)
	}
}

func TestVoucherHandler_Post_Unbalanced(t *testing.T) {
	handler := NewVoucherHandler(&ledgerServiceStub{
		postFn: func(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error) {
			return nil, domain.ErrUnbalancedVoucher
		},
	})

	body, _ := json.Marshal(dto.PostVoucherRequest{Type: "JV"})
	req := httptest.NewRequest(http.MethodPost, "/vouchers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unbalanced voucher, got %d", rec.Code)
	}
}

func TestVoucherHandler_Reverse_AlreadyReversed(t *testing.T) {
	handler := NewVoucherHandler(&ledgerServiceStub{
		reverseFn: func(ctx context.Context, voucherID string, date time.Time, narration string) (*domain.Voucher, error) {
			return nil, domain.ErrAlreadyReversed
		},
	})

	req := chiRequest(http.MethodPost, "/vouchers/v-1/reverse", "id", "v-1", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.Reverse(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestVoucherHandler_TrialBalance(t *testing.T) {
	handler := NewVoucherHandler(&ledgerServiceStub{
		trialFn: func(ctx context.Context) (*usecase.TrialBalance, error) {
			return &usecase.TrialBalance{
				TotalDebit:  decimal.NewFromInt(500),
				TotalCredit: decimal.NewFromInt(500),
				Consistent:  true,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/trial-balance", nil)
	rec := httptest.NewRecorder()

	handler.TrialBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.TrialBalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Consistent || !resp.TotalDebit.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected trial balance: %+v", resp)
	}
}
