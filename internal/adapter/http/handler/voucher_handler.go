package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avnish/coldledger/internal/adapter/http/dto"
	"github.com/avnish/coldledger/internal/domain"
	"github.com/avnish/coldledger/internal/usecase"
)

// LedgerService defines the behavior needed by VoucherHandler.
type LedgerService interface {
	PostVoucher(ctx context.Context, v *domain.Voucher) (*domain.Voucher, error)
	GetVoucher(ctx context.Context, id string) (*domain.Voucher, error)
	ReverseVoucher(ctx context.Context, voucherID string, date time.Time, narration string) (*domain.Voucher, error)
	CheckTrialBalance(ctx context.Context) (*usecase.TrialBalance, error)
}

// VoucherHandler handles voucher posting, reversal, and the trial balance.
type VoucherHandler struct {
	ledgerUC LedgerService
}

// NewVoucherHandler creates a new VoucherHandler.
func NewVoucherHandler(ledgerUC LedgerService) *VoucherHandler {
	return &VoucherHandler{ledgerUC: ledgerUC}
}

// Post posts a balanced voucher to the ledger.
func (h *VoucherHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	voucher, err := h.ledgerUC.PostVoucher(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.VoucherFromDomain(voucher))
}

// Get retrieves a voucher by ID.
func (h *VoucherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing voucher ID", "")
		return
	}

	voucher, err := h.ledgerUC.GetVoucher(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.VoucherFromDomain(voucher))
}

// Reverse posts a mirror voucher undoing an earlier one.
func (h *VoucherHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing voucher ID", "")
		return
	}

	var req dto.ReverseVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	voucher, err := h.ledgerUC.ReverseVoucher(r.Context(), id, req.Date, req.Narration)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reverse voucher", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.VoucherFromDomain(voucher))
}

// TrialBalance reports whether the ledger's debits equal its credits.
func (h *VoucherHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	tb, err := h.ledgerUC.CheckTrialBalance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceResponse{
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		Consistent:  tb.Consistent,
	})
}
