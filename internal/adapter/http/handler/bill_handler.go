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

// BillingService defines the behavior needed by BillHandler.
type BillingService interface {
	BuildBill(ctx context.Context, input usecase.BuildBillInput) (*domain.Bill, error)
	GetBill(ctx context.Context, id string) (*domain.Bill, error)
	ConfirmBill(ctx context.Context, billID string, date time.Time) (*domain.Bill, error)
	CancelBill(ctx context.Context, billID string, date time.Time) (*domain.Bill, error)
	CreateReceipt(ctx context.Context, input usecase.ReceiptInput) (*usecase.ReceiptResult, error)
	RunBatch(ctx context.Context, period string, asOf time.Time) (*usecase.BatchResult, error)
}

// BillHandler handles bill lifecycle and receipt HTTP requests.
type BillHandler struct {
	billingUC BillingService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billingUC BillingService) *BillHandler {
	return &BillHandler{billingUC: billingUC}
}

// Build drafts a rent bill for the requested lots.
func (h *BillHandler) Build(w http.ResponseWriter, r *http.Request) {
	var req dto.BuildBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	bill, err := h.billingUC.BuildBill(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build bill", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BillFromDomain(bill))
}

// Get retrieves a bill by ID.
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bill ID", "")
		return
	}

	bill, err := h.billingUC.GetBill(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get bill", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BillFromDomain(bill))
}

// Confirm posts a draft bill to the ledger.
func (h *BillHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.billingUC.ConfirmBill, "failed to confirm bill")
}

// Cancel cancels a bill, reversing its voucher if one was posted.
func (h *BillHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.billingUC.CancelBill, "failed to cancel bill")
}

func (h *BillHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, billID string, date time.Time) (*domain.Bill, error),
	errMsg string,
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bill ID", "")
		return
	}

	var req dto.BillActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	bill, err := op(r.Context(), id, req.Date)
	if err != nil {
		writeError(w, mapDomainError(err), errMsg, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BillFromDomain(bill))
}

// CreateReceipt records a party payment and allocates it against open bills.
func (h *BillHandler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	var req dto.ReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	result, err := h.billingUC.CreateReceipt(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create receipt", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReceiptFromResult(result))
}

// RunBatch bills every open lot for the requested period.
func (h *BillHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.RunBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.AsOf.IsZero() {
		req.AsOf = time.Now()
	}

	result, err := h.billingUC.RunBatch(r.Context(), req.Period, req.AsOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to run batch billing", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BatchResultResponse{
		Period:  result.Period,
		Billed:  result.Billed,
		Skipped: result.Skipped,
		Errors:  result.Errors,
	})
}
