package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/avnish/coldledger/internal/adapter/http/dto"
	"github.com/avnish/coldledger/internal/domain"
)

// RentService defines the behavior needed by RentHandler.
type RentService interface {
	ComputeRentCharge(ctx context.Context, lotID string, asOf time.Time) (*domain.RentCharge, error)
	ComputeDispatchRentCharge(ctx context.Context, lotID, dispatchID string) (*domain.RentCharge, error)
}

// RentHandler serves rent quotes. Quotes are pure computations and never
// touch the ledger.
type RentHandler struct {
	rentUC RentService
}

// NewRentHandler creates a new RentHandler.
func NewRentHandler(rentUC RentService) *RentHandler {
	return &RentHandler{rentUC: rentUC}
}

// Quote computes the rent accrued on a lot's full quantity as of a date.
func (h *RentHandler) Quote(w http.ResponseWriter, r *http.Request) {
	lotID := r.URL.Query().Get("lot_id")
	if lotID == "" {
		writeError(w, http.StatusBadRequest, "missing lot_id", "")
		return
	}

	asOf, err := parseDateQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	charge, err := h.rentUC.ComputeRentCharge(r.Context(), lotID, asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute rent", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RentChargeFromDomain(charge))
}

// DispatchQuote computes the rent attributable to a single dispatch.
func (h *RentHandler) DispatchQuote(w http.ResponseWriter, r *http.Request) {
	lotID := r.URL.Query().Get("lot_id")
	dispatchID := r.URL.Query().Get("dispatch_id")
	if lotID == "" || dispatchID == "" {
		writeError(w, http.StatusBadRequest, "missing lot_id or dispatch_id", "")
		return
	}

	charge, err := h.rentUC.ComputeDispatchRentCharge(r.Context(), lotID, dispatchID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute dispatch rent", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RentChargeFromDomain(charge))
}
