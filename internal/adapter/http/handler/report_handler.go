package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avnish/coldledger/internal/adapter/http/dto"
	"github.com/avnish/coldledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	GetDaybook(ctx context.Context, date time.Time) (*usecase.Daybook, error)
	GetPartyOutstanding(ctx context.Context, partyID string) (*usecase.PartyOutstanding, error)
	ListPartyOutstandings(ctx context.Context, limit, offset int) (debtors, creditors []*usecase.PartyOutstanding, err error)
}

// ReportHandler serves the daybook and party outstanding views.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Daybook returns the cash and bank movement for a date.
func (h *ReportHandler) Daybook(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}
	if date.IsZero() {
		date = time.Now()
	}

	daybook, err := h.reportUC.GetDaybook(r.Context(), date)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get daybook", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DaybookFromUseCase(daybook))
}

// PartyOutstanding returns a single party's current position.
func (h *ReportHandler) PartyOutstanding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	out, err := h.reportUC.GetPartyOutstanding(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get outstanding", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OutstandingFromUseCase(out))
}

// ListOutstandings buckets all parties into debtors and creditors.
func (h *ReportHandler) ListOutstandings(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	debtors, creditors, err := h.reportUC.ListPartyOutstandings(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list outstandings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PartyOutstandingsResponse{
		Debtors:   dto.OutstandingsFromUseCase(debtors),
		Creditors: dto.OutstandingsFromUseCase(creditors),
	})
}
