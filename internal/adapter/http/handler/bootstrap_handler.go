package handler

import (
	"context"
	"net/http"
)

// BootstrapService installs the base chart of accounts.
type BootstrapService interface {
	EnsureChartOfAccounts(ctx context.Context) (int, error)
}

// BootstrapHandler handles chart-of-accounts seeding requests.
type BootstrapHandler struct {
	bootstrapUC BootstrapService
}

// NewBootstrapHandler creates a new BootstrapHandler.
func NewBootstrapHandler(bootstrapUC BootstrapService) *BootstrapHandler {
	return &BootstrapHandler{bootstrapUC: bootstrapUC}
}

// Seed installs any missing base accounts. Safe to call repeatedly.
func (h *BootstrapHandler) Seed(w http.ResponseWriter, r *http.Request) {
	created, err := h.bootstrapUC.EnsureChartOfAccounts(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to seed chart of accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
