package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/avnish/coldledger/internal/adapter/http/dto"
	"github.com/avnish/coldledger/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/accounts?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/accounts?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParseDateQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/daybook?date=2025-11-10", nil)
	got, err := parseDateQuery(req, "date")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/daybook", nil)
	got, err = parseDateQuery(req, "date")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero time when missing, got %v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/daybook?date=10-11-2025", nil)
	if _, err := parseDateQuery(req, "date"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"voucher not found", domain.ErrVoucherNotFound, http.StatusNotFound},
		{"bill not found", domain.ErrBillNotFound, http.StatusNotFound},
		{"lot not found", domain.ErrLotNotFound, http.StatusNotFound},
		{"config not found", domain.ErrConfigNotFound, http.StatusNotFound},
		{"duplicate billing", domain.ErrDuplicateBilling, http.StatusConflict},
		{"already reversed", domain.ErrAlreadyReversed, http.StatusConflict},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusConflict},
		{"books closed", domain.ErrBooksClosed, http.StatusConflict},
		{"account exists", domain.ErrAccountExists, http.StatusConflict},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"unbalanced voucher", domain.ErrUnbalancedVoucher, http.StatusBadRequest},
		{"not a party", domain.ErrNotPartyAccount, http.StatusBadRequest},
		{"invalid date range", domain.ErrInvalidDateRange, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusConflict, "already billed", "lot-1 2025-11")

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error != "already billed" || resp.Message != "lot-1 2025-11" {
		t.Fatalf("unexpected error payload: %+v", resp)
	}
}
