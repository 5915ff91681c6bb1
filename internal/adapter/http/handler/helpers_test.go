package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
)

func TestParseDateQuery(t *testing.T) {
	def := time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)

	req := httptest.NewRequest(http.MethodGet, "/reports?at=2013-05-01", nil)
	got, ok := parseDateQuery(req, "at", def)
	if !ok || !got.Equal(time.Date(2013, time.May, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected 2013-05-01, got %v (ok=%v)", got, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/reports", nil)
	got, ok = parseDateQuery(req, "at", def)
	if !ok || !got.Equal(def) {
		t.Fatalf("expected default when missing, got %v (ok=%v)", got, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/reports?at=yesterday", nil)
	if _, ok = parseDateQuery(req, "at", def); ok {
		t.Fatalf("expected malformed date to fail")
	}
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation failure", domain.NewValidationError("The number must be informed"), http.StatusBadRequest},
		{"parent not found", domain.ErrParentNotFound, http.StatusBadRequest},
		{"chart not found", domain.ErrChartNotFound, http.StatusNotFound},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeDomainError(rr, tt.err)
			if rr.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rr.Code)
			}
		})
	}
}

func TestWriteDomainError_ValidationMessagePassesThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	writeDomainError(rr, domain.NewValidationError("The account must be analytic"))

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Message != "The account must be analytic" {
		t.Fatalf("expected message to pass through, got %+v", resp)
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

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}
