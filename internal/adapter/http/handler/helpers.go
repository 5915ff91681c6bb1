package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error onto status and body. Validation
// failures carry their message verbatim; missing resources map to 404 except
// the parent reference, which arrives in the request body and is the
// caller's mistake.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeError(w, http.StatusBadRequest, "validation failed", err.Error())
	case errors.Is(err, domain.ErrParentNotFound):
		writeError(w, http.StatusBadRequest, "parent account not found", err.Error())
	case errors.Is(err, domain.ErrChartNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "not found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

// parseDateQuery parses a YYYY-MM-DD query parameter, falling back to a
// default when absent. The bool result reports whether the value parsed.
func parseDateQuery(r *http.Request, key string, defaultValue time.Time) (time.Time, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue, true
	}
	t, err := time.Parse(dto.DateLayout, val)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
