package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
)

// ChartService defines the behavior needed by ChartHandler.
type ChartService interface {
	CreateChart(ctx context.Context, name string) (*domain.ChartOfAccounts, error)
	GetChart(ctx context.Context, id string) (*domain.ChartOfAccounts, error)
	ListCharts(ctx context.Context) ([]*domain.ChartOfAccounts, error)
	UnsetRetainedEarnings(ctx context.Context, chartID string) error
}

// ChartHandler handles chart-of-accounts HTTP requests.
type ChartHandler struct {
	chartUC ChartService
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(chartUC ChartService) *ChartHandler {
	return &ChartHandler{chartUC: chartUC}
}

// Create creates a new chart of accounts.
func (h *ChartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	chart, err := h.chartUC.CreateChart(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ChartFromDomain(chart))
}

// Get retrieves a chart by ID.
func (h *ChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	chart, err := h.chartUC.GetChart(r.Context(), chi.URLParam(r, "chartID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChartFromDomain(chart))
}

// List lists all charts.
func (h *ChartHandler) List(w http.ResponseWriter, r *http.Request) {
	charts, err := h.chartUC.ListCharts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChartsFromDomain(charts))
}

// UnsetRetainedEarnings clears the chart's retained-earnings designation.
func (h *ChartHandler) UnsetRetainedEarnings(w http.ResponseWriter, r *http.Request) {
	if err := h.chartUC.UnsetRetainedEarnings(r.Context(), chi.URLParam(r, "chartID")); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
