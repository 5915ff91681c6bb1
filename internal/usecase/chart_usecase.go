package usecase

import (
	"context"
	"time"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// ChartUseCase handles chart-of-accounts business logic.
type ChartUseCase struct {
	chartRepo ChartRepository
	idGen     IDGenerator
	metrics   *metrics.Metrics
}

// NewChartUseCase creates a new ChartUseCase.
func NewChartUseCase(chartRepo ChartRepository, idGen IDGenerator, metrics *metrics.Metrics) *ChartUseCase {
	return &ChartUseCase{
		chartRepo: chartRepo,
		idGen:     idGen,
		metrics:   metrics,
	}
}

// CreateChart creates a new chart of accounts with an empty account set.
func (uc *ChartUseCase) CreateChart(ctx context.Context, name string) (*domain.ChartOfAccounts, error) {
	now := time.Now().UTC()

	chart := &domain.ChartOfAccounts{
		ID:        uc.idGen.Generate(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := chart.Validate(); err != nil {
		return nil, err
	}

	if err := uc.chartRepo.Create(ctx, chart); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ChartsCreated.Inc()
	}

	return chart, nil
}

// GetChart retrieves a chart by ID.
func (uc *ChartUseCase) GetChart(ctx context.Context, id string) (*domain.ChartOfAccounts, error) {
	return uc.chartRepo.GetByID(ctx, id)
}

// ListCharts lists all charts ordered by name.
func (uc *ChartUseCase) ListCharts(ctx context.Context) ([]*domain.ChartOfAccounts, error) {
	return uc.chartRepo.List(ctx)
}

// UnsetRetainedEarnings clears the chart's designated retained-earnings
// account. Setting a new one does not auto-clear the old, so the unset is an
// explicit operation.
func (uc *ChartUseCase) UnsetRetainedEarnings(ctx context.Context, chartID string) error {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return err
	}
	return uc.chartRepo.SetRetainedEarnings(ctx, chartID, "")
}
