package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobooks/internal/domain"
)

// ChartRepository implements usecase.ChartRepository.
type ChartRepository struct {
	pool *pgxpool.Pool
}

// NewChartRepository creates a new ChartRepository.
func NewChartRepository(pool *pgxpool.Pool) *ChartRepository {
	return &ChartRepository{pool: pool}
}

// Create creates a new chart of accounts.
func (r *ChartRepository) Create(ctx context.Context, chart *domain.ChartOfAccounts) error {
	query := `
		INSERT INTO charts_of_accounts (id, name, retained_earnings_account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		chart.ID,
		chart.Name,
		nullableText(chart.RetainedEarningsAccountID),
		chart.CreatedAt,
		chart.UpdatedAt,
	)

	return err
}

// GetByID retrieves a chart by ID.
func (r *ChartRepository) GetByID(ctx context.Context, id string) (*domain.ChartOfAccounts, error) {
	query := `
		SELECT id, name, retained_earnings_account_id, created_at, updated_at
		FROM charts_of_accounts
		WHERE id = $1
	`

	chart, err := scanChart(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrChartNotFound
	}

	return chart, err
}

// List lists all charts ordered by name.
func (r *ChartRepository) List(ctx context.Context) ([]*domain.ChartOfAccounts, error) {
	query := `
		SELECT id, name, retained_earnings_account_id, created_at, updated_at
		FROM charts_of_accounts
		ORDER BY name, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	charts := make([]*domain.ChartOfAccounts, 0)
	for rows.Next() {
		chart, err := scanChart(rows)
		if err != nil {
			return nil, err
		}
		charts = append(charts, chart)
	}

	return charts, rows.Err()
}

// SetRetainedEarnings points the chart at its retained-earnings account.
// An empty accountID clears the designation.
func (r *ChartRepository) SetRetainedEarnings(ctx context.Context, chartID, accountID string) error {
	query := `
		UPDATE charts_of_accounts
		SET retained_earnings_account_id = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, chartID, nullableText(accountID), time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChartNotFound
	}

	return nil
}

func scanChart(row pgx.Row) (*domain.ChartOfAccounts, error) {
	var (
		chart            domain.ChartOfAccounts
		retainedEarnings pgtype.Text
	)

	err := row.Scan(
		&chart.ID,
		&chart.Name,
		&retainedEarnings,
		&chart.CreatedAt,
		&chart.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	chart.RetainedEarningsAccountID = retainedEarnings.String

	return &chart, nil
}

func nullableText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
