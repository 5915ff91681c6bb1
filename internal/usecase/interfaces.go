package usecase

import (
	"context"
	"time"

	"github.com/iho/gobooks/internal/domain"
)

// ChartRepository defines data access for charts of accounts.
type ChartRepository interface {
	Create(ctx context.Context, chart *domain.ChartOfAccounts) error
	GetByID(ctx context.Context, id string) (*domain.ChartOfAccounts, error)
	List(ctx context.Context) ([]*domain.ChartOfAccounts, error)
	// SetRetainedEarnings points the chart at its designated retained-earnings
	// account; an empty accountID clears the pointer.
	SetRetainedEarnings(ctx context.Context, chartID, accountID string) error
}

// AccountRepository defines data access for accounts within a chart.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, chartID, id string) (*domain.Account, error)
	GetByNumber(ctx context.Context, chartID, number string) (*domain.Account, error)
	// List returns the chart's accounts ordered by number.
	List(ctx context.Context, chartID string) ([]*domain.Account, error)
	// MarkSynthetic flips an account to synthetic/non-analytic. It runs in
	// the same database transaction as the child insert so no reader observes
	// an analytic parent with a posted child.
	MarkSynthetic(ctx context.Context, tx Transaction, chartID, id string) error
	HasChildren(ctx context.Context, chartID, id string) (bool, error)
	Delete(ctx context.Context, chartID, id string) error
}

// TransactionRepository defines data access for one chart's ledger partition.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	// Replace validates-then-replaces the whole document; there is no partial
	// edit of a stored transaction.
	Replace(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, chartID, id string) (*domain.Transaction, error)
	List(ctx context.Context, chartID string) ([]*domain.Transaction, error)
	// ListByDateRange returns transactions with date in [from, to] ordered by
	// (date, recorded_at) ascending.
	ListByDateRange(ctx context.Context, chartID string, from, to time.Time) ([]*domain.Transaction, error)
	// ListByAccount returns transactions touching the account within [from, to],
	// ordered by (date, recorded_at) ascending.
	ListByAccount(ctx context.Context, chartID, accountID string, from, to time.Time) ([]*domain.Transaction, error)
	HasEntriesFor(ctx context.Context, chartID, accountID string) (bool, error)
	Delete(ctx context.Context, chartID, id string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles database transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Retrier retries an operation on transient storage failures. Retry policy
// belongs to the storage adapter, not the core.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
