package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

const accountColumns = `chart_id, id, number, name, parent_id, balance_sheet, income_statement,
		debit_balance, credit_balance, attribute, analytic, synthetic, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository. Accounts are keyed
// by (chart_id, id) so every query is scoped to one chart.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account inside tx, so the insert and the parent's
// analytic-to-synthetic flip commit together.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := pgxTx.Exec(ctx, query,
		account.ChartID,
		account.ID,
		account.Number,
		account.Name,
		nullableText(account.ParentID),
		account.BalanceSheet,
		account.IncomeStatement,
		account.DebitBalance,
		account.CreditBalance,
		string(account.Attribute),
		account.Analytic,
		account.Synthetic,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

// Update rewrites the caller-editable account fields. Structural fields
// (parent, analytic, synthetic) are managed by the system and never updated
// here.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET number = $3, name = $4, balance_sheet = $5, income_statement = $6,
		    debit_balance = $7, credit_balance = $8, attribute = $9, updated_at = $10
		WHERE chart_id = $1 AND id = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		account.ChartID,
		account.ID,
		account.Number,
		account.Name,
		account.BalanceSheet,
		account.IncomeStatement,
		account.DebitBalance,
		account.CreditBalance,
		string(account.Attribute),
		account.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// GetByID retrieves an account by ID within a chart.
func (r *AccountRepository) GetByID(ctx context.Context, chartID, id string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE chart_id = $1 AND id = $2
	`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, chartID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}

	return account, err
}

// GetByNumber retrieves an account by its number within a chart.
func (r *AccountRepository) GetByNumber(ctx context.Context, chartID, number string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE chart_id = $1 AND number = $2
	`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, chartID, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}

	return account, err
}

// List lists a chart's accounts ordered by number.
func (r *AccountRepository) List(ctx context.Context, chartID string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE chart_id = $1
		ORDER BY number
	`

	rows, err := r.pool.Query(ctx, query, chartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// MarkSynthetic flips an account from analytic to synthetic inside tx.
func (r *AccountRepository) MarkSynthetic(ctx context.Context, tx usecase.Transaction, chartID, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE accounts
		SET analytic = FALSE, synthetic = TRUE, updated_at = $3
		WHERE chart_id = $1 AND id = $2
	`

	tag, err := pgxTx.Exec(ctx, query, chartID, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// HasChildren reports whether any account lists this one as its parent.
func (r *AccountRepository) HasChildren(ctx context.Context, chartID, id string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounts WHERE chart_id = $1 AND parent_id = $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, chartID, id).Scan(&exists)

	return exists, err
}

// Delete removes an account.
func (r *AccountRepository) Delete(ctx context.Context, chartID, id string) error {
	query := `DELETE FROM accounts WHERE chart_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, chartID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		parentID  pgtype.Text
		attribute string
	)

	err := row.Scan(
		&account.ChartID,
		&account.ID,
		&account.Number,
		&account.Name,
		&parentID,
		&account.BalanceSheet,
		&account.IncomeStatement,
		&account.DebitBalance,
		&account.CreditBalance,
		&attribute,
		&account.Analytic,
		&account.Synthetic,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.ParentID = parentID.String
	account.Attribute = domain.StatementAttribute(attribute)

	return &account, nil
}
