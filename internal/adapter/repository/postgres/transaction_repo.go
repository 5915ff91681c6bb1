package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

const (
	sideDebit  = "debit"
	sideCredit = "credit"
)

// TransactionRepository implements usecase.TransactionRepository. A ledger
// transaction is one row in transactions plus its entry rows; the two tables
// are only ever written together, inside one database transaction.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction and its entries atomically.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO transactions (chart_id, id, date, recorded_at, memo)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = tx.Exec(ctx, query,
		transaction.ChartID,
		transaction.ID,
		transaction.Date,
		transaction.RecordedAt,
		transaction.Memo,
	)
	if err != nil {
		return err
	}

	if err := insertEntries(ctx, tx, transaction); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Replace rewrites a transaction in place: the row is updated and the entry
// set is replaced wholesale, atomically.
func (r *TransactionRepository) Replace(ctx context.Context, transaction *domain.Transaction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE transactions
		SET date = $3, recorded_at = $4, memo = $5
		WHERE chart_id = $1 AND id = $2
	`

	tag, err := tx.Exec(ctx, query,
		transaction.ChartID,
		transaction.ID,
		transaction.Date,
		transaction.RecordedAt,
		transaction.Memo,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM transaction_entries WHERE chart_id = $1 AND transaction_id = $2`,
		transaction.ChartID, transaction.ID)
	if err != nil {
		return err
	}

	if err := insertEntries(ctx, tx, transaction); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a transaction with its entries.
func (r *TransactionRepository) GetByID(ctx context.Context, chartID, id string) (*domain.Transaction, error) {
	query := `
		SELECT chart_id, id, date, recorded_at, memo
		FROM transactions
		WHERE chart_id = $1 AND id = $2
	`

	transaction, err := scanTransaction(r.pool.QueryRow(ctx, query, chartID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachEntries(ctx, chartID, []*domain.Transaction{transaction}); err != nil {
		return nil, err
	}

	return transaction, nil
}

// List lists all of a chart's transactions in ledger order.
func (r *TransactionRepository) List(ctx context.Context, chartID string) ([]*domain.Transaction, error) {
	query := `
		SELECT chart_id, id, date, recorded_at, memo
		FROM transactions
		WHERE chart_id = $1
		ORDER BY date, recorded_at, id
	`

	return r.queryTransactions(ctx, chartID, query, chartID)
}

// ListByDateRange lists a chart's transactions dated within [from, to],
// inclusive, in ledger order.
func (r *TransactionRepository) ListByDateRange(ctx context.Context, chartID string, from, to time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT chart_id, id, date, recorded_at, memo
		FROM transactions
		WHERE chart_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, recorded_at, id
	`

	return r.queryTransactions(ctx, chartID, query, chartID, from, to)
}

// ListByAccount lists the transactions within [from, to] that have at least
// one entry against the account, in ledger order.
func (r *TransactionRepository) ListByAccount(ctx context.Context, chartID, accountID string, from, to time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT DISTINCT t.chart_id, t.id, t.date, t.recorded_at, t.memo
		FROM transactions t
		JOIN transaction_entries e ON e.chart_id = t.chart_id AND e.transaction_id = t.id
		WHERE t.chart_id = $1 AND e.account_id = $2 AND t.date >= $3 AND t.date <= $4
		ORDER BY t.date, t.recorded_at, t.id
	`

	return r.queryTransactions(ctx, chartID, query, chartID, accountID, from, to)
}

// HasEntriesFor reports whether any entry references the account.
func (r *TransactionRepository) HasEntriesFor(ctx context.Context, chartID, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transaction_entries WHERE chart_id = $1 AND account_id = $2
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, chartID, accountID).Scan(&exists)

	return exists, err
}

// Delete removes a transaction; its entries go with it via ON DELETE CASCADE.
func (r *TransactionRepository) Delete(ctx context.Context, chartID, id string) error {
	query := `DELETE FROM transactions WHERE chart_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, chartID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, chartID, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachEntries(ctx, chartID, transactions); err != nil {
		return nil, err
	}

	return transactions, nil
}

// attachEntries loads the entry rows for a batch of transactions in one
// query and distributes them onto the debit and credit sides in seq order.
func (r *TransactionRepository) attachEntries(ctx context.Context, chartID string, transactions []*domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	ids := make([]string, len(transactions))
	byID := make(map[string]*domain.Transaction, len(transactions))
	for i, t := range transactions {
		ids[i] = t.ID
		byID[t.ID] = t
	}

	query := `
		SELECT transaction_id, side, account_id, value
		FROM transaction_entries
		WHERE chart_id = $1 AND transaction_id = ANY($2)
		ORDER BY transaction_id, side, seq
	`

	rows, err := r.pool.Query(ctx, query, chartID, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			transactionID string
			side          string
			accountID     string
			value         pgtype.Numeric
		)
		if err := rows.Scan(&transactionID, &side, &accountID, &value); err != nil {
			return err
		}

		transaction := byID[transactionID]
		if transaction == nil {
			continue
		}

		entry := domain.Entry{AccountID: accountID, Value: numericToDecimal(value)}
		if side == sideDebit {
			transaction.Debits = append(transaction.Debits, entry)
		} else {
			transaction.Credits = append(transaction.Credits, entry)
		}
	}

	return rows.Err()
}

func insertEntries(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error {
	query := `
		INSERT INTO transaction_entries (chart_id, transaction_id, side, seq, account_id, value)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	insert := func(entries []domain.Entry, side string) error {
		for seq, e := range entries {
			_, err := tx.Exec(ctx, query,
				transaction.ChartID,
				transaction.ID,
				side,
				seq,
				e.AccountID,
				decimalToNumeric(e.Value),
			)
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := insert(transaction.Debits, sideDebit); err != nil {
		return err
	}

	return insert(transaction.Credits, sideCredit)
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var transaction domain.Transaction

	err := row.Scan(
		&transaction.ChartID,
		&transaction.ID,
		&transaction.Date,
		&transaction.RecordedAt,
		&transaction.Memo,
	)
	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
