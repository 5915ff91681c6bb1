package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one leg of a transaction: a positive value posted against an
// analytic account.
type Entry struct {
	AccountID string
	Value     decimal.Decimal
}

// Transaction is an immutable double-entry record scoped to one chart of
// accounts. RecordedAt is assigned at insert time and breaks ties between
// transactions sharing a date, so replay order is deterministic.
type Transaction struct {
	ID         string
	ChartID    string
	Debits     []Entry
	Credits    []Entry
	Date       time.Time
	RecordedAt time.Time
	Memo       string
}

// ValidateBasic runs the transaction checks that need no account lookups, in
// their fixed order. Per-entry account checks and the sum-equality check are
// driven by the caller, which owns the account set.
func (t *Transaction) ValidateBasic() error {
	if len(t.Debits) == 0 {
		return NewValidationError("At least one debit must be informed")
	}
	if len(t.Credits) == 0 {
		return NewValidationError("At least one credit must be informed")
	}
	if t.Date.IsZero() {
		return NewValidationError("The date must be informed")
	}
	if len(strings.TrimSpace(t.Memo)) == 0 {
		return NewValidationError("The memo must be informed")
	}
	return nil
}

// ValidateEntry checks one entry against its resolved account, value first,
// then the account reference. The account may be nil when the reference is
// dangling.
func ValidateEntry(e Entry, account *Account) error {
	if !e.Value.IsPositive() {
		return NewValidationError("The value of each entry must be positive")
	}
	if e.AccountID == "" {
		return NewValidationError("The account must be informed for each entry")
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if !account.Analytic {
		return NewValidationError("The account must be analytic")
	}
	return nil
}

// SumEntries adds up one side of a transaction.
func SumEntries(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Value)
	}
	return sum
}

// SortTransactions orders transactions by date ascending, recording
// timestamp breaking ties. Running balances are only correct when entries
// sharing a date replay in insertion order.
func SortTransactions(transactions []*Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.Before(transactions[j].Date)
		}
		return transactions[i].RecordedAt.Before(transactions[j].RecordedAt)
	})
}
