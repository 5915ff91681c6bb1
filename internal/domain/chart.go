package domain

import (
	"strings"
	"time"
)

// ChartOfAccounts is a named, self-contained hierarchy of accounts plus its
// transaction ledger. Accounts have no existence outside their chart.
type ChartOfAccounts struct {
	ID                        string
	Name                      string
	RetainedEarningsAccountID string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// Validate checks chart invariants.
func (c *ChartOfAccounts) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return NewValidationError("The name must be informed")
	}
	return nil
}
