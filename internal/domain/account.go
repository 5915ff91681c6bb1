package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StatementAttribute classifies an income-statement account for P&L
// bucketing. At most one attribute may be set on an account.
type StatementAttribute string

const (
	AttrNone                 StatementAttribute = ""
	AttrOperating            StatementAttribute = "operating"
	AttrDeduction            StatementAttribute = "deduction"
	AttrSalesTax             StatementAttribute = "salesTax"
	AttrCost                 StatementAttribute = "cost"
	AttrNonOperatingTax      StatementAttribute = "nonOperatingTax"
	AttrIncomeTax            StatementAttribute = "incomeTax"
	AttrDividends            StatementAttribute = "dividends"
	AttrProfitFromAssociates StatementAttribute = "profitFromAssociates"
)

// StatementAttributes lists the attribute vocabulary in a fixed order.
var StatementAttributes = []StatementAttribute{
	AttrOperating,
	AttrDeduction,
	AttrSalesTax,
	AttrCost,
	AttrNonOperatingTax,
	AttrIncomeTax,
	AttrDividends,
	AttrProfitFromAssociates,
}

// Account is a node in a chart's account tree. Accounts start analytic
// (postable leaves) and flip to synthetic the moment a child is inserted
// under them; the pair is mutually exclusive and maintained by the system,
// never by the caller.
type Account struct {
	ID              string
	ChartID         string
	Number          string
	Name            string
	ParentID        string
	BalanceSheet    bool
	IncomeStatement bool
	DebitBalance    bool
	CreditBalance   bool
	Attribute       StatementAttribute
	Analytic        bool
	Synthetic       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EntrySide identifies which side of a transaction an entry belongs to.
type EntrySide int

const (
	DebitSide EntrySide = iota
	CreditSide
)

// BalanceIncrement returns the signed effect of an entry on an account's
// balance: positive when the entry side matches the account's normal balance
// nature, negative otherwise. The aggregation engine and the per-account
// ledger share this function so their sign conventions cannot diverge.
func BalanceIncrement(account *Account, value decimal.Decimal, side EntrySide) decimal.Decimal {
	if (side == DebitSide) == account.DebitBalance {
		return value
	}
	return value.Neg()
}

// AccountSpec carries caller-provided account data prior to validation.
// Attributes is the set of income-statement attribute flags the caller set;
// a valid spec has at most one.
type AccountSpec struct {
	Number           string
	Name             string
	ParentID         string
	BalanceSheet     bool
	IncomeStatement  bool
	DebitBalance     bool
	CreditBalance    bool
	Attributes       []StatementAttribute
	RetainedEarnings bool
}

// Validate runs the field-level account checks in their fixed order. Parent
// checks require a fetched parent and live in ValidateAgainstParent; the
// caller must run them when ParentID is set.
func (s *AccountSpec) Validate() error {
	if len(strings.TrimSpace(s.Number)) == 0 {
		return NewValidationError("The number must be informed")
	}
	if len(strings.TrimSpace(s.Name)) == 0 {
		return NewValidationError("The name must be informed")
	}
	if !s.BalanceSheet && !s.IncomeStatement {
		return NewValidationError("The financial statement must be informed")
	}
	if s.BalanceSheet && s.IncomeStatement {
		return NewValidationError("The statement must be either balance sheet or income statement")
	}
	if !s.DebitBalance && !s.CreditBalance {
		return NewValidationError("The normal balance must be informed")
	}
	if s.DebitBalance && s.CreditBalance {
		return NewValidationError("The normal balance must be either debit or credit")
	}
	if len(s.Attributes) > 1 {
		return NewValidationError("Only one income statement attribute is allowed")
	}
	return nil
}

// ValidateAgainstParent checks the structural invariants between a spec and
// its already-fetched parent: the number prefix rule and the inherited
// property set (financial statement, income-statement attribute, normal
// balance nature), each of which must be mirrored on the child when present
// on the parent.
func (s *AccountSpec) ValidateAgainstParent(parent *Account) error {
	if !strings.HasPrefix(s.Number, parent.Number) {
		return NewValidationError("The number must start with parent's number")
	}
	if parent.BalanceSheet != s.BalanceSheet || parent.IncomeStatement != s.IncomeStatement {
		return NewValidationError("The financial statement must be same as the parent")
	}
	if parent.Attribute != AttrNone && parent.Attribute != s.Attribute() {
		return NewValidationError("The income statement attribute must be same as the parent")
	}
	if parent.DebitBalance != s.DebitBalance || parent.CreditBalance != s.CreditBalance {
		return NewValidationError("The normal balance must be same as the parent")
	}
	return nil
}

// Attribute returns the single income-statement attribute of a validated
// spec, or AttrNone.
func (s *AccountSpec) Attribute() StatementAttribute {
	if len(s.Attributes) == 0 {
		return AttrNone
	}
	return s.Attributes[0]
}
