package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// ChartResponse represents a chart of accounts in API responses.
type ChartResponse struct {
	ID                        string    `json:"id"`
	Name                      string    `json:"name"`
	RetainedEarningsAccountID string    `json:"retained_earnings_account_id,omitempty"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// ChartFromDomain converts a domain chart to a response.
func ChartFromDomain(c *domain.ChartOfAccounts) *ChartResponse {
	return &ChartResponse{
		ID:                        c.ID,
		Name:                      c.Name,
		RetainedEarningsAccountID: c.RetainedEarningsAccountID,
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
}

// ChartsFromDomain converts domain charts to responses.
func ChartsFromDomain(charts []*domain.ChartOfAccounts) []*ChartResponse {
	result := make([]*ChartResponse, len(charts))
	for i, c := range charts {
		result[i] = ChartFromDomain(c)
	}
	return result
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID              string    `json:"id"`
	ChartID         string    `json:"chart_id"`
	Number          string    `json:"number"`
	Name            string    `json:"name"`
	ParentID        string    `json:"parent_id,omitempty"`
	BalanceSheet    bool      `json:"balance_sheet"`
	IncomeStatement bool      `json:"income_statement"`
	DebitBalance    bool      `json:"debit_balance"`
	CreditBalance   bool      `json:"credit_balance"`
	Attribute       string    `json:"attribute,omitempty"`
	Analytic        bool      `json:"analytic"`
	Synthetic       bool      `json:"synthetic"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		ChartID:         a.ChartID,
		Number:          a.Number,
		Name:            a.Name,
		ParentID:        a.ParentID,
		BalanceSheet:    a.BalanceSheet,
		IncomeStatement: a.IncomeStatement,
		DebitBalance:    a.DebitBalance,
		CreditBalance:   a.CreditBalance,
		Attribute:       string(a.Attribute),
		Analytic:        a.Analytic,
		Synthetic:       a.Synthetic,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// EntryResponse is one debit or credit line of a transaction response.
type EntryResponse struct {
	AccountID string          `json:"account_id"`
	Value     decimal.Decimal `json:"value"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID         string          `json:"id"`
	ChartID    string          `json:"chart_id"`
	Date       string          `json:"date"`
	RecordedAt time.Time       `json:"recorded_at"`
	Memo       string          `json:"memo"`
	Debits     []EntryResponse `json:"debits"`
	Credits    []EntryResponse `json:"credits"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:         t.ID,
		ChartID:    t.ChartID,
		Date:       t.Date.Format(DateLayout),
		RecordedAt: t.RecordedAt,
		Memo:       t.Memo,
		Debits:     entriesFromDomain(t.Debits),
		Credits:    entriesFromDomain(t.Credits),
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

func entriesFromDomain(entries []domain.Entry) []EntryResponse {
	result := make([]EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryResponse{AccountID: e.AccountID, Value: e.Value}
	}
	return result
}

// BalanceResponse is one account balance line of a balance report.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Analytic  bool            `json:"analytic"`
	Value     decimal.Decimal `json:"value"`
}

// BalancesFromUseCase converts balance results to responses.
func BalancesFromUseCase(balances []usecase.AccountBalance) []BalanceResponse {
	result := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceResponse{
			AccountID: b.Account.ID,
			Number:    b.Account.Number,
			Name:      b.Account.Name,
			Analytic:  b.Account.Analytic,
			Value:     b.Value,
		}
	}
	return result
}

// BucketResponse is one line of the income statement report.
type BucketResponse struct {
	Balance decimal.Decimal   `json:"balance"`
	Details []BalanceResponse `json:"details,omitempty"`
}

func bucketFromUseCase(b *usecase.Bucket) *BucketResponse {
	if b == nil {
		return nil
	}
	return &BucketResponse{
		Balance: b.Balance,
		Details: BalancesFromUseCase(b.Details),
	}
}

// IncomeStatementResponse represents the income statement report.
type IncomeStatementResponse struct {
	GrossRevenue          *BucketResponse `json:"gross_revenue,omitempty"`
	Deduction             *BucketResponse `json:"deduction,omitempty"`
	SalesTax              *BucketResponse `json:"sales_tax,omitempty"`
	NetRevenue            *BucketResponse `json:"net_revenue,omitempty"`
	Cost                  *BucketResponse `json:"cost,omitempty"`
	GrossProfit           *BucketResponse `json:"gross_profit,omitempty"`
	OperatingExpense      *BucketResponse `json:"operating_expense,omitempty"`
	NetOperatingIncome    *BucketResponse `json:"net_operating_income,omitempty"`
	NonOperatingRevenue   *BucketResponse `json:"non_operating_revenue,omitempty"`
	NonOperatingExpense   *BucketResponse `json:"non_operating_expense,omitempty"`
	NonOperatingTax       *BucketResponse `json:"non_operating_tax,omitempty"`
	IncomeBeforeIncomeTax *BucketResponse `json:"income_before_income_tax,omitempty"`
	IncomeTax             *BucketResponse `json:"income_tax,omitempty"`
	Dividends             *BucketResponse `json:"dividends,omitempty"`
	NetIncome             *BucketResponse `json:"net_income"`
}

// IncomeStatementFromUseCase converts the income statement to a response.
func IncomeStatementFromUseCase(st *usecase.IncomeStatement) *IncomeStatementResponse {
	return &IncomeStatementResponse{
		GrossRevenue:          bucketFromUseCase(st.GrossRevenue),
		Deduction:             bucketFromUseCase(st.Deduction),
		SalesTax:              bucketFromUseCase(st.SalesTax),
		NetRevenue:            bucketFromUseCase(st.NetRevenue),
		Cost:                  bucketFromUseCase(st.Cost),
		GrossProfit:           bucketFromUseCase(st.GrossProfit),
		OperatingExpense:      bucketFromUseCase(st.OperatingExpense),
		NetOperatingIncome:    bucketFromUseCase(st.NetOperatingIncome),
		NonOperatingRevenue:   bucketFromUseCase(st.NonOperatingRevenue),
		NonOperatingExpense:   bucketFromUseCase(st.NonOperatingExpense),
		NonOperatingTax:       bucketFromUseCase(st.NonOperatingTax),
		IncomeBeforeIncomeTax: bucketFromUseCase(st.IncomeBeforeIncomeTax),
		IncomeTax:             bucketFromUseCase(st.IncomeTax),
		Dividends:             bucketFromUseCase(st.Dividends),
		NetIncome:             bucketFromUseCase(st.NetIncome),
	}
}

// CounterpartResponse describes the opposite side of a ledger entry.
type CounterpartResponse struct {
	Number string `json:"number,omitempty"`
	Name   string `json:"name"`
	Many   bool   `json:"many,omitempty"`
}

// LedgerEntryResponse is one row of the ledger report.
type LedgerEntryResponse struct {
	TransactionID string              `json:"transaction_id"`
	Date          string              `json:"date"`
	Memo          string              `json:"memo"`
	Side          string              `json:"side"`
	Amount        decimal.Decimal     `json:"amount"`
	Balance       decimal.Decimal     `json:"balance"`
	Counterpart   CounterpartResponse `json:"counterpart"`
}

// LedgerResponse represents the per-account ledger report.
type LedgerResponse struct {
	Account        *AccountResponse      `json:"account"`
	OpeningBalance decimal.Decimal       `json:"opening_balance"`
	Entries        []LedgerEntryResponse `json:"entries"`
}

// LedgerFromUseCase converts the ledger report to a response.
func LedgerFromUseCase(ledger *usecase.Ledger) *LedgerResponse {
	entries := make([]LedgerEntryResponse, len(ledger.Entries))
	for i, e := range ledger.Entries {
		side := "debit"
		if e.Side == domain.CreditSide {
			side = "credit"
		}
		entries[i] = LedgerEntryResponse{
			TransactionID: e.TransactionID,
			Date:          e.Date.Format(DateLayout),
			Memo:          e.Memo,
			Side:          side,
			Amount:        e.Amount,
			Balance:       e.Balance,
			Counterpart: CounterpartResponse{
				Number: e.Counterpart.Number,
				Name:   e.Counterpart.Name,
				Many:   e.Counterpart.Many,
			},
		}
	}

	return &LedgerResponse{
		Account:        AccountFromDomain(ledger.Account),
		OpeningBalance: ledger.OpeningBalance,
		Entries:        entries,
	}
}

// JournalLineResponse is one annotated entry of a journal transaction.
type JournalLineResponse struct {
	AccountID string          `json:"account_id"`
	Number    string          `json:"number,omitempty"`
	Name      string          `json:"name,omitempty"`
	Value     decimal.Decimal `json:"value"`
}

// JournalEntryResponse is one transaction of the journal report.
type JournalEntryResponse struct {
	TransactionID string                `json:"transaction_id"`
	Date          string                `json:"date"`
	Memo          string                `json:"memo"`
	Debits        []JournalLineResponse `json:"debits"`
	Credits       []JournalLineResponse `json:"credits"`
}

// JournalFromUseCase converts the journal report to responses.
func JournalFromUseCase(journal []usecase.JournalEntry) []JournalEntryResponse {
	result := make([]JournalEntryResponse, len(journal))
	for i, entry := range journal {
		result[i] = JournalEntryResponse{
			TransactionID: entry.TransactionID,
			Date:          entry.Date.Format(DateLayout),
			Memo:          entry.Memo,
			Debits:        journalLinesFromUseCase(entry.Debits),
			Credits:       journalLinesFromUseCase(entry.Credits),
		}
	}
	return result
}

func journalLinesFromUseCase(lines []usecase.JournalLine) []JournalLineResponse {
	result := make([]JournalLineResponse, len(lines))
	for i, l := range lines {
		result[i] = JournalLineResponse{
			AccountID: l.AccountID,
			Number:    l.Number,
			Name:      l.Name,
			Value:     l.Value,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
