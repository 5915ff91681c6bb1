package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// DateLayout is the wire format for transaction and report dates.
const DateLayout = "2006-01-02"

// CreateChartRequest represents a request to create a chart of accounts.
type CreateChartRequest struct {
	Name string `json:"name"`
}

// AccountRequest represents a request to create or update an account. The
// income statement attributes are independent flags on the wire; validation
// rejects more than one.
type AccountRequest struct {
	Number          string `json:"number"`
	Name            string `json:"name"`
	ParentID        string `json:"parent_id,omitempty"`
	BalanceSheet    bool   `json:"balance_sheet"`
	IncomeStatement bool   `json:"income_statement"`
	DebitBalance    bool   `json:"debit_balance"`
	CreditBalance   bool   `json:"credit_balance"`

	Operating            bool `json:"operating,omitempty"`
	Deduction            bool `json:"deduction,omitempty"`
	SalesTax             bool `json:"sales_tax,omitempty"`
	Cost                 bool `json:"cost,omitempty"`
	NonOperatingTax      bool `json:"non_operating_tax,omitempty"`
	IncomeTax            bool `json:"income_tax,omitempty"`
	Dividends            bool `json:"dividends,omitempty"`
	ProfitFromAssociates bool `json:"profit_from_associates,omitempty"`

	RetainedEarnings bool `json:"retained_earnings,omitempty"`
}

// ToSpec converts to the domain account spec.
func (r *AccountRequest) ToSpec() domain.AccountSpec {
	spec := domain.AccountSpec{
		Number:           r.Number,
		Name:             r.Name,
		ParentID:         r.ParentID,
		BalanceSheet:     r.BalanceSheet,
		IncomeStatement:  r.IncomeStatement,
		DebitBalance:     r.DebitBalance,
		CreditBalance:    r.CreditBalance,
		RetainedEarnings: r.RetainedEarnings,
	}

	flags := []struct {
		set  bool
		attr domain.StatementAttribute
	}{
		{r.Operating, domain.AttrOperating},
		{r.Deduction, domain.AttrDeduction},
		{r.SalesTax, domain.AttrSalesTax},
		{r.Cost, domain.AttrCost},
		{r.NonOperatingTax, domain.AttrNonOperatingTax},
		{r.IncomeTax, domain.AttrIncomeTax},
		{r.Dividends, domain.AttrDividends},
		{r.ProfitFromAssociates, domain.AttrProfitFromAssociates},
	}
	for _, f := range flags {
		if f.set {
			spec.Attributes = append(spec.Attributes, f.attr)
		}
	}

	return spec
}

// EntryRequest is one debit or credit line of a transaction request. Account
// takes an account ID or an account number.
type EntryRequest struct {
	Account string          `json:"account"`
	Value   decimal.Decimal `json:"value"`
}

// TransactionRequest represents a request to record or replace a transaction.
type TransactionRequest struct {
	Date    string         `json:"date"`
	Memo    string         `json:"memo"`
	Debits  []EntryRequest `json:"debits"`
	Credits []EntryRequest `json:"credits"`
}

// ToUseCaseInput converts to use case input. A malformed date is a request
// error; a missing one passes through as the zero time for domain validation.
func (r *TransactionRequest) ToUseCaseInput() (usecase.TransactionInput, error) {
	input := usecase.TransactionInput{Memo: r.Memo}

	if r.Date != "" {
		date, err := time.Parse(DateLayout, r.Date)
		if err != nil {
			return usecase.TransactionInput{}, err
		}
		input.Date = date
	}

	for _, e := range r.Debits {
		input.Debits = append(input.Debits, usecase.EntryInput{Account: e.Account, Value: e.Value})
	}
	for _, e := range r.Credits {
		input.Credits = append(input.Credits, usecase.EntryInput{Account: e.Account, Value: e.Value})
	}

	return input, nil
}
