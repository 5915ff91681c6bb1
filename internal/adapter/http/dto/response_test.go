package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:           "acc-1",
		ChartID:      "chart-1",
		Number:       "1.1",
		Name:         "cash",
		ParentID:     "acc-0",
		BalanceSheet: true,
		DebitBalance: true,
		Attribute:    domain.AttrOperating,
		Analytic:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != account.ID || resp.Number != "1.1" || resp.Attribute != "operating" {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if len(list) != 1 || list[0].ID != account.ID {
		t.Fatalf("AccountsFromDomain returned %+v", list)
	}
}

func TestTransactionFromDomain(t *testing.T) {
	tx := &domain.Transaction{
		ID:      "tx-1",
		ChartID: "chart-1",
		Date:    time.Date(2013, time.May, 1, 0, 0, 0, 0, time.UTC),
		Memo:    "capital",
		Debits:  []domain.Entry{{AccountID: "acc-1", Value: decimal.NewFromInt(1)}},
		Credits: []domain.Entry{{AccountID: "acc-2", Value: decimal.NewFromInt(1)}},
	}

	resp := TransactionFromDomain(tx)
	if resp.Date != "2013-05-01" {
		t.Fatalf("Date = %s, want 2013-05-01", resp.Date)
	}
	if len(resp.Debits) != 1 || resp.Debits[0].AccountID != "acc-1" {
		t.Fatalf("unexpected transaction response: %+v", resp)
	}
}

func TestIncomeStatementFromUseCase_OmitsEmptyBuckets(t *testing.T) {
	st := &usecase.IncomeStatement{
		NonOperatingRevenue: &usecase.Bucket{Balance: decimal.NewFromInt(2)},
		NonOperatingExpense: &usecase.Bucket{Balance: decimal.NewFromInt(1)},
		NetIncome:           &usecase.Bucket{Balance: decimal.NewFromInt(1)},
	}

	data, err := json.Marshal(IncomeStatementFromUseCase(st))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"gross_revenue", "cost", "income_tax"} {
		if _, ok := raw[key]; ok {
			t.Fatalf("expected %s to be omitted, got %s", key, data)
		}
	}
	for _, key := range []string{"non_operating_revenue", "non_operating_expense", "net_income"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("expected %s to be present, got %s", key, data)
		}
	}
}

func TestLedgerFromUseCase(t *testing.T) {
	ledger := &usecase.Ledger{
		Account:        &domain.Account{ID: "acc-1", Number: "1", Name: "asset", Analytic: true},
		OpeningBalance: decimal.NewFromInt(5),
		Entries: []usecase.LedgerEntry{
			{
				TransactionID: "tx-1",
				Date:          time.Date(2013, time.May, 2, 0, 0, 0, 0, time.UTC),
				Side:          domain.CreditSide,
				Amount:        decimal.NewFromInt(3),
				Balance:       decimal.NewFromInt(2),
				Counterpart:   usecase.Counterpart{Name: "many", Many: true},
			},
		},
	}

	resp := LedgerFromUseCase(ledger)
	if !resp.OpeningBalance.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("OpeningBalance = %s", resp.OpeningBalance)
	}
	entry := resp.Entries[0]
	if entry.Side != "credit" || entry.Date != "2013-05-02" || !entry.Counterpart.Many {
		t.Fatalf("unexpected ledger entry: %+v", entry)
	}
}
