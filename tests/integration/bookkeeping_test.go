package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/tests/testutil"
)

func TestBookkeepingFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := setupRouter(testDB)

	chartID := createChart(t, router, "company books")

	createAccount(t, router, chartID, dto.AccountRequest{
		Number: "1", Name: "cash", BalanceSheet: true, DebitBalance: true,
	})
	createAccount(t, router, chartID, dto.AccountRequest{
		Number: "2", Name: "loans", BalanceSheet: true, CreditBalance: true,
	})
	createAccount(t, router, chartID, dto.AccountRequest{
		Number: "3", Name: "revenue", IncomeStatement: true, CreditBalance: true,
	})
	createAccount(t, router, chartID, dto.AccountRequest{
		Number: "4", Name: "expense", IncomeStatement: true, DebitBalance: true,
	})

	postTransaction(t, router, chartID, dto.TransactionRequest{
		Date: "2013-05-01", Memo: "loan received",
		Debits:  []dto.EntryRequest{{Account: "1", Value: decimal.NewFromInt(2)}},
		Credits: []dto.EntryRequest{{Account: "2", Value: decimal.NewFromInt(2)}},
	})
	postTransaction(t, router, chartID, dto.TransactionRequest{
		Date: "2013-05-02", Memo: "sale",
		Debits:  []dto.EntryRequest{{Account: "1", Value: decimal.NewFromInt(3)}},
		Credits: []dto.EntryRequest{{Account: "3", Value: decimal.NewFromInt(3)}},
	})
	rentTx := postTransaction(t, router, chartID, dto.TransactionRequest{
		Date: "2013-05-03", Memo: "rent",
		Debits:  []dto.EntryRequest{{Account: "4", Value: decimal.NewFromInt(1)}},
		Credits: []dto.EntryRequest{{Account: "1", Value: decimal.NewFromInt(1)}},
	})

	t.Run("balance sheet aggregates postings", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/charts/"+chartID+"/balance-sheet?at=2013-05-31", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var balances []dto.BalanceResponse
		decodeResponse(t, rec, &balances)

		want := map[string]int64{"1": 4, "2": 2}
		if len(balances) != len(want) {
			t.Fatalf("expected %d balances, got %+v", len(want), balances)
		}
		for _, b := range balances {
			if !b.Value.Equal(decimal.NewFromInt(want[b.Number])) {
				t.Fatalf("account %s: expected %d, got %s", b.Number, want[b.Number], b.Value)
			}
		}
	})

	t.Run("income statement derives net income", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/charts/"+chartID+"/income-statement?from=2013-05-01&to=2013-05-31", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var statement dto.IncomeStatementResponse
		decodeResponse(t, rec, &statement)

		if statement.NonOperatingRevenue == nil || !statement.NonOperatingRevenue.Balance.Equal(decimal.NewFromInt(3)) {
			t.Fatalf("unexpected non-operating revenue: %+v", statement.NonOperatingRevenue)
		}
		if statement.NonOperatingExpense == nil || !statement.NonOperatingExpense.Balance.Equal(decimal.NewFromInt(1)) {
			t.Fatalf("unexpected non-operating expense: %+v", statement.NonOperatingExpense)
		}
		if statement.NetIncome == nil || !statement.NetIncome.Balance.Equal(decimal.NewFromInt(2)) {
			t.Fatalf("unexpected net income: %+v", statement.NetIncome)
		}
	})

	t.Run("ledger folds earlier postings into the opening balance", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/charts/"+chartID+"/accounts/1/ledger?from=2013-05-02&to=2013-05-31", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var ledger dto.LedgerResponse
		decodeResponse(t, rec, &ledger)

		if !ledger.OpeningBalance.Equal(decimal.NewFromInt(2)) {
			t.Fatalf("expected opening balance 2, got %s", ledger.OpeningBalance)
		}
		if len(ledger.Entries) != 2 {
			t.Fatalf("expected 2 entries, got %+v", ledger.Entries)
		}
		if !ledger.Entries[0].Balance.Equal(decimal.NewFromInt(5)) {
			t.Fatalf("expected running balance 5 after sale, got %s", ledger.Entries[0].Balance)
		}
		if !ledger.Entries[1].Balance.Equal(decimal.NewFromInt(4)) {
			t.Fatalf("expected running balance 4 after rent, got %s", ledger.Entries[1].Balance)
		}
	})

	t.Run("journal lists the period in order", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/charts/"+chartID+"/journal?from=2013-05-01&to=2013-05-31", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var journal []dto.JournalEntryResponse
		decodeResponse(t, rec, &journal)

		if len(journal) != 3 {
			t.Fatalf("expected 3 journal entries, got %d", len(journal))
		}
		memos := []string{"loan received", "sale", "rent"}
		for i, want := range memos {
			if journal[i].Memo != want {
				t.Fatalf("entry %d: expected memo %q, got %q", i, want, journal[i].Memo)
			}
		}
	})

	t.Run("deleting a transaction updates the reports", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete,
			"/api/v1/charts/"+chartID+"/transactions/"+rentTx.ID, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = doRequest(t, router, http.MethodGet,
			"/api/v1/charts/"+chartID+"/balance-sheet?at=2013-05-31", nil)
		var balances []dto.BalanceResponse
		decodeResponse(t, rec, &balances)

		for _, b := range balances {
			if b.Number == "1" && !b.Value.Equal(decimal.NewFromInt(5)) {
				t.Fatalf("expected cash balance 5 after delete, got %s", b.Value)
			}
		}
	})
}

func TestAccountHierarchyPropagation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	router := setupRouter(testDB)

	chartID := createChart(t, router, "asset tree")

	parent := createAccount(t, router, chartID, dto.AccountRequest{
		Number: "1", Name: "assets", BalanceSheet: true, DebitBalance: true,
	})
	createAccount(t, router, chartID, dto.AccountRequest{
		Number: "1.1", Name: "cash", ParentID: parent.ID, BalanceSheet: true, DebitBalance: true,
	})
	createAccount(t, router, chartID, dto.AccountRequest{
		Number: "1.2", Name: "bank", ParentID: parent.ID, BalanceSheet: true, DebitBalance: true,
	})
	createAccount(t, router, chartID, dto.AccountRequest{
		Number: "2", Name: "equity", BalanceSheet: true, CreditBalance: true,
	})

	postTransaction(t, router, chartID, dto.TransactionRequest{
		Date: "2013-05-01", Memo: "cash in",
		Debits:  []dto.EntryRequest{{Account: "1.1", Value: decimal.NewFromInt(3)}},
		Credits: []dto.EntryRequest{{Account: "2", Value: decimal.NewFromInt(3)}},
	})
	postTransaction(t, router, chartID, dto.TransactionRequest{
		Date: "2013-05-01", Memo: "bank in",
		Debits:  []dto.EntryRequest{{Account: "1.2", Value: decimal.NewFromInt(4)}},
		Credits: []dto.EntryRequest{{Account: "2", Value: decimal.NewFromInt(4)}},
	})

	t.Run("parent becomes synthetic", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/charts/"+chartID+"/accounts/"+parent.ID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var account dto.AccountResponse
		decodeResponse(t, rec, &account)
		if account.Analytic || !account.Synthetic {
			t.Fatalf("expected parent to be synthetic, got %+v", account)
		}
	})

	t.Run("parent balance sums its children", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/charts/"+chartID+"/balance-sheet?at=2013-05-31", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var balances []dto.BalanceResponse
		decodeResponse(t, rec, &balances)

		want := map[string]int64{"1": 7, "1.1": 3, "1.2": 4, "2": 7}
		if len(balances) != len(want) {
			t.Fatalf("expected %d balances, got %+v", len(want), balances)
		}
		for _, b := range balances {
			if !b.Value.Equal(decimal.NewFromInt(want[b.Number])) {
				t.Fatalf("account %s: expected %d, got %s", b.Number, want[b.Number], b.Value)
			}
		}
	})
}
