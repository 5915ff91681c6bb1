package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
	"github.com/iho/gobooks/internal/usecase"
	"github.com/iho/gobooks/internal/usecase/mocks"
)

// testEnv wires every use case onto shared in-memory mocks, the way the
// server wires them onto postgres.
type testEnv struct {
	chartRepo   *mocks.MockChartRepository
	accountRepo *mocks.MockAccountRepository
	txRepo      *mocks.MockTransactionRepository

	charts       *usecase.ChartUseCase
	accounts     *usecase.AccountUseCase
	transactions *usecase.TransactionUseCase
	balances     *usecase.BalanceUseCase
	reports      *usecase.ReportUseCase
}

func newTestEnv() *testEnv {
	return newTestEnvWith(nil, nil)
}

// newTestEnvWith wires an optional cache and metrics into every use case,
// mirroring the server wiring when redis and prometheus are configured.
func newTestEnvWith(cache usecase.Cache, m *metrics.Metrics) *testEnv {
	chartRepo := mocks.NewMockChartRepository()
	accountRepo := mocks.NewMockAccountRepository()
	txRepo := mocks.NewMockTransactionRepository()
	idGen := mocks.NewMockIDGenerator()
	txManager := mocks.NewMockTransactionManager()

	balances := usecase.NewBalanceUseCase(accountRepo, txRepo, cache, m)

	return &testEnv{
		chartRepo:   chartRepo,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		charts:      usecase.NewChartUseCase(chartRepo, idGen, m),
		accounts: usecase.NewAccountUseCase(
			txManager, chartRepo, accountRepo, txRepo, idGen, cache, mocks.NopRetrier{}, m),
		transactions: usecase.NewTransactionUseCase(chartRepo, accountRepo, txRepo, idGen, cache, m),
		balances:     balances,
		reports:      usecase.NewReportUseCase(chartRepo, accountRepo, txRepo, balances, cache, m),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustAddChart(t *testing.T, env *testEnv, name string) *domain.ChartOfAccounts {
	t.Helper()
	chart, err := env.charts.CreateChart(context.Background(), name)
	require.NoError(t, err)
	return chart
}

func mustAddAccount(t *testing.T, env *testEnv, chartID string, spec domain.AccountSpec) *domain.Account {
	t.Helper()
	account, err := env.accounts.AddAccount(context.Background(), chartID, spec)
	require.NoError(t, err)
	return account
}

func mustPost(t *testing.T, env *testEnv, chartID string, day time.Time, memo string, debits, credits map[string]int64) *domain.Transaction {
	t.Helper()

	input := usecase.TransactionInput{Date: day, Memo: memo}
	for account, value := range debits {
		input.Debits = append(input.Debits, usecase.EntryInput{
			Account: account, Value: decimal.NewFromInt(value)})
	}
	for account, value := range credits {
		input.Credits = append(input.Credits, usecase.EntryInput{
			Account: account, Value: decimal.NewFromInt(value)})
	}

	transaction, err := env.transactions.AddTransaction(context.Background(), chartID, input)
	require.NoError(t, err)
	return transaction
}

// scenarioChart builds the four-root chart used across report tests:
// asset(1), liability(2), expense(3), revenue(4).
func scenarioChart(t *testing.T, env *testEnv) (chartID string, asset, liability, expense, revenue *domain.Account) {
	t.Helper()

	chart := mustAddChart(t, env, "n")
	asset = mustAddAccount(t, env, chart.ID, domain.AccountSpec{
		Number: "1", Name: "asset", BalanceSheet: true, DebitBalance: true})
	liability = mustAddAccount(t, env, chart.ID, domain.AccountSpec{
		Number: "2", Name: "liability", BalanceSheet: true, CreditBalance: true})
	expense = mustAddAccount(t, env, chart.ID, domain.AccountSpec{
		Number: "3", Name: "expense", IncomeStatement: true, DebitBalance: true})
	revenue = mustAddAccount(t, env, chart.ID, domain.AccountSpec{
		Number: "4", Name: "revenue", IncomeStatement: true, CreditBalance: true})
	return chart.ID, asset, liability, expense, revenue
}

// scenarioTransactions posts the canonical three 2013-05-01 movements.
func scenarioTransactions(t *testing.T, env *testEnv, chartID string) {
	t.Helper()

	day := date(2013, time.May, 1)
	mustPost(t, env, chartID, day, "capital",
		map[string]int64{"1": 1}, map[string]int64{"2": 1})
	mustPost(t, env, chartID, day, "rent",
		map[string]int64{"3": 1}, map[string]int64{"1": 1})
	mustPost(t, env, chartID, day, "sale",
		map[string]int64{"1": 2}, map[string]int64{"4": 2})
}
