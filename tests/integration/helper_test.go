package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	adaptershttp "github.com/iho/gobooks/internal/adapter/http"
	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/adapter/http/handler"
	"github.com/iho/gobooks/internal/adapter/repository/postgres"
	"github.com/iho/gobooks/internal/usecase"
	"github.com/iho/gobooks/tests/testutil"
)

func setupRouter(testDB *testutil.TestDB) http.Handler {
	pool := testDB.Pool

	txManager := postgres.NewTxManager(pool)
	chartRepo := postgres.NewChartRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	chartUC := usecase.NewChartUseCase(chartRepo, idGen, nil)
	accountUC := usecase.NewAccountUseCase(txManager, chartRepo, accountRepo, txRepo, idGen, nil, retrier, nil)
	transactionUC := usecase.NewTransactionUseCase(chartRepo, accountRepo, txRepo, idGen, nil, nil)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, txRepo, nil, nil)
	reportUC := usecase.NewReportUseCase(chartRepo, accountRepo, txRepo, balanceUC, nil, nil)

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		ChartHandler:       handler.NewChartHandler(chartUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		HealthHandler:      handler.NewHealthHandler(pool, nil),
	})
}

func doRequest(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, body)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %s: %v", rec.Body.String(), err)
	}
}

func createChart(t *testing.T, router http.Handler, name string) string {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/charts/", dto.CreateChartRequest{Name: name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed to create chart: %d %s", rec.Code, rec.Body.String())
	}

	var chart dto.ChartResponse
	decodeResponse(t, rec, &chart)
	return chart.ID
}

func createAccount(t *testing.T, router http.Handler, chartID string, req dto.AccountRequest) dto.AccountResponse {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/charts/"+chartID+"/accounts/", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed to create account %s: %d %s", req.Number, rec.Code, rec.Body.String())
	}

	var account dto.AccountResponse
	decodeResponse(t, rec, &account)
	return account
}

func postTransaction(t *testing.T, router http.Handler, chartID string, req dto.TransactionRequest) dto.TransactionResponse {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/charts/"+chartID+"/transactions/", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed to post transaction %q: %d %s", req.Memo, rec.Code, rec.Body.String())
	}

	var tx dto.TransactionResponse
	decodeResponse(t, rec, &tx)
	return tx
}
