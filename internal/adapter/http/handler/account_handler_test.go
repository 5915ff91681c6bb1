package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
)

type accountServiceStub struct {
	addFn    func(ctx context.Context, chartID string, spec domain.AccountSpec) (*domain.Account, error)
	updateFn func(ctx context.Context, chartID, accountID string, spec domain.AccountSpec) (*domain.Account, error)
	getFn    func(ctx context.Context, chartID, accountID string) (*domain.Account, error)
	listFn   func(ctx context.Context, chartID, query string) ([]*domain.Account, error)
	deleteFn func(ctx context.Context, chartID, accountID string) error
}

func (s *accountServiceStub) AddAccount(ctx context.Context, chartID string, spec domain.AccountSpec) (*domain.Account, error) {
	return s.addFn(ctx, chartID, spec)
}

func (s *accountServiceStub) UpdateAccount(ctx context.Context, chartID, accountID string, spec domain.AccountSpec) (*domain.Account, error) {
	return s.updateFn(ctx, chartID, accountID, spec)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, chartID, accountID string) (*domain.Account, error) {
	return s.getFn(ctx, chartID, accountID)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, chartID, query string) ([]*domain.Account, error) {
	return s.listFn(ctx, chartID, query)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, chartID, accountID string) error {
	return s.deleteFn(ctx, chartID, accountID)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	account := &domain.Account{
		ID:           "acc-1",
		ChartID:      "chart-1",
		Number:       "1.1",
		Name:         "Cash",
		BalanceSheet: true,
		DebitBalance: true,
		Analytic:     true,
	}

	var captured domain.AccountSpec
	handler := NewAccountHandler(&accountServiceStub{
		addFn: func(ctx context.Context, chartID string, spec domain.AccountSpec) (*domain.Account, error) {
			if chartID != "chart-1" {
				t.Fatalf("expected chart-1, got %s", chartID)
			}
			captured = spec
			return account, nil
		},
	})

	body, _ := json.Marshal(dto.AccountRequest{
		Number:       "1.1",
		Name:         "Cash",
		BalanceSheet: true,
		DebitBalance: true,
	})

	req := httptest.NewRequest(http.MethodPost, "/charts/chart-1/accounts", bytes.NewReader(body))
	req = setChiURLParams(req, map[string]string{"chartID": "chart-1"})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Number != "1.1" || captured.Name != "Cash" || !captured.BalanceSheet || !captured.DebitBalance {
		t.Fatalf("expected spec to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || !resp.Analytic {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Create_AttributeFlags(t *testing.T) {
	var captured domain.AccountSpec
	handler := NewAccountHandler(&accountServiceStub{
		addFn: func(ctx context.Context, chartID string, spec domain.AccountSpec) (*domain.Account, error) {
			captured = spec
			return &domain.Account{ID: "acc-1"}, nil
		},
	})

	body, _ := json.Marshal(dto.AccountRequest{
		Number:          "3.1",
		Name:            "Sales",
		IncomeStatement: true,
		CreditBalance:   true,
		Operating:       true,
	})

	req := httptest.NewRequest(http.MethodPost, "/charts/chart-1/accounts", bytes.NewReader(body))
	req = setChiURLParams(req, map[string]string{"chartID": "chart-1"})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(captured.Attributes) != 1 || captured.Attributes[0] != domain.AttrOperating {
		t.Fatalf("expected operating attribute, got %+v", captured.Attributes)
	}
}

func TestAccountHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		addFn: func(ctx context.Context, chartID string, spec domain.AccountSpec) (*domain.Account, error) {
			t.Fatal("AddAccount should not be called for invalid payload")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/charts/chart-1/accounts", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_ValidationError(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		addFn: func(ctx context.Context, chartID string, spec domain.AccountSpec) (*domain.Account, error) {
			return nil, domain.NewValidationError("The number must be informed")
		},
	})

	body, _ := json.Marshal(dto.AccountRequest{Name: "Cash"})
	req := httptest.NewRequest(http.MethodPost, "/charts/chart-1/accounts", bytes.NewReader(body))
	req = setChiURLParams(req, map[string]string{"chartID": "chart-1"})
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Message != "The number must be informed" {
		t.Fatalf("expected validation message, got %q", resp.Message)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, chartID, accountID string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/charts/chart-1/accounts/missing", nil)
	req = setChiURLParams(req, map[string]string{"chartID": "chart-1", "accountID": "missing"})
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List_PassesQuery(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, chartID, query string) ([]*domain.Account, error) {
			if chartID != "chart-1" || query != "1.1" {
				t.Fatalf("unexpected args: chart=%s q=%s", chartID, query)
			}
			return []*domain.Account{{ID: "acc-1", Number: "1.1"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/charts/chart-1/accounts?q=1.1", nil)
	req = setChiURLParams(req, map[string]string{"chartID": "chart-1"})
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	called := false
	handler := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, chartID, accountID string) error {
			called = true
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/charts/chart-1/accounts/acc-1", nil)
	req = setChiURLParams(req, map[string]string{"chartID": "chart-1", "accountID": "acc-1"})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !called {
		t.Fatal("expected DeleteAccount to be called")
	}
}

func TestAccountHandler_Delete_Guarded(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		deleteFn: func(ctx context.Context, chartID, accountID string) error {
			return domain.NewValidationError("Child accounts found")
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/charts/chart-1/accounts/acc-1", nil)
	req = setChiURLParams(req, map[string]string{"chartID": "chart-1", "accountID": "acc-1"})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func setChiURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
