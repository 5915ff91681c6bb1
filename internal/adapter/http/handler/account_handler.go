package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	AddAccount(ctx context.Context, chartID string, spec domain.AccountSpec) (*domain.Account, error)
	UpdateAccount(ctx context.Context, chartID, accountID string, spec domain.AccountSpec) (*domain.Account, error)
	GetAccount(ctx context.Context, chartID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, chartID, query string) ([]*domain.Account, error)
	DeleteAccount(ctx context.Context, chartID, accountID string) error
}

// AccountHandler handles account HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create inserts a new account into the chart's tree.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.AddAccount(r.Context(), chi.URLParam(r, "chartID"), req.ToSpec())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Update rewrites an account's caller-editable fields.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(),
		chi.URLParam(r, "chartID"), chi.URLParam(r, "accountID"), req.ToSpec())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetAccount(r.Context(),
		chi.URLParam(r, "chartID"), chi.URLParam(r, "accountID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the chart's accounts in number order, optionally filtered by a
// ?q= number prefix or name fragment.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(),
		chi.URLParam(r, "chartID"), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Delete removes an account with no children and no entries.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.accountUC.DeleteAccount(r.Context(),
		chi.URLParam(r, "chartID"), chi.URLParam(r, "accountID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
