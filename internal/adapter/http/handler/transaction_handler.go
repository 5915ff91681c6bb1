package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	AddTransaction(ctx context.Context, chartID string, input usecase.TransactionInput) (*domain.Transaction, error)
	ReplaceTransaction(ctx context.Context, chartID, transactionID string, input usecase.TransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, chartID, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, chartID string) ([]*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, chartID, transactionID string) error
}

// TransactionHandler handles ledger transaction HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create records a new double-entry transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	transaction, err := h.transactionUC.AddTransaction(r.Context(), chi.URLParam(r, "chartID"), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}

// Replace rewrites a transaction in place, re-validating it wholesale.
func (h *TransactionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeTransaction(w, r)
	if !ok {
		return
	}

	transaction, err := h.transactionUC.ReplaceTransaction(r.Context(),
		chi.URLParam(r, "chartID"), chi.URLParam(r, "transactionID"), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	transaction, err := h.transactionUC.GetTransaction(r.Context(),
		chi.URLParam(r, "chartID"), chi.URLParam(r, "transactionID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(transaction))
}

// List lists the chart's transactions in ledger order.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactionUC.ListTransactions(r.Context(), chi.URLParam(r, "chartID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transactions))
}

// Delete removes a transaction and its effect on every balance.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.transactionUC.DeleteTransaction(r.Context(),
		chi.URLParam(r, "chartID"), chi.URLParam(r, "transactionID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeTransaction(w http.ResponseWriter, r *http.Request) (usecase.TransactionInput, bool) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return usecase.TransactionInput{}, false
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return usecase.TransactionInput{}, false
	}

	return input, true
}
