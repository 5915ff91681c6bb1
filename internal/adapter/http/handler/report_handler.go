package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobooks/internal/adapter/http/dto"
	"github.com/iho/gobooks/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	BalanceSheet(ctx context.Context, chartID string, at time.Time) ([]usecase.AccountBalance, error)
	IncomeStatementReport(ctx context.Context, chartID string, from, to time.Time) (*usecase.IncomeStatement, error)
	LedgerReport(ctx context.Context, chartID, accountRef string, from, to time.Time) (*usecase.Ledger, error)
	JournalReport(ctx context.Context, chartID string, from, to time.Time) ([]usecase.JournalEntry, error)
}

// ReportHandler handles report HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// BalanceSheet reports balance-sheet balances at ?at= (default today).
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	at, ok := parseDateQuery(r, "at", today())
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date", "at must be YYYY-MM-DD")
		return
	}

	balances, err := h.reportUC.BalanceSheet(r.Context(), chi.URLParam(r, "chartID"), at)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromUseCase(balances))
}

// IncomeStatement reports the P&L over [?from, ?to].
func (h *ReportHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parsePeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date", "from and to must be YYYY-MM-DD")
		return
	}

	statement, err := h.reportUC.IncomeStatementReport(r.Context(), chi.URLParam(r, "chartID"), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeStatementFromUseCase(statement))
}

// Ledger reports one account's entries over [?from, ?to] with a running
// balance. The account path segment takes an ID or a number.
func (h *ReportHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parsePeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date", "from and to must be YYYY-MM-DD")
		return
	}

	ledger, err := h.reportUC.LedgerReport(r.Context(),
		chi.URLParam(r, "chartID"), chi.URLParam(r, "accountID"), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromUseCase(ledger))
}

// Journal lists the chart's transactions over [?from, ?to] with entry
// accounts resolved.
func (h *ReportHandler) Journal(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parsePeriod(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date", "from and to must be YYYY-MM-DD")
		return
	}

	journal, err := h.reportUC.JournalReport(r.Context(), chi.URLParam(r, "chartID"), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalFromUseCase(journal))
}

func parsePeriod(r *http.Request) (from, to time.Time, ok bool) {
	from, ok = parseDateQuery(r, "from", usecase.EpochStart)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok = parseDateQuery(r, "to", today())
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
