package usecase

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

func ledgerVersionKey(chartID string) string {
	return "txver:" + chartID
}

// TransactionUseCase validates and stores double-entry transactions.
type TransactionUseCase struct {
	chartRepo   ChartRepository
	accountRepo AccountRepository
	txRepo      TransactionRepository
	idGen       IDGenerator
	cache       Cache
	metrics     *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	chartRepo ChartRepository,
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	idGen IDGenerator,
	cache Cache,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		chartRepo:   chartRepo,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		idGen:       idGen,
		cache:       cache,
		metrics:     metrics,
	}
}

// TransactionInput carries a proposed transaction. Entry account references
// may be canonical ids or account numbers; they are normalized to ids before
// the transaction is stored.
type TransactionInput struct {
	Date    time.Time
	Memo    string
	Debits  []EntryInput
	Credits []EntryInput
}

// EntryInput is one proposed entry.
type EntryInput struct {
	Account string
	Value   decimal.Decimal
}

// AddTransaction stamps a recording timestamp, runs the full double-entry
// validation and appends the transaction to the chart's ledger partition.
func (uc *TransactionUseCase) AddTransaction(ctx context.Context, chartID string, input TransactionInput) (*domain.Transaction, error) {
	transaction, err := uc.validate(ctx, chartID, input)
	if err != nil {
		uc.countError(err)
		return nil, err
	}
	transaction.ID = uc.idGen.Generate()

	if err := uc.txRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	bumpLedgerVersion(ctx, uc.cache, chartID)

	if uc.metrics != nil {
		uc.metrics.TransactionsPosted.Inc()
		for _, e := range transaction.Debits {
			uc.metrics.EntryValue.Observe(e.Value.InexactFloat64())
		}
	}

	return transaction, nil
}

// ReplaceTransaction implements update as validate-then-replace of the whole
// record; stored transactions are never partially edited.
func (uc *TransactionUseCase) ReplaceTransaction(ctx context.Context, chartID, transactionID string, input TransactionInput) (*domain.Transaction, error) {
	existing, err := uc.txRepo.GetByID(ctx, chartID, transactionID)
	if err != nil {
		return nil, err
	}

	transaction, err := uc.validate(ctx, chartID, input)
	if err != nil {
		uc.countError(err)
		return nil, err
	}
	transaction.ID = transactionID
	// The original recording timestamp survives the edit so the transaction
	// keeps its replay position among same-date transactions.
	transaction.RecordedAt = existing.RecordedAt

	if err := uc.txRepo.Replace(ctx, transaction); err != nil {
		return nil, err
	}

	bumpLedgerVersion(ctx, uc.cache, chartID)

	return transaction, nil
}

// GetTransaction retrieves one transaction of a chart.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, chartID, transactionID string) (*domain.Transaction, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}
	return uc.txRepo.GetByID(ctx, chartID, transactionID)
}

// ListTransactions returns the chart's full ledger partition.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, chartID string) ([]*domain.Transaction, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}
	return uc.txRepo.List(ctx, chartID)
}

// DeleteTransaction removes a transaction by id. Balances are computed on
// demand, so deletion needs no cascading effects.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, chartID, transactionID string) error {
	if err := uc.txRepo.Delete(ctx, chartID, transactionID); err != nil {
		return err
	}

	bumpLedgerVersion(ctx, uc.cache, chartID)

	if uc.metrics != nil {
		uc.metrics.TransactionsDeleted.Inc()
	}

	return nil
}

func (uc *TransactionUseCase) countError(err error) {
	if uc.metrics == nil {
		return
	}
	reason := "storage"
	if domain.IsValidation(err) {
		reason = "validation"
	}
	uc.metrics.TransactionErrors.WithLabelValues(reason).Inc()
}

// validate enforces the double-entry invariants in their fixed order: basic
// field checks, then every entry of the debit side, then every entry of the
// credit side, then exact sum equality. No partial commit happens before the
// whole transaction is accepted.
func (uc *TransactionUseCase) validate(ctx context.Context, chartID string, input TransactionInput) (*domain.Transaction, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		ChartID:    chartID,
		Date:       input.Date,
		RecordedAt: time.Now().UTC(),
		Memo:       input.Memo,
		Debits:     make([]domain.Entry, len(input.Debits)),
		Credits:    make([]domain.Entry, len(input.Credits)),
	}
	for i, e := range input.Debits {
		transaction.Debits[i] = domain.Entry{AccountID: e.Account, Value: e.Value}
	}
	for i, e := range input.Credits {
		transaction.Credits[i] = domain.Entry{AccountID: e.Account, Value: e.Value}
	}

	if err := transaction.ValidateBasic(); err != nil {
		return nil, err
	}

	accounts, err := loadAccountSet(ctx, uc.accountRepo, uc.cache, uc.metrics, chartID)
	if err != nil {
		return nil, err
	}

	checkSide := func(entries []domain.Entry) (decimal.Decimal, error) {
		sum := decimal.Zero
		for i, e := range entries {
			account := accounts.resolve(e.AccountID)
			if err := domain.ValidateEntry(e, account); err != nil {
				return decimal.Zero, err
			}
			entries[i].AccountID = account.ID
			sum = sum.Add(e.Value)
		}
		return sum, nil
	}

	debitsSum, err := checkSide(transaction.Debits)
	if err != nil {
		return nil, err
	}
	creditsSum, err := checkSide(transaction.Credits)
	if err != nil {
		return nil, err
	}
	if !debitsSum.Equal(creditsSum) {
		return nil, domain.NewValidationError(
			"The sum of debit values must be equals to the sum of credit values")
	}

	return transaction, nil
}

// bumpLedgerVersion invalidates cached balance results for the chart. The
// version participates in every balance cache key, so stale entries simply
// stop being addressed. Both ledger and account mutations bump it, since
// cached balances embed account data.
func bumpLedgerVersion(ctx context.Context, cache Cache, chartID string) {
	if cache == nil {
		return
	}
	version := strconv.FormatInt(time.Now().UnixNano(), 10)
	_ = cache.Set(ctx, ledgerVersionKey(chartID), []byte(version), 0)
}
