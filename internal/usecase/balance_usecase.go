package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// EpochStart is the far-past lower bound used for point-in-time reports.
var EpochStart = time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)

const balancesCacheTTL = 10 * time.Minute

// BalanceFilter selects the accounts a balance query reports on. Zero value
// selects everything; ancestors always participate in aggregation regardless
// of the filter.
type BalanceFilter struct {
	BalanceSheet    bool
	IncomeStatement bool
	Number          string
}

func (f BalanceFilter) matches(a *domain.Account) bool {
	if f.BalanceSheet && !a.BalanceSheet {
		return false
	}
	if f.IncomeStatement && !a.IncomeStatement {
		return false
	}
	if f.Number != "" && a.Number != f.Number {
		return false
	}
	return true
}

func (f BalanceFilter) cacheKey() string {
	key := ""
	if f.BalanceSheet {
		key += "bs"
	}
	if f.IncomeStatement {
		key += "is"
	}
	if f.Number != "" {
		key += "n=" + f.Number
	}
	return key
}

// AccountBalance is one (account, signed value) pair of a balance query.
type AccountBalance struct {
	Account *domain.Account
	Value   decimal.Decimal
}

// BalanceUseCase is the aggregation engine: it replays the ledger from
// scratch over a date range and accumulates signed balances per account,
// propagating every increment to the strict ancestors. Replay-from-scratch
// trades recomputation cost for correctness under historical edits and
// deletes.
type BalanceUseCase struct {
	accountRepo AccountRepository
	txRepo      TransactionRepository
	cache       Cache
	metrics     *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(accountRepo AccountRepository, txRepo TransactionRepository, cache Cache, metrics *metrics.Metrics) *BalanceUseCase {
	return &BalanceUseCase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		cache:       cache,
		metrics:     metrics,
	}
}

// Balances computes signed balances for the accounts matching filter over
// [from, to]. Synthetic balances are the sum of their descendants'; an entry
// contributes to its own account and to each ancestor exactly once.
func (uc *BalanceUseCase) Balances(ctx context.Context, chartID string, from, to time.Time, filter BalanceFilter) ([]AccountBalance, error) {
	if cached, ok := uc.cachedBalances(ctx, chartID, from, to, filter); ok {
		return cached, nil
	}

	accounts, err := loadAccountSet(ctx, uc.accountRepo, uc.cache, uc.metrics, chartID)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.txRepo.ListByDateRange(ctx, chartID, from, to)
	if err != nil {
		return nil, err
	}

	values := make(map[string]decimal.Decimal, len(accounts.ordered))
	for _, a := range accounts.ordered {
		values[a.ID] = decimal.Zero
	}

	apply := func(entries []domain.Entry, side domain.EntrySide) {
		for _, e := range entries {
			account := accounts.byID[e.AccountID]
			if account == nil {
				continue
			}
			accounts.walkAncestors(account, func(node *domain.Account) {
				values[node.ID] = values[node.ID].Add(domain.BalanceIncrement(node, e.Value, side))
			})
		}
	}
	for _, t := range transactions {
		apply(t.Debits, domain.DebitSide)
		apply(t.Credits, domain.CreditSide)
	}

	result := make([]AccountBalance, 0, len(accounts.ordered))
	for _, a := range accounts.ordered {
		if filter.matches(a) {
			result = append(result, AccountBalance{Account: a, Value: values[a.ID]})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Account.Number < result[j].Account.Number
	})

	uc.storeBalances(ctx, chartID, from, to, filter, result)

	return result, nil
}

func (uc *BalanceUseCase) balancesCacheKey(ctx context.Context, chartID string, from, to time.Time, filter BalanceFilter) string {
	version := "0"
	if raw, err := uc.cache.Get(ctx, ledgerVersionKey(chartID)); err == nil && len(raw) > 0 {
		version = string(raw)
	}
	return "balances:" + chartID + ":" + version + ":" +
		from.Format("20060102") + ":" + to.Format("20060102") + ":" + filter.cacheKey()
}

type cachedBalance struct {
	Account *domain.Account `json:"account"`
	Value   decimal.Decimal `json:"value"`
}

func (uc *BalanceUseCase) cachedBalances(ctx context.Context, chartID string, from, to time.Time, filter BalanceFilter) ([]AccountBalance, bool) {
	if uc.cache == nil {
		return nil, false
	}
	raw, err := uc.cache.Get(ctx, uc.balancesCacheKey(ctx, chartID, from, to, filter))
	if err != nil || len(raw) == 0 {
		countCache(uc.metrics, "balances", false)
		return nil, false
	}
	var cached []cachedBalance
	if err := json.Unmarshal(raw, &cached); err != nil {
		countCache(uc.metrics, "balances", false)
		return nil, false
	}
	countCache(uc.metrics, "balances", true)
	result := make([]AccountBalance, len(cached))
	for i, c := range cached {
		result[i] = AccountBalance{Account: c.Account, Value: c.Value}
	}
	return result, true
}

func (uc *BalanceUseCase) storeBalances(ctx context.Context, chartID string, from, to time.Time, filter BalanceFilter, balances []AccountBalance) {
	if uc.cache == nil {
		return
	}
	cached := make([]cachedBalance, len(balances))
	for i, b := range balances {
		cached[i] = cachedBalance{Account: b.Account, Value: b.Value}
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}
	_ = uc.cache.Set(ctx, uc.balancesCacheKey(ctx, chartID, from, to, filter), raw, balancesCacheTTL)
}
