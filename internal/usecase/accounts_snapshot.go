package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

const accountsCacheTTL = 10 * time.Minute

func accountsCacheKey(chartID string) string {
	return "accounts:" + chartID
}

// accountSet is a point-in-time snapshot of one chart's account tree. The
// validator, the aggregation engine and the reports all work from the same
// snapshot so one request never observes two versions of the tree.
type accountSet struct {
	ordered  []*domain.Account
	byID     map[string]*domain.Account
	byNumber map[string]*domain.Account
}

// loadAccountSet fetches the chart's accounts through the cache when one is
// configured, falling back to the repository.
func loadAccountSet(ctx context.Context, repo AccountRepository, cache Cache, m *metrics.Metrics, chartID string) (*accountSet, error) {
	if cache != nil {
		if raw, err := cache.Get(ctx, accountsCacheKey(chartID)); err == nil && len(raw) > 0 {
			var accounts []*domain.Account
			if err := json.Unmarshal(raw, &accounts); err == nil {
				countCache(m, "accounts", true)
				return newAccountSet(accounts), nil
			}
		}
		countCache(m, "accounts", false)
	}

	accounts, err := repo.List(ctx, chartID)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if raw, err := json.Marshal(accounts); err == nil {
			_ = cache.Set(ctx, accountsCacheKey(chartID), raw, accountsCacheTTL)
		}
	}

	return newAccountSet(accounts), nil
}

func countCache(m *metrics.Metrics, kind string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.WithLabelValues(kind).Inc()
	} else {
		m.CacheMisses.WithLabelValues(kind).Inc()
	}
}

func newAccountSet(accounts []*domain.Account) *accountSet {
	s := &accountSet{
		ordered:  accounts,
		byID:     make(map[string]*domain.Account, len(accounts)),
		byNumber: make(map[string]*domain.Account, len(accounts)),
	}
	for _, a := range accounts {
		s.byID[a.ID] = a
		s.byNumber[a.Number] = a
	}
	return s
}

// resolve finds an account by canonical id, falling back to number. Entry
// references arrive either way and are normalized to ids before storage.
func (s *accountSet) resolve(ref string) *domain.Account {
	if a, ok := s.byID[ref]; ok {
		return a
	}
	return s.byNumber[ref]
}

// walkAncestors calls fn for the account and every strict ancestor up to the
// root. The number-prefix invariant rules out cycles, but the walk is still
// bounded in case of corrupt parent links.
func (s *accountSet) walkAncestors(a *domain.Account, fn func(*domain.Account)) {
	const maxDepth = 100

	for depth := 0; a != nil && depth < maxDepth; depth++ {
		fn(a)
		if a.ParentID == "" {
			return
		}
		a = s.byID[a.ParentID]
	}
}
