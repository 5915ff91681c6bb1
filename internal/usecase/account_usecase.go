package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// AccountUseCase handles the account tree model: validation, insertion with
// the analytic/synthetic flip, updates and guarded deletes.
type AccountUseCase struct {
	txManager   TransactionManager
	chartRepo   ChartRepository
	accountRepo AccountRepository
	txRepo      TransactionRepository
	idGen       IDGenerator
	cache       Cache
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	chartRepo ChartRepository,
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	idGen IDGenerator,
	cache Cache,
	retrier Retrier,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		chartRepo:   chartRepo,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		idGen:       idGen,
		cache:       cache,
		retrier:     retrier,
		metrics:     metrics,
	}
}

func (uc *AccountUseCase) countOperation(op string) {
	if uc.metrics == nil {
		return
	}
	if op == "create" {
		uc.metrics.AccountsCreated.Inc()
	}
	uc.metrics.AccountOperations.WithLabelValues(op).Inc()
}

// AddAccount validates and inserts an account into a chart. New accounts
// start analytic; when a parent is named, the parent flips to synthetic in
// the same database transaction as the insert. The retained-earnings pointer
// update is independent of account content and applied after commit.
func (uc *AccountUseCase) AddAccount(ctx context.Context, chartID string, spec domain.AccountSpec) (*domain.Account, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if existing, err := uc.accountRepo.GetByNumber(ctx, chartID, spec.Number); err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, domain.NewValidationError("An account with this number already exists")
	}

	var parent *domain.Account
	if spec.ParentID != "" {
		p, err := uc.accountRepo.GetByID(ctx, chartID, spec.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, domain.ErrParentNotFound
			}
			return nil, err
		}
		if err := spec.ValidateAgainstParent(p); err != nil {
			return nil, err
		}
		parent = p
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:              uc.idGen.Generate(),
		ChartID:         chartID,
		Number:          spec.Number,
		Name:            spec.Name,
		ParentID:        spec.ParentID,
		BalanceSheet:    spec.BalanceSheet,
		IncomeStatement: spec.IncomeStatement,
		DebitBalance:    spec.DebitBalance,
		CreditBalance:   spec.CreditBalance,
		Attribute:       spec.Attribute(),
		Analytic:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
			return err
		}
		if parent != nil && parent.Analytic {
			if err := uc.accountRepo.MarkSynthetic(ctx, tx, chartID, parent.ID); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if spec.RetainedEarnings {
		if err := uc.chartRepo.SetRetainedEarnings(ctx, chartID, account.ID); err != nil {
			return nil, err
		}
	}

	uc.invalidateAccounts(ctx, chartID)
	uc.countOperation("create")

	return account, nil
}

// UpdateAccount re-validates the spec as a fresh account and replaces the
// stored entry's mutable fields. Identity, analytic/synthetic state and
// parent linkage are server-maintained and preserved.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, chartID, accountID string, spec domain.AccountSpec) (*domain.Account, error) {
	stored, err := uc.accountRepo.GetByID(ctx, chartID, accountID)
	if err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if spec.Number != stored.Number {
		if existing, err := uc.accountRepo.GetByNumber(ctx, chartID, spec.Number); err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		} else if existing != nil {
			return nil, domain.NewValidationError("An account with this number already exists")
		}
	}

	if stored.ParentID != "" {
		parent, err := uc.accountRepo.GetByID(ctx, chartID, stored.ParentID)
		if err != nil {
			return nil, err
		}
		if err := spec.ValidateAgainstParent(parent); err != nil {
			return nil, err
		}
	}

	stored.Number = spec.Number
	stored.Name = spec.Name
	stored.BalanceSheet = spec.BalanceSheet
	stored.IncomeStatement = spec.IncomeStatement
	stored.DebitBalance = spec.DebitBalance
	stored.CreditBalance = spec.CreditBalance
	stored.Attribute = spec.Attribute()
	stored.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, stored); err != nil {
		return nil, err
	}

	if spec.RetainedEarnings {
		if err := uc.chartRepo.SetRetainedEarnings(ctx, chartID, stored.ID); err != nil {
			return nil, err
		}
	}

	uc.invalidateAccounts(ctx, chartID)
	uc.countOperation("update")

	return stored, nil
}

// GetAccount retrieves one account of a chart.
func (uc *AccountUseCase) GetAccount(ctx context.Context, chartID, accountID string) (*domain.Account, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}
	return uc.accountRepo.GetByID(ctx, chartID, accountID)
}

// ListAccounts lists a chart's accounts ordered by number. An optional query
// filters by number or name prefix (case-insensitive).
func (uc *AccountUseCase) ListAccounts(ctx context.Context, chartID, query string) ([]*domain.Account, error) {
	if _, err := uc.chartRepo.GetByID(ctx, chartID); err != nil {
		return nil, err
	}

	accounts, err := uc.accountRepo.List(ctx, chartID)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return accounts, nil
	}

	q := strings.ToLower(query)
	matched := make([]*domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if strings.HasPrefix(a.Number, query) || strings.Contains(strings.ToLower(a.Name), q) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// DeleteAccount removes an account that is not referenced by children or
// transaction entries.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, chartID, accountID string) error {
	if _, err := uc.accountRepo.GetByID(ctx, chartID, accountID); err != nil {
		return err
	}

	hasChildren, err := uc.accountRepo.HasChildren(ctx, chartID, accountID)
	if err != nil {
		return err
	}
	if hasChildren {
		return domain.NewValidationError("Child accounts found")
	}

	referenced, err := uc.txRepo.HasEntriesFor(ctx, chartID, accountID)
	if err != nil {
		return err
	}
	if referenced {
		return domain.NewValidationError("Transactions referencing this account was found")
	}

	if err := uc.accountRepo.Delete(ctx, chartID, accountID); err != nil {
		return err
	}

	uc.invalidateAccounts(ctx, chartID)
	uc.countOperation("delete")

	return nil
}

func (uc *AccountUseCase) invalidateAccounts(ctx context.Context, chartID string) {
	if uc.cache == nil {
		return
	}
	// Cached balance results embed account names and natures, so the ledger
	// version is bumped alongside the snapshot delete. Best effort: a stale
	// cache entry only delays reads, never corrupts them.
	_ = uc.cache.Delete(ctx, accountsCacheKey(chartID))
	bumpLedgerVersion(ctx, uc.cache, chartID)
}
