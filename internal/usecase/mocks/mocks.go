package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// MockChartRepository is a mock implementation of ChartRepository.
type MockChartRepository struct {
	mu     sync.RWMutex
	charts map[string]*domain.ChartOfAccounts

	CreateFunc              func(ctx context.Context, chart *domain.ChartOfAccounts) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.ChartOfAccounts, error)
	ListFunc                func(ctx context.Context) ([]*domain.ChartOfAccounts, error)
	SetRetainedEarningsFunc func(ctx context.Context, chartID, accountID string) error
}

func NewMockChartRepository() *MockChartRepository {
	return &MockChartRepository{charts: make(map[string]*domain.ChartOfAccounts)}
}

func (m *MockChartRepository) Create(ctx context.Context, chart *domain.ChartOfAccounts) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, chart)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charts[chart.ID] = chart
	return nil
}

func (m *MockChartRepository) GetByID(ctx context.Context, id string) (*domain.ChartOfAccounts, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.charts[id]; ok {
		return c, nil
	}
	return nil, domain.ErrChartNotFound
}

func (m *MockChartRepository) List(ctx context.Context) ([]*domain.ChartOfAccounts, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	charts := make([]*domain.ChartOfAccounts, 0, len(m.charts))
	for _, c := range m.charts {
		charts = append(charts, c)
	}
	sort.Slice(charts, func(i, j int) bool { return charts[i].Name < charts[j].Name })
	return charts, nil
}

func (m *MockChartRepository) SetRetainedEarnings(ctx context.Context, chartID, accountID string) error {
	if m.SetRetainedEarningsFunc != nil {
		return m.SetRetainedEarningsFunc(ctx, chartID, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.charts[chartID]
	if !ok {
		return domain.ErrChartNotFound
	}
	c.RetainedEarningsAccountID = accountID
	return nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	UpdateFunc        func(ctx context.Context, account *domain.Account) error
	GetByIDFunc       func(ctx context.Context, chartID, id string) (*domain.Account, error)
	GetByNumberFunc   func(ctx context.Context, chartID, number string) (*domain.Account, error)
	ListFunc          func(ctx context.Context, chartID string) ([]*domain.Account, error)
	MarkSyntheticFunc func(ctx context.Context, tx usecase.Transaction, chartID, id string) error
	HasChildrenFunc   func(ctx context.Context, chartID, id string) (bool, error)
	DeleteFunc        func(ctx context.Context, chartID, id string) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func key(chartID, id string) string { return chartID + "/" + id }

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[key(account.ChartID, account.ID)] = account
	return nil
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[key(account.ChartID, account.ID)]; !ok {
		return domain.ErrAccountNotFound
	}
	m.accounts[key(account.ChartID, account.ID)] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, chartID, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, chartID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[key(chartID, id)]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, chartID, number string) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, chartID, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.ChartID == chartID && a.Number == number {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(ctx context.Context, chartID string) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, chartID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0)
	for _, a := range m.accounts {
		if a.ChartID == chartID {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Number < accounts[j].Number })
	return accounts, nil
}

func (m *MockAccountRepository) MarkSynthetic(ctx context.Context, tx usecase.Transaction, chartID, id string) error {
	if m.MarkSyntheticFunc != nil {
		return m.MarkSyntheticFunc(ctx, tx, chartID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[key(chartID, id)]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Analytic = false
	a.Synthetic = true
	return nil
}

func (m *MockAccountRepository) HasChildren(ctx context.Context, chartID, id string) (bool, error) {
	if m.HasChildrenFunc != nil {
		return m.HasChildrenFunc(ctx, chartID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.ChartID == chartID && a.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, chartID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, chartID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[key(chartID, id)]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, key(chartID, id))
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc          func(ctx context.Context, transaction *domain.Transaction) error
	ReplaceFunc         func(ctx context.Context, transaction *domain.Transaction) error
	GetByIDFunc         func(ctx context.Context, chartID, id string) (*domain.Transaction, error)
	ListFunc            func(ctx context.Context, chartID string) ([]*domain.Transaction, error)
	ListByDateRangeFunc func(ctx context.Context, chartID string, from, to time.Time) ([]*domain.Transaction, error)
	ListByAccountFunc   func(ctx context.Context, chartID, accountID string, from, to time.Time) ([]*domain.Transaction, error)
	HasEntriesForFunc   func(ctx context.Context, chartID, accountID string) (bool, error)
	DeleteFunc          func(ctx context.Context, chartID, id string) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{transactions: make(map[string]*domain.Transaction)}
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[key(transaction.ChartID, transaction.ID)] = transaction
	return nil
}

func (m *MockTransactionRepository) Replace(ctx context.Context, transaction *domain.Transaction) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[key(transaction.ChartID, transaction.ID)]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.transactions[key(transaction.ChartID, transaction.ID)] = transaction
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, chartID, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, chartID, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[key(chartID, id)]; ok {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) List(ctx context.Context, chartID string) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, chartID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	transactions := make([]*domain.Transaction, 0)
	for _, t := range m.transactions {
		if t.ChartID == chartID {
			transactions = append(transactions, t)
		}
	}
	domain.SortTransactions(transactions)
	return transactions, nil
}

func (m *MockTransactionRepository) ListByDateRange(ctx context.Context, chartID string, from, to time.Time) ([]*domain.Transaction, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, chartID, from, to)
	}
	all, _ := m.List(ctx, chartID)
	transactions := make([]*domain.Transaction, 0, len(all))
	for _, t := range all {
		if !t.Date.Before(from) && !t.Date.After(to) {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, chartID, accountID string, from, to time.Time) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, chartID, accountID, from, to)
	}
	inRange, _ := m.ListByDateRange(ctx, chartID, from, to)
	transactions := make([]*domain.Transaction, 0, len(inRange))
	for _, t := range inRange {
		if touches(t, accountID) {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func touches(t *domain.Transaction, accountID string) bool {
	for _, e := range t.Debits {
		if e.AccountID == accountID {
			return true
		}
	}
	for _, e := range t.Credits {
		if e.AccountID == accountID {
			return true
		}
	}
	return false
}

func (m *MockTransactionRepository) HasEntriesFor(ctx context.Context, chartID, accountID string) (bool, error) {
	if m.HasEntriesForFunc != nil {
		return m.HasEntriesForFunc(ctx, chartID, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.transactions {
		if t.ChartID == chartID && touches(t, accountID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, chartID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, chartID, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[key(chartID, id)]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.transactions, key(chartID, id))
	return nil
}

// MockIDGenerator generates sequential IDs for tests.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%04d", m.next)
}

// MockTransaction is a no-op database transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu    sync.Mutex
	Begun []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Begun = append(m.Begun, tx)
	return tx, nil
}

// NopRetrier runs the operation once without retries.
type NopRetrier struct{}

func (NopRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// MockCache is an in-memory usecase.Cache. TTLs are ignored; entries live
// until deleted or overwritten.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
