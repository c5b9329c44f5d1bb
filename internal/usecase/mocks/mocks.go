package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zkybank/zkybank/internal/domain"
	"github.com/zkybank/zkybank/internal/usecase"
)

// MockAccountRepository is a mock implementation of usecase.AccountRepository.
// Defaults operate on an in-memory map; Func fields override behavior.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[domain.AccountNumber]*domain.Account

	GetByNumberFunc          func(ctx context.Context, number domain.AccountNumber) (*domain.Account, error)
	GetByNumberForUpdateFunc func(ctx context.Context, number domain.AccountNumber) (*domain.Account, error)
	SaveFunc                 func(ctx context.Context, account *domain.Account) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[domain.AccountNumber]*domain.Account),
	}
}

// Seed stores an account directly, bypassing the Func overrides.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *account
	m.accounts[account.Number] = &copied
}

// Get returns the stored account state, or nil.
func (m *MockAccountRepository) Get(number domain.AccountNumber) *domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.accounts[number]
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	copied := *acc

	return &copied, nil
}

func (m *MockAccountRepository) GetByNumberForUpdate(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	if m.GetByNumberForUpdateFunc != nil {
		return m.GetByNumberForUpdateFunc(ctx, number)
	}

	return m.GetByNumber(ctx, number)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *domain.Account) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, account)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	account.Version++
	copied := *account
	m.accounts[account.Number] = &copied

	return nil
}

// MockLedgerRepository is a mock implementation of usecase.LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	SaveFunc          func(ctx context.Context, entry *domain.LedgerEntry) error
	ListByAccountFunc func(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) Save(ctx context.Context, entry *domain.LedgerEntry) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)

	return nil
}

func (m *MockLedgerRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}

	return entries, nil
}

// Entries returns all recorded entries.
func (m *MockLedgerRepository) Entries() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]*domain.LedgerEntry(nil), m.entries...)
}

// MockUnitOfWork is a mock implementation of usecase.UnitOfWork.
type MockUnitOfWork struct {
	AccountsRepo *MockAccountRepository
	LedgerRepo   *MockLedgerRepository

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Commits   int
	Rollbacks int
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		AccountsRepo: NewMockAccountRepository(),
		LedgerRepo:   NewMockLedgerRepository(),
	}
}

func (m *MockUnitOfWork) Accounts() usecase.AccountRepository {
	return m.AccountsRepo
}

func (m *MockUnitOfWork) Ledger() usecase.LedgerRepository {
	return m.LedgerRepo
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	m.Commits++

	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}

	return nil
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	m.Rollbacks++

	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}

	return nil
}

// MockUnitOfWorkFactory is a mock implementation of usecase.UnitOfWorkFactory.
// By default every Begin returns the same MockUnitOfWork.
type MockUnitOfWorkFactory struct {
	UoW    *MockUnitOfWork
	Begins int

	BeginFunc func(ctx context.Context) (usecase.UnitOfWork, error)
}

func NewMockUnitOfWorkFactory() *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{UoW: NewMockUnitOfWork()}
}

func (m *MockUnitOfWorkFactory) Begin(ctx context.Context) (usecase.UnitOfWork, error) {
	m.Begins++

	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	return m.UoW, nil
}

// MockIDGenerator is a mock implementation of usecase.IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

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

	m.counter++

	return fmt.Sprintf("id-%03d", m.counter)
}

// MockIdempotencyStore is a mock implementation of usecase.IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{data: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}

	m.data[key] = response

	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = response

	return nil
}
