// Package memory provides an in-memory storage backend implementing the
// account/ledger ports and the unit-of-work contract. It has no row-level
// locking: GetByNumberForUpdate falls back to a plain read and conflicts are
// caught by version checking at commit time. Used by tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zkybank/zkybank/internal/domain"
	"github.com/zkybank/zkybank/internal/usecase"
)

// Store holds the shared durable state. All access goes through units of work.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // keyed by account ID
	byNumber map[domain.AccountNumber]string
	entries  []*domain.LedgerEntry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*domain.Account),
		byNumber: make(map[domain.AccountNumber]string),
	}
}

// Begin opens a new unit of work. Writes are buffered and applied atomically
// at Commit under the store lock.
func (s *Store) Begin(ctx context.Context) (usecase.UnitOfWork, error) {
	uow := &UnitOfWork{
		store:   s,
		staged:  make(map[string]*stagedAccount),
		byOrder: nil,
	}
	uow.accountsRepo = &accountRepository{uow: uow}
	uow.ledgerRepo = &ledgerRepository{uow: uow}

	return uow, nil
}

type stagedAccount struct {
	account *domain.Account
	insert  bool
	// expectedVersion is the stored version this write is conditional on.
	// Only meaningful for updates.
	expectedVersion int64
}

// UnitOfWork implements usecase.UnitOfWork on top of the in-memory store.
type UnitOfWork struct {
	store        *Store
	accountsRepo *accountRepository
	ledgerRepo   *ledgerRepository

	staged        map[string]*stagedAccount
	byOrder       []string // commit order of staged account IDs
	stagedEntries []*domain.LedgerEntry

	closed bool
}

// Accounts returns the account repository bound to this unit of work.
func (u *UnitOfWork) Accounts() usecase.AccountRepository {
	return u.accountsRepo
}

// Ledger returns the ledger repository bound to this unit of work.
func (u *UnitOfWork) Ledger() usecase.LedgerRepository {
	return u.ledgerRepo
}

// Commit validates all staged writes against the current store versions and
// applies them atomically. A stale version fails the whole commit with
// domain.ErrConcurrencyConflict and nothing is applied.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.closed {
		return fmt.Errorf("memory: unit of work already closed")
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	// Validate everything before applying anything.
	for _, id := range u.byOrder {
		st := u.staged[id]

		current, exists := u.store.accounts[id]

		if st.insert {
			if exists {
				return u.failCommit(domain.ErrConcurrencyConflict)
			}

			if _, taken := u.store.byNumber[st.account.Number]; taken {
				return u.failCommit(fmt.Errorf("%w: %s", domain.ErrAccountAlreadyExists, st.account.Number))
			}

			continue
		}

		if !exists || current.Version != st.expectedVersion {
			return u.failCommit(domain.ErrConcurrencyConflict)
		}
	}

	for _, id := range u.byOrder {
		st := u.staged[id]

		copied := *st.account
		u.store.accounts[id] = &copied
		u.store.byNumber[copied.Number] = id
	}

	u.store.entries = append(u.store.entries, u.stagedEntries...)

	u.closed = true

	return nil
}

// Rollback discards staged writes. Idempotent and safe after Commit.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.closed {
		return nil
	}

	u.staged = make(map[string]*stagedAccount)
	u.byOrder = nil
	u.stagedEntries = nil
	u.closed = true

	return nil
}

func (u *UnitOfWork) failCommit(err error) error {
	u.staged = make(map[string]*stagedAccount)
	u.byOrder = nil
	u.stagedEntries = nil
	u.closed = true

	return err
}

type accountRepository struct {
	uow *UnitOfWork
}

func (r *accountRepository) GetByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	if r.uow.closed {
		return nil, fmt.Errorf("memory: unit of work already closed")
	}

	// Read-your-writes within the unit of work.
	for _, st := range r.uow.staged {
		if st.account.Number == number {
			copied := *st.account
			return &copied, nil
		}
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	id, ok := r.uow.store.byNumber[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, number)
	}

	copied := *r.uow.store.accounts[id]

	return &copied, nil
}

// GetByNumberForUpdate falls back to a plain read: the store cannot express
// row-level locks, so conflicting writers are caught by the version check at
// Commit instead.
func (r *accountRepository) GetByNumberForUpdate(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	return r.GetByNumber(ctx, number)
}

func (r *accountRepository) Save(ctx context.Context, account *domain.Account) error {
	if r.uow.closed {
		return fmt.Errorf("memory: unit of work already closed")
	}

	if st, ok := r.uow.staged[account.ID]; ok {
		// Re-save within the same unit of work.
		account.Version++
		copied := *account
		st.account = &copied

		return nil
	}

	r.uow.store.mu.Lock()
	_, exists := r.uow.store.accounts[account.ID]
	r.uow.store.mu.Unlock()

	st := &stagedAccount{insert: !exists}
	if exists {
		st.expectedVersion = account.Version
		account.Version++
	}

	copied := *account
	st.account = &copied

	r.uow.staged[account.ID] = st
	r.uow.byOrder = append(r.uow.byOrder, account.ID)

	return nil
}

type ledgerRepository struct {
	uow *UnitOfWork
}

func (r *ledgerRepository) Save(ctx context.Context, entry *domain.LedgerEntry) error {
	if r.uow.closed {
		return fmt.Errorf("memory: unit of work already closed")
	}

	copied := *entry
	r.uow.stagedEntries = append(r.uow.stagedEntries, &copied)

	return nil
}

func (r *ledgerRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	if r.uow.closed {
		return nil, fmt.Errorf("memory: unit of work already closed")
	}

	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	var entries []*domain.LedgerEntry
	for _, e := range r.uow.store.entries {
		if e.AccountID == accountID {
			copied := *e
			entries = append(entries, &copied)
		}
	}

	return entries, nil
}
