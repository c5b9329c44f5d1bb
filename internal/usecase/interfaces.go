package usecase

import (
	"context"
	"time"

	"github.com/zkybank/zkybank/internal/domain"
)

// AccountRepository defines data access for accounts, scoped to a unit of work.
type AccountRepository interface {
	// GetByNumber returns an account by its external number without locking.
	// Returns domain.ErrAccountNotFound when no such account exists.
	GetByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error)
	// GetByNumberForUpdate returns an account with exclusive intent: no other
	// transaction may acquire the same guarantee for the row until this unit
	// of work ends. Backends without row locks may fall back to a plain read
	// and rely on version checking at Save/Commit. A detected lock conflict
	// surfaces as domain.ErrConcurrencyConflict.
	GetByNumberForUpdate(ctx context.Context, number domain.AccountNumber) (*domain.Account, error)
	// Save upserts the account by ID and advances its version by exactly one.
	// A version mismatch surfaces as domain.ErrConcurrencyConflict.
	Save(ctx context.Context, account *domain.Account) error
}

// LedgerRepository defines append-only data access for ledger entries.
type LedgerRepository interface {
	Save(ctx context.Context, entry *domain.LedgerEntry) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error)
}

// UnitOfWork demarcates one atomic storage transaction and exposes the
// repositories bound to it. Exactly one transaction is open per instance;
// units of work are not reentrant.
type UnitOfWork interface {
	Accounts() AccountRepository
	Ledger() LedgerRepository
	// Commit fails with domain.ErrConcurrencyConflict on a version mismatch
	// or lock-contention signal; other storage failures propagate unchanged.
	Commit(ctx context.Context) error
	// Rollback is idempotent and safe after a failed or successful commit.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory opens new units of work. Each retry attempt of an
// orchestrator runs in a fresh unit of work.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage for the HTTP adapter.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
