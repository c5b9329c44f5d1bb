// Package postgres implements the account/ledger ports and the unit-of-work
// contract on top of pgx. Each unit of work owns one database transaction;
// pessimistic row locks and optimistic version checks both surface as
// domain.ErrConcurrencyConflict so callers retry the whole sequence.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zkybank/zkybank/internal/domain"
	"github.com/zkybank/zkybank/internal/usecase"
)

// PostgreSQL error codes translated to domain errors.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
	pgErrLockNotAvailable     = "55P03"
	pgErrUniqueViolation      = "23505"
)

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// UnitOfWorkFactory implements usecase.UnitOfWorkFactory over a pgx pool.
type UnitOfWorkFactory struct {
	pool pgxPool
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory.
func NewUnitOfWorkFactory(pool *pgxpool.Pool) *UnitOfWorkFactory {
	return newFactoryWithPool(pool)
}

func newFactoryWithPool(pool pgxPool) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{pool: pool}
}

// Begin starts a new database transaction wrapped in a unit of work.
func (f *UnitOfWorkFactory) Begin(ctx context.Context) (usecase.UnitOfWork, error) {
	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return nil, translateError(err)
	}

	return &UnitOfWork{tx: tx}, nil
}

// UnitOfWork wraps a pgx transaction.
type UnitOfWork struct {
	tx pgx.Tx
}

// Accounts returns the account repository bound to this transaction.
func (u *UnitOfWork) Accounts() usecase.AccountRepository {
	return &AccountRepository{tx: u.tx}
}

// Ledger returns the ledger repository bound to this transaction.
func (u *UnitOfWork) Ledger() usecase.LedgerRepository {
	return &LedgerRepository{tx: u.tx}
}

// Commit commits the transaction.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return translateError(err)
	}

	return nil
}

// Rollback rolls back the transaction. Safe to call after Commit.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}

	return nil
}

// translateError maps PostgreSQL failures to domain errors. Serialization
// failures, deadlocks and lock contention all become ErrConcurrencyConflict.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrSerializationFailure, pgErrDeadlockDetected, pgErrLockNotAvailable:
		return domain.ErrConcurrencyConflict
	case pgErrUniqueViolation:
		if pgErr.ConstraintName == "accounts_account_number_key" {
			return domain.ErrAccountAlreadyExists
		}

		return err
	}

	return err
}
