package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/zkybank/zkybank/internal/domain"
)

// AccountRepository implements usecase.AccountRepository inside a transaction.
type AccountRepository struct {
	tx pgx.Tx
}

const accountColumns = `id, account_number, balance_cents, currency, version, created_at, updated_at`

// GetByNumber retrieves an account by its number without locking the row.
func (r *AccountRepository) GetByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	row := r.tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`,
		number.String(),
	)

	return scanAccount(row, number)
}

// GetByNumberForUpdate retrieves an account by its number with a FOR UPDATE
// row lock held until the transaction ends.
func (r *AccountRepository) GetByNumberForUpdate(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	row := r.tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1 FOR UPDATE`,
		number.String(),
	)

	return scanAccount(row, number)
}

// Save upserts the account. Updates are conditional on the loaded version; a
// stale version updates zero rows and surfaces as ErrConcurrencyConflict.
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) error {
	tag, err := r.tx.Exec(ctx,
		`UPDATE accounts
		 SET balance_cents = $1, version = version + 1, updated_at = $2
		 WHERE id = $3 AND version = $4`,
		account.Balance.Cents(),
		timeToPgTimestamptz(account.UpdatedAt),
		account.ID,
		account.Version,
	)
	if err != nil {
		return translateError(err)
	}

	if tag.RowsAffected() == 1 {
		account.Version++
		return nil
	}

	var exists bool

	err = r.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, account.ID,
	).Scan(&exists)
	if err != nil {
		return translateError(err)
	}

	if exists {
		return fmt.Errorf("%w: account %s version %d is stale",
			domain.ErrConcurrencyConflict, account.Number, account.Version)
	}

	_, err = r.tx.Exec(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.ID,
		account.Number.String(),
		account.Balance.Cents(),
		account.Balance.Currency(),
		account.Version,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		return translateError(err)
	}

	return nil
}

func scanAccount(row pgx.Row, number domain.AccountNumber) (*domain.Account, error) {
	var (
		id           string
		numberCol    string
		balanceCents int64
		currency     string
		version      int64
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)

	err := row.Scan(&id, &numberCol, &balanceCents, &currency, &version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, number)
		}

		return nil, translateError(err)
	}

	balance, err := domain.NewMoneyFromCents(balanceCents, currency)
	if err != nil {
		return nil, fmt.Errorf("account %s: invalid stored balance: %w", numberCol, err)
	}

	return &domain.Account{
		ID:        id,
		Number:    domain.AccountNumber(numberCol),
		Balance:   balance,
		Version:   version,
		CreatedAt: createdAt.Time,
		UpdatedAt: updatedAt.Time,
	}, nil
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
