package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zkybank/zkybank/internal/domain"
)

// AccountUseCase handles account lifecycle and balance queries.
type AccountUseCase struct {
	uowFactory UnitOfWorkFactory
	idGen      IDGenerator
	logger     zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(uowFactory UnitOfWorkFactory, idGen IDGenerator, logger zerolog.Logger) *AccountUseCase {
	return &AccountUseCase{
		uowFactory: uowFactory,
		idGen:      idGen,
		logger:     logger,
	}
}

// CreateAccountInput represents input for opening an account.
type CreateAccountInput struct {
	AccountNumber       string
	InitialDepositCents int64
	Currency            string
}

// AccountResult represents a created account.
type AccountResult struct {
	AccountID     string
	AccountNumber string
	BalanceCents  int64
	Currency      string
}

// CreateAccount opens a new account, optionally applying an initial deposit
// inside the same transaction. Single attempt, no retry: a duplicate-create
// race only risks a duplicate-key failure at commit, which the store already
// reports as domain.ErrAccountAlreadyExists.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*AccountResult, error) {
	number, err := domain.ParseAccountNumber(input.AccountNumber)
	if err != nil {
		return nil, err
	}

	initialDeposit, err := domain.NewMoneyFromCents(input.InitialDepositCents, input.Currency)
	if err != nil {
		return nil, err
	}

	uow, err := uc.uowFactory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	// Plain read, not locked. Uniqueness is enforced by the store.
	_, err = uow.Accounts().GetByNumber(ctx, number)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountAlreadyExists, number)
	}

	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	account, err := domain.OpenAccount(uc.idGen.Generate(), number, initialDeposit.Currency())
	if err != nil {
		return nil, err
	}

	if !initialDeposit.IsZero() {
		if err := account.Deposit(initialDeposit); err != nil {
			return nil, err
		}

		entry, err := domain.NewLedgerEntry(
			uc.idGen.Generate(),
			account.ID,
			domain.EntryTypeDeposit,
			initialDeposit,
			"",
			"",
			time.Time{},
		)
		if err != nil {
			return nil, err
		}

		if err := uow.Ledger().Save(ctx, entry); err != nil {
			return nil, err
		}
	}

	if err := uow.Accounts().Save(ctx, account); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("account_number", account.Number.String()).
		Str("currency", account.Balance.Currency()).
		Int64("balance_cents", account.Balance.Cents()).
		Msg("account created")

	return &AccountResult{
		AccountID:     account.ID,
		AccountNumber: account.Number.String(),
		BalanceCents:  account.Balance.Cents(),
		Currency:      account.Balance.Currency(),
	}, nil
}

// BalanceResult represents an account balance.
type BalanceResult struct {
	AccountNumber string
	BalanceCents  int64
	Currency      string
}

// GetBalance returns the current balance of an account. Read-only, no locks.
func (uc *AccountUseCase) GetBalance(ctx context.Context, accountNumber string) (*BalanceResult, error) {
	number, err := domain.ParseAccountNumber(accountNumber)
	if err != nil {
		return nil, err
	}

	uow, err := uc.uowFactory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	account, err := uow.Accounts().GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	return &BalanceResult{
		AccountNumber: account.Number.String(),
		BalanceCents:  account.Balance.Cents(),
		Currency:      account.Balance.Currency(),
	}, nil
}
