package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zkybank/zkybank/internal/domain"
)

// TransactionUseCase handles single-account deposits and withdrawals.
type TransactionUseCase struct {
	uowFactory UnitOfWorkFactory
	idGen      IDGenerator
	retrier    *ConflictRetrier
	logger     zerolog.Logger
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	uowFactory UnitOfWorkFactory,
	idGen IDGenerator,
	retrier *ConflictRetrier,
	logger zerolog.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		uowFactory: uowFactory,
		idGen:      idGen,
		retrier:    retrier,
		logger:     logger,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	AccountNumber string
	AmountCents   int64
	Currency      string
}

// WithdrawInput represents input for a withdrawal.
type WithdrawInput struct {
	AccountNumber string
	AmountCents   int64
	Currency      string
}

// TransactionResult represents the account state after a deposit or withdrawal.
type TransactionResult struct {
	AccountNumber string
	BalanceCents  int64
	Currency      string
}

// Deposit credits the account and records one DEPOSIT ledger entry. The whole
// sequence runs in a fresh unit of work per attempt and is retried on
// concurrency conflicts.
func (uc *TransactionUseCase) Deposit(ctx context.Context, input DepositInput) (*TransactionResult, error) {
	number, amount, err := uc.validate(input.AccountNumber, input.AmountCents, input.Currency)
	if err != nil {
		return nil, err
	}

	var result *TransactionResult

	err = uc.retrier.Run(ctx, "deposit", func() error {
		res, err := uc.applyOnce(ctx, number, amount, domain.EntryTypeDeposit)
		if err != nil {
			return err
		}

		result = res

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("account_number", result.AccountNumber).
		Int64("amount_cents", amount.Cents()).
		Int64("balance_cents", result.BalanceCents).
		Msg("deposit succeeded")

	return result, nil
}

// Withdraw debits the account and records one WITHDRAWAL ledger entry.
// Same retry shape as Deposit; insufficient funds abort without retrying.
func (uc *TransactionUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*TransactionResult, error) {
	number, amount, err := uc.validate(input.AccountNumber, input.AmountCents, input.Currency)
	if err != nil {
		return nil, err
	}

	var result *TransactionResult

	err = uc.retrier.Run(ctx, "withdraw", func() error {
		res, err := uc.applyOnce(ctx, number, amount, domain.EntryTypeWithdrawal)
		if err != nil {
			return err
		}

		result = res

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("account_number", result.AccountNumber).
		Int64("amount_cents", amount.Cents()).
		Int64("balance_cents", result.BalanceCents).
		Msg("withdrawal succeeded")

	return result, nil
}

func (uc *TransactionUseCase) validate(accountNumber string, amountCents int64, currency string) (domain.AccountNumber, domain.Money, error) {
	number, err := domain.ParseAccountNumber(accountNumber)
	if err != nil {
		return "", domain.Money{}, err
	}

	amount, err := domain.NewMoneyFromCents(amountCents, currency)
	if err != nil {
		return "", domain.Money{}, err
	}

	if amount.IsZero() {
		return "", domain.Money{}, fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidAmount)
	}

	return number, amount, nil
}

// applyOnce runs one attempt: lock, mutate, record, persist, commit.
func (uc *TransactionUseCase) applyOnce(
	ctx context.Context,
	number domain.AccountNumber,
	amount domain.Money,
	entryType domain.EntryType,
) (*TransactionResult, error) {
	uow, err := uc.uowFactory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	account, err := uow.Accounts().GetByNumberForUpdate(ctx, number)
	if err != nil {
		return nil, err
	}

	switch entryType {
	case domain.EntryTypeDeposit:
		err = account.Deposit(amount)
	case domain.EntryTypeWithdrawal:
		err = account.Withdraw(amount)
	}

	if err != nil {
		return nil, err
	}

	entry, err := domain.NewLedgerEntry(
		uc.idGen.Generate(),
		account.ID,
		entryType,
		amount,
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

	if err := uow.Accounts().Save(ctx, account); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransactionResult{
		AccountNumber: account.Number.String(),
		BalanceCents:  account.Balance.Cents(),
		Currency:      account.Balance.Currency(),
	}, nil
}
