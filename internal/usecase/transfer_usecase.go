package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zkybank/zkybank/internal/domain"
)

// TransferUseCase moves money between two accounts atomically.
type TransferUseCase struct {
	uowFactory UnitOfWorkFactory
	idGen      IDGenerator
	retrier    *ConflictRetrier
	logger     zerolog.Logger
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	uowFactory UnitOfWorkFactory,
	idGen IDGenerator,
	retrier *ConflictRetrier,
	logger zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		uowFactory: uowFactory,
		idGen:      idGen,
		retrier:    retrier,
		logger:     logger,
	}
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	FromAccountNumber string
	ToAccountNumber   string
	AmountCents       int64
	Currency          string
}

// TransferResult represents the outcome of a transfer.
type TransferResult struct {
	CorrelationID     string
	FromAccountNumber string
	ToAccountNumber   string
	FromBalanceCents  int64
	ToBalanceCents    int64
	Currency          string
}

// Transfer debits the source and credits the destination in one unit of work,
// recording a TRANSFER_OUT/TRANSFER_IN entry pair that shares a correlation
// id. Attempts are retried on concurrency conflicts; the correlation id is
// generated once and reused across attempts, which is safe because a failed
// attempt rolls back before anything becomes visible.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	source, err := domain.ParseAccountNumber(input.FromAccountNumber)
	if err != nil {
		return nil, err
	}

	destination, err := domain.ParseAccountNumber(input.ToAccountNumber)
	if err != nil {
		return nil, err
	}

	if source == destination {
		return nil, fmt.Errorf("%w: %s", domain.ErrSameAccountTransfer, source)
	}

	amount, err := domain.NewMoneyFromCents(input.AmountCents, input.Currency)
	if err != nil {
		return nil, err
	}

	if amount.IsZero() {
		return nil, fmt.Errorf("%w: transfer amount must be greater than zero", domain.ErrInvalidAmount)
	}

	correlationID := uc.idGen.Generate()

	var result *TransferResult

	err = uc.retrier.Run(ctx, "transfer", func() error {
		res, err := uc.transferOnce(ctx, source, destination, amount, correlationID)
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
		Str("correlation_id", correlationID).
		Str("from_account_number", result.FromAccountNumber).
		Str("to_account_number", result.ToAccountNumber).
		Int64("amount_cents", amount.Cents()).
		Msg("transfer succeeded")

	return result, nil
}

// transferOnce runs one attempt inside a fresh unit of work.
func (uc *TransferUseCase) transferOnce(
	ctx context.Context,
	source, destination domain.AccountNumber,
	amount domain.Money,
	correlationID string,
) (*TransferResult, error) {
	uow, err := uc.uowFactory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	// Lock both rows in ascending account-number order, never in request
	// order. Concurrent opposite-direction transfers between the same pair
	// then always request locks in the same global order (no circular wait).
	lower, higher := source, destination
	if higher.Less(lower) {
		lower, higher = higher, lower
	}

	lowerAccount, err := uow.Accounts().GetByNumberForUpdate(ctx, lower)
	if err != nil {
		return nil, err
	}

	higherAccount, err := uow.Accounts().GetByNumberForUpdate(ctx, higher)
	if err != nil {
		return nil, err
	}

	// Map the locked accounts back to logical roles.
	sourceAccount, destinationAccount := lowerAccount, higherAccount
	if sourceAccount.Number != source {
		sourceAccount, destinationAccount = higherAccount, lowerAccount
	}

	if err := sourceAccount.Withdraw(amount); err != nil {
		return nil, err
	}

	if err := destinationAccount.Deposit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	outEntry, err := domain.NewLedgerEntry(
		uc.idGen.Generate(),
		sourceAccount.ID,
		domain.EntryTypeTransferOut,
		amount,
		correlationID,
		destinationAccount.Number,
		now,
	)
	if err != nil {
		return nil, err
	}

	inEntry, err := domain.NewLedgerEntry(
		uc.idGen.Generate(),
		destinationAccount.ID,
		domain.EntryTypeTransferIn,
		amount,
		correlationID,
		sourceAccount.Number,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err := uow.Ledger().Save(ctx, outEntry); err != nil {
		return nil, err
	}

	if err := uow.Ledger().Save(ctx, inEntry); err != nil {
		return nil, err
	}

	if err := uow.Accounts().Save(ctx, sourceAccount); err != nil {
		return nil, err
	}

	if err := uow.Accounts().Save(ctx, destinationAccount); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransferResult{
		CorrelationID:     correlationID,
		FromAccountNumber: sourceAccount.Number.String(),
		ToAccountNumber:   destinationAccount.Number.String(),
		FromBalanceCents:  sourceAccount.Balance.Cents(),
		ToBalanceCents:    destinationAccount.Balance.Cents(),
		Currency:          amount.Currency(),
	}, nil
}
