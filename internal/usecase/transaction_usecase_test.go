package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zkybank/zkybank/internal/domain"
	"github.com/zkybank/zkybank/internal/usecase"
	"github.com/zkybank/zkybank/internal/usecase/mocks"
)

func newTransactionUseCase(factory *mocks.MockUnitOfWorkFactory) *usecase.TransactionUseCase {
	return usecase.NewTransactionUseCase(
		factory,
		mocks.NewMockIDGenerator(),
		usecase.NewConflictRetrier(zerolog.Nop()),
		zerolog.Nop(),
	)
}

func TestTransactionUseCase_Deposit(t *testing.T) {
	factory := mocks.NewMockUnitOfWorkFactory()
	seedAccount(t, factory.UoW.AccountsRepo, "100000", 0)

	uc := newTransactionUseCase(factory)

	result, err := uc.Deposit(context.Background(), usecase.DepositInput{
		AccountNumber: "100000",
		AmountCents:   10000,
		Currency:      "BRL",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BalanceCents != 10000 {
		t.Errorf("expected balance 10000, got %d", result.BalanceCents)
	}

	entries := factory.UoW.LedgerRepo.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", len(entries))
	}

	if entries[0].Type != domain.EntryTypeDeposit {
		t.Errorf("expected DEPOSIT entry, got %s", entries[0].Type)
	}

	if entries[0].Amount.Cents() != 10000 {
		t.Errorf("expected entry amount 10000, got %d", entries[0].Amount.Cents())
	}
}

func TestTransactionUseCase_Withdraw(t *testing.T) {
	factory := mocks.NewMockUnitOfWorkFactory()
	seedAccount(t, factory.UoW.AccountsRepo, "100000", 10000)

	uc := newTransactionUseCase(factory)

	result, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountNumber: "100000",
		AmountCents:   2000,
		Currency:      "BRL",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BalanceCents != 8000 {
		t.Errorf("expected balance 8000, got %d", result.BalanceCents)
	}

	entries := factory.UoW.LedgerRepo.Entries()
	if len(entries) != 1 || entries[0].Type != domain.EntryTypeWithdrawal {
		t.Fatalf("expected exactly one WITHDRAWAL entry, got %d", len(entries))
	}
}

func TestTransactionUseCase_ValidationBeforeStorage(t *testing.T) {
	tests := []struct {
		name    string
		deposit bool
		input   usecase.DepositInput
		wantErr error
	}{
		{
			name:    "zero deposit",
			deposit: true,
			input:   usecase.DepositInput{AccountNumber: "100000", AmountCents: 0, Currency: "BRL"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative deposit",
			deposit: true,
			input:   usecase.DepositInput{AccountNumber: "100000", AmountCents: -100, Currency: "BRL"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "bad account number",
			deposit: true,
			input:   usecase.DepositInput{AccountNumber: "x", AmountCents: 100, Currency: "BRL"},
			wantErr: domain.ErrInvalidAccountNumber,
		},
		{
			name:    "negative withdrawal",
			deposit: false,
			input:   usecase.DepositInput{AccountNumber: "100000", AmountCents: -100, Currency: "BRL"},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := mocks.NewMockUnitOfWorkFactory()
			seedAccount(t, factory.UoW.AccountsRepo, "100000", 10000)

			uc := newTransactionUseCase(factory)

			var err error
			if tt.deposit {
				_, err = uc.Deposit(context.Background(), tt.input)
			} else {
				_, err = uc.Withdraw(context.Background(), usecase.WithdrawInput(tt.input))
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}

			if factory.Begins != 0 {
				t.Errorf("expected validation before storage access, got %d begins", factory.Begins)
			}

			if factory.UoW.Commits != 0 {
				t.Errorf("expected no commit, got %d", factory.UoW.Commits)
			}
		})
	}
}

func TestTransactionUseCase_WithdrawInsufficientFunds(t *testing.T) {
	factory := mocks.NewMockUnitOfWorkFactory()
	seedAccount(t, factory.UoW.AccountsRepo, "100000", 1000)

	uc := newTransactionUseCase(factory)

	_, err := uc.Withdraw(context.Background(), usecase.WithdrawInput{
		AccountNumber: "100000",
		AmountCents:   5000,
		Currency:      "BRL",
	})

	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Business-rule failures are never retried.
	if factory.Begins != 1 {
		t.Errorf("expected a single attempt, got %d", factory.Begins)
	}

	if factory.UoW.Commits != 0 {
		t.Errorf("expected no commit, got %d", factory.UoW.Commits)
	}

	if got := factory.UoW.AccountsRepo.Get("100000").Balance.Cents(); got != 1000 {
		t.Errorf("expected balance unchanged at 1000, got %d", got)
	}
}

func TestTransactionUseCase_AccountNotFound(t *testing.T) {
	factory := mocks.NewMockUnitOfWorkFactory()

	uc := newTransactionUseCase(factory)

	_, err := uc.Deposit(context.Background(), usecase.DepositInput{
		AccountNumber: "999999",
		AmountCents:   100,
		Currency:      "BRL",
	})

	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	if factory.Begins != 1 {
		t.Errorf("expected a single attempt, got %d", factory.Begins)
	}
}

func TestTransactionUseCase_RetriesOnConflict(t *testing.T) {
	factory := mocks.NewMockUnitOfWorkFactory()
	seedAccount(t, factory.UoW.AccountsRepo, "100000", 0)

	conflicts := 2
	factory.UoW.CommitFunc = func(ctx context.Context) error {
		if conflicts > 0 {
			conflicts--
			return domain.ErrConcurrencyConflict
		}

		return nil
	}

	uc := newTransactionUseCase(factory)

	result, err := uc.Deposit(context.Background(), usecase.DepositInput{
		AccountNumber: "100000",
		AmountCents:   5000,
		Currency:      "BRL",
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}

	if factory.Begins != 3 {
		t.Errorf("expected 3 attempts, got %d", factory.Begins)
	}

	if result.BalanceCents == 0 {
		t.Error("expected deposit to apply on the successful attempt")
	}
}

func TestTransactionUseCase_ConflictRetriesExhausted(t *testing.T) {
	factory := mocks.NewMockUnitOfWorkFactory()
	seedAccount(t, factory.UoW.AccountsRepo, "100000", 0)

	factory.UoW.CommitFunc = func(ctx context.Context) error {
		return domain.ErrConcurrencyConflict
	}

	uc := newTransactionUseCase(factory)

	_, err := uc.Deposit(context.Background(), usecase.DepositInput{
		AccountNumber: "100000",
		AmountCents:   5000,
		Currency:      "BRL",
	})

	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
	}

	if factory.Begins != usecase.DefaultMaxAttempts {
		t.Errorf("expected %d attempts, got %d", usecase.DefaultMaxAttempts, factory.Begins)
	}

	if factory.UoW.Rollbacks == 0 {
		t.Error("expected every failed attempt to roll back")
	}
}
