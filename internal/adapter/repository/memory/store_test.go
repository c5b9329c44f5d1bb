package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zkybank/zkybank/internal/adapter/repository/memory"
	"github.com/zkybank/zkybank/internal/domain"
	"github.com/zkybank/zkybank/internal/usecase"
)

type counterIDGenerator struct {
	n atomic.Int64
}

func (g *counterIDGenerator) Generate() string {
	return fmt.Sprintf("id-%06d", g.n.Add(1))
}

func openAccount(t *testing.T, store *memory.Store, id, number string, balanceCents int64) *domain.Account {
	t.Helper()

	num, err := domain.ParseAccountNumber(number)
	if err != nil {
		t.Fatalf("failed to parse account number: %v", err)
	}

	account, err := domain.OpenAccount(id, num, "BRL")
	if err != nil {
		t.Fatalf("failed to open account: %v", err)
	}

	if balanceCents > 0 {
		amount, err := domain.NewMoneyFromCents(balanceCents, "BRL")
		if err != nil {
			t.Fatalf("failed to build money: %v", err)
		}

		if err := account.Deposit(amount); err != nil {
			t.Fatalf("failed to deposit: %v", err)
		}
	}

	ctx := context.Background()

	uow, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	defer uow.Rollback(ctx)

	if err := uow.Accounts().Save(ctx, account); err != nil {
		t.Fatalf("failed to save account: %v", err)
	}

	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	return account
}

func balanceCents(t *testing.T, store *memory.Store, number string) int64 {
	t.Helper()

	ctx := context.Background()

	uow, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	defer uow.Rollback(ctx)

	account, err := uow.Accounts().GetByNumber(ctx, domain.AccountNumber(number))
	if err != nil {
		t.Fatalf("failed to load account: %v", err)
	}

	return account.Balance.Cents()
}

func TestStore_CommitAppliesWrites(t *testing.T) {
	store := memory.NewStore()
	openAccount(t, store, "acc-1", "100000", 5000)

	ctx := context.Background()

	uow, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	defer uow.Rollback(ctx)

	account, err := uow.Accounts().GetByNumberForUpdate(ctx, "100000")
	if err != nil {
		t.Fatalf("failed to load account: %v", err)
	}

	amount, _ := domain.NewMoneyFromCents(1500, "BRL")
	if err := account.Deposit(amount); err != nil {
		t.Fatalf("failed to deposit: %v", err)
	}

	entry, err := domain.NewLedgerEntry("entry-1", account.ID, domain.EntryTypeDeposit, amount, "", "", account.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to build entry: %v", err)
	}

	if err := uow.Ledger().Save(ctx, entry); err != nil {
		t.Fatalf("failed to save entry: %v", err)
	}

	if err := uow.Accounts().Save(ctx, account); err != nil {
		t.Fatalf("failed to save account: %v", err)
	}

	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	if got := balanceCents(t, store, "100000"); got != 6500 {
		t.Errorf("expected balance 6500, got %d", got)
	}

	reader, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	defer reader.Rollback(ctx)

	entries, err := reader.Ledger().ListByAccount(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}

	if len(entries) != 1 || entries[0].Type != domain.EntryTypeDeposit {
		t.Fatalf("expected one DEPOSIT entry, got %d", len(entries))
	}
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	store := memory.NewStore()
	openAccount(t, store, "acc-1", "100000", 5000)

	ctx := context.Background()

	uow, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}

	account, err := uow.Accounts().GetByNumberForUpdate(ctx, "100000")
	if err != nil {
		t.Fatalf("failed to load account: %v", err)
	}

	amount, _ := domain.NewMoneyFromCents(1500, "BRL")
	if err := account.Deposit(amount); err != nil {
		t.Fatalf("failed to deposit: %v", err)
	}

	if err := uow.Accounts().Save(ctx, account); err != nil {
		t.Fatalf("failed to save account: %v", err)
	}

	if err := uow.Rollback(ctx); err != nil {
		t.Fatalf("failed to roll back: %v", err)
	}

	// Rollback is idempotent.
	if err := uow.Rollback(ctx); err != nil {
		t.Fatalf("second rollback failed: %v", err)
	}

	if got := balanceCents(t, store, "100000"); got != 5000 {
		t.Errorf("expected balance unchanged at 5000, got %d", got)
	}
}

func TestStore_StaleVersionConflictsAtCommit(t *testing.T) {
	store := memory.NewStore()
	openAccount(t, store, "acc-1", "100000", 5000)

	ctx := context.Background()
	amount, _ := domain.NewMoneyFromCents(1000, "BRL")

	first, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	defer first.Rollback(ctx)

	second, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	defer second.Rollback(ctx)

	// Both load the same version.
	accFirst, err := first.Accounts().GetByNumberForUpdate(ctx, "100000")
	if err != nil {
		t.Fatalf("failed to load account: %v", err)
	}

	accSecond, err := second.Accounts().GetByNumberForUpdate(ctx, "100000")
	if err != nil {
		t.Fatalf("failed to load account: %v", err)
	}

	if err := accFirst.Deposit(amount); err != nil {
		t.Fatalf("failed to deposit: %v", err)
	}

	if err := first.Accounts().Save(ctx, accFirst); err != nil {
		t.Fatalf("failed to save account: %v", err)
	}

	if err := first.Commit(ctx); err != nil {
		t.Fatalf("failed to commit first writer: %v", err)
	}

	if err := accSecond.Deposit(amount); err != nil {
		t.Fatalf("failed to deposit: %v", err)
	}

	if err := second.Accounts().Save(ctx, accSecond); err != nil {
		t.Fatalf("failed to save account: %v", err)
	}

	if err := second.Commit(ctx); !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
	}

	// Only the first writer's deposit landed.
	if got := balanceCents(t, store, "100000"); got != 6000 {
		t.Errorf("expected balance 6000, got %d", got)
	}
}

func TestStore_DuplicateAccountNumberConflictsAtCommit(t *testing.T) {
	store := memory.NewStore()
	openAccount(t, store, "acc-1", "100000", 0)

	ctx := context.Background()

	num, _ := domain.ParseAccountNumber("100000")
	duplicate, err := domain.OpenAccount("acc-2", num, "BRL")
	if err != nil {
		t.Fatalf("failed to open account: %v", err)
	}

	uow, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	defer uow.Rollback(ctx)

	if err := uow.Accounts().Save(ctx, duplicate); err != nil {
		t.Fatalf("failed to save account: %v", err)
	}

	if err := uow.Commit(ctx); !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("expected ErrAccountAlreadyExists, got %v", err)
	}
}

func TestStore_GetByNumberNotFound(t *testing.T) {
	store := memory.NewStore()

	ctx := context.Background()

	uow, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin: %v", err)
	}
	defer uow.Rollback(ctx)

	if _, err := uow.Accounts().GetByNumber(ctx, "999999"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

// Opposite transfers running concurrently must conserve the combined balance
// of the two accounts, whichever order their commits land in.
func TestStore_ConcurrentOppositeTransfersConserveTotal(t *testing.T) {
	store := memory.NewStore()
	openAccount(t, store, "acc-1", "100000", 100000)
	openAccount(t, store, "acc-2", "200000", 100000)

	retrier := usecase.NewConflictRetrier(zerolog.Nop()).WithMaxAttempts(20)
	uc := usecase.NewTransferUseCase(store, &counterIDGenerator{}, retrier, zerolog.Nop())

	const rounds = 25

	errs := make(chan error, 2*rounds)

	for i := 0; i < rounds; i++ {
		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := uc.Transfer(context.Background(), usecase.TransferInput{
				FromAccountNumber: "100000",
				ToAccountNumber:   "200000",
				AmountCents:       100,
				Currency:          "BRL",
			})
			errs <- err
		}()

		go func() {
			defer wg.Done()

			_, err := uc.Transfer(context.Background(), usecase.TransferInput{
				FromAccountNumber: "200000",
				ToAccountNumber:   "100000",
				AmountCents:       100,
				Currency:          "BRL",
			})
			errs <- err
		}()

		wg.Wait()
	}

	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("transfer failed: %v", err)
		}
	}

	total := balanceCents(t, store, "100000") + balanceCents(t, store, "200000")
	if total != 200000 {
		t.Errorf("expected combined balance 200000, got %d", total)
	}
}
