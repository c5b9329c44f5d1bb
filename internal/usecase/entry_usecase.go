package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/zkybank/zkybank/internal/domain"
)

// EntryUseCase serves ledger entry queries.
type EntryUseCase struct {
	uowFactory UnitOfWorkFactory
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(uowFactory UnitOfWorkFactory) *EntryUseCase {
	return &EntryUseCase{uowFactory: uowFactory}
}

// LedgerEntryResult represents one ledger entry in query results.
type LedgerEntryResult struct {
	EntryID                   string
	EntryType                 domain.EntryType
	AmountCents               int64
	Currency                  string
	CorrelationID             string
	CounterpartyAccountNumber string
	OccurredAt                time.Time
}

// GetTransactions returns the ledger entries of an account, most recent
// first. Read-only, no locks.
func (uc *EntryUseCase) GetTransactions(ctx context.Context, accountNumber string) ([]*LedgerEntryResult, error) {
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

	entries, err := uow.Ledger().ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})

	results := make([]*LedgerEntryResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, &LedgerEntryResult{
			EntryID:                   e.ID,
			EntryType:                 e.Type,
			AmountCents:               e.Amount.Cents(),
			Currency:                  e.Amount.Currency(),
			CorrelationID:             e.CorrelationID,
			CounterpartyAccountNumber: e.Counterparty.String(),
			OccurredAt:                e.OccurredAt,
		})
	}

	return results, nil
}
