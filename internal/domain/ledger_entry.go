package domain

import (
	"fmt"
	"time"
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	EntryTypeDeposit     EntryType = "DEPOSIT"
	EntryTypeWithdrawal  EntryType = "WITHDRAWAL"
	EntryTypeTransferIn  EntryType = "TRANSFER_IN"
	EntryTypeTransferOut EntryType = "TRANSFER_OUT"
)

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeDeposit, EntryTypeWithdrawal, EntryTypeTransferIn, EntryTypeTransferOut:
		return true
	}

	return false
}

// LedgerEntry is an immutable, append-only record of one balance-affecting
// event. The two legs of a transfer share a CorrelationID and carry each
// other's account number as Counterparty.
type LedgerEntry struct {
	ID            string
	AccountID     string
	Type          EntryType
	Amount        Money
	CorrelationID string        // empty unless part of a transfer
	Counterparty  AccountNumber // empty unless part of a transfer
	OccurredAt    time.Time
}

// NewLedgerEntry creates a ledger entry. The amount must be positive; a zero
// occurredAt defaults to the current time.
func NewLedgerEntry(
	id string,
	accountID string,
	entryType EntryType,
	amount Money,
	correlationID string,
	counterparty AccountNumber,
	occurredAt time.Time,
) (*LedgerEntry, error) {
	if !entryType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntryType, entryType)
	}

	if amount.IsZero() {
		return nil, fmt.Errorf("%w: ledger entry amount must be positive", ErrInvalidAmount)
	}

	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return &LedgerEntry{
		ID:            id,
		AccountID:     accountID,
		Type:          entryType,
		Amount:        amount,
		CorrelationID: correlationID,
		Counterparty:  counterparty,
		OccurredAt:    occurredAt,
	}, nil
}
