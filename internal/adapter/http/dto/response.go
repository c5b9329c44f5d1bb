package dto

import (
	"time"

	"github.com/zkybank/zkybank/internal/usecase"
)

// AccountResponse represents a created account in API responses.
type AccountResponse struct {
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
	BalanceCents  int64  `json:"balance_cents"`
	Currency      string `json:"currency"`
}

// AccountFromResult converts a use case result to a response.
func AccountFromResult(r *usecase.AccountResult) *AccountResponse {
	return &AccountResponse{
		AccountID:     r.AccountID,
		AccountNumber: r.AccountNumber,
		BalanceCents:  r.BalanceCents,
		Currency:      r.Currency,
	}
}

// BalanceResponse represents an account balance.
type BalanceResponse struct {
	AccountNumber string `json:"account_number"`
	BalanceCents  int64  `json:"balance_cents"`
	Currency      string `json:"currency"`
}

// BalanceFromResult converts a use case result to a response.
func BalanceFromResult(r *usecase.BalanceResult) *BalanceResponse {
	return &BalanceResponse{
		AccountNumber: r.AccountNumber,
		BalanceCents:  r.BalanceCents,
		Currency:      r.Currency,
	}
}

// TransactionResponse represents the account state after a deposit or
// withdrawal.
type TransactionResponse struct {
	AccountNumber string `json:"account_number"`
	BalanceCents  int64  `json:"balance_cents"`
	Currency      string `json:"currency"`
}

// TransactionFromResult converts a use case result to a response.
func TransactionFromResult(r *usecase.TransactionResult) *TransactionResponse {
	return &TransactionResponse{
		AccountNumber: r.AccountNumber,
		BalanceCents:  r.BalanceCents,
		Currency:      r.Currency,
	}
}

// TransferResponse represents a completed transfer.
type TransferResponse struct {
	CorrelationID     string `json:"correlation_id"`
	FromAccountNumber string `json:"from_account_number"`
	ToAccountNumber   string `json:"to_account_number"`
	FromBalanceCents  int64  `json:"from_balance_cents"`
	ToBalanceCents    int64  `json:"to_balance_cents"`
	Currency          string `json:"currency"`
}

// TransferFromResult converts a use case result to a response.
func TransferFromResult(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		CorrelationID:     r.CorrelationID,
		FromAccountNumber: r.FromAccountNumber,
		ToAccountNumber:   r.ToAccountNumber,
		FromBalanceCents:  r.FromBalanceCents,
		ToBalanceCents:    r.ToBalanceCents,
		Currency:          r.Currency,
	}
}

// LedgerEntryResponse represents one ledger entry.
type LedgerEntryResponse struct {
	EntryID                   string    `json:"entry_id"`
	EntryType                 string    `json:"entry_type"`
	AmountCents               int64     `json:"amount_cents"`
	Currency                  string    `json:"currency"`
	CorrelationID             string    `json:"correlation_id,omitempty"`
	CounterpartyAccountNumber string    `json:"counterparty_account_number,omitempty"`
	OccurredAt                time.Time `json:"occurred_at"`
}

// ListTransactionsResponse represents an account's transaction history.
type ListTransactionsResponse struct {
	AccountNumber string                 `json:"account_number"`
	Transactions  []*LedgerEntryResponse `json:"transactions"`
}

// EntriesFromResults converts use case results to responses.
func EntriesFromResults(results []*usecase.LedgerEntryResult) []*LedgerEntryResponse {
	entries := make([]*LedgerEntryResponse, len(results))
	for i, r := range results {
		entries[i] = &LedgerEntryResponse{
			EntryID:                   r.EntryID,
			EntryType:                 string(r.EntryType),
			AmountCents:               r.AmountCents,
			Currency:                  r.Currency,
			CorrelationID:             r.CorrelationID,
			CounterpartyAccountNumber: r.CounterpartyAccountNumber,
			OccurredAt:                r.OccurredAt,
		}
	}

	return entries
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
