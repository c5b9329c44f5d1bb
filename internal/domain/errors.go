package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount        = errors.New("invalid money amount")
	ErrInvalidCurrency      = errors.New("invalid currency code")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrNegativeResult       = errors.New("money amount cannot be negative")
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrInvalidEntryType     = errors.New("invalid ledger entry type")

	// Business-rule errors
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSameAccountTransfer  = errors.New("cannot transfer to the same account")
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")

	// Concurrency errors
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)
