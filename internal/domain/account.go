package domain

import (
	"fmt"
	"time"
)

// Account is the aggregate root for a balance. All mutations go through
// Deposit and Withdraw so the non-negative balance invariant holds; the
// Version column backs optimistic conflict detection in the stores.
type Account struct {
	ID        string
	Number    AccountNumber
	Balance   Money
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpenAccount creates a new account with a zero balance.
func OpenAccount(id string, number AccountNumber, currency string) (*Account, error) {
	balance, err := Zero(currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Account{
		ID:        id,
		Number:    number,
		Balance:   balance,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Deposit adds amount to the balance. The amount must be non-zero.
func (a *Account) Deposit(amount Money) error {
	if amount.IsZero() {
		return fmt.Errorf("%w: deposit amount must be greater than zero", ErrInvalidAmount)
	}

	balance, err := a.Balance.Add(amount)
	if err != nil {
		return err
	}

	a.Balance = balance

	return nil
}

// Withdraw subtracts amount from the balance. The amount must be non-zero
// and must not exceed the current balance.
func (a *Account) Withdraw(amount Money) error {
	if amount.IsZero() {
		return fmt.Errorf("%w: withdrawal amount must be greater than zero", ErrInvalidAmount)
	}

	exceeds, err := amount.GreaterThan(a.Balance)
	if err != nil {
		return err
	}

	if exceeds {
		return fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, a.Balance, amount)
	}

	balance, err := a.Balance.Sub(amount)
	if err != nil {
		return err
	}

	a.Balance = balance

	return nil
}
