package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount of minor currency units (cents) tagged with
// an ISO 4217 currency code. The amount is always a non-negative integer.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value. The amount must be a non-negative integer
// number of minor units.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	cur, err := normalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}

	if !amount.IsInteger() {
		return Money{}, fmt.Errorf("%w: %s is not a whole number of minor units", ErrInvalidAmount, amount)
	}

	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, amount)
	}

	return Money{amount: amount, currency: cur}, nil
}

// NewMoneyFromCents creates a Money value from an integer number of cents.
func NewMoneyFromCents(cents int64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromInt(cents), currency)
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

// Amount returns the amount in minor units.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Cents returns the amount as an int64 number of minor units.
func (m Money) Cents() int64 {
	return m.amount.IntPart()
}

// Currency returns the ISO 4217 currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Add returns m + other. Both values must share the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}

	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns m - other. Fails if the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}

	if other.amount.GreaterThan(m.amount) {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrNegativeResult, m.amount, other.amount)
	}

	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return false, err
	}

	return m.amount.GreaterThan(other.amount), nil
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return false, err
	}

	return m.amount.LessThan(other.amount), nil
}

// Equal reports whether m and other have the same currency and amount.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.String() + " " + m.currency
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}

	return nil
}

func normalizeCurrency(currency string) (string, error) {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if len(cur) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}

	for _, r := range cur {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
		}
	}

	return cur, nil
}
