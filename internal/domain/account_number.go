package domain

import (
	"fmt"
	"strings"
)

// AccountNumber is the external identity of an account: 6 to 12 ASCII
// digits. It doubles as the natural sort key for lock ordering.
type AccountNumber string

// ParseAccountNumber validates and normalizes an account number.
// Surrounding whitespace is stripped; anything other than 6-12 digits fails.
func ParseAccountNumber(value string) (AccountNumber, error) {
	normalized := strings.TrimSpace(value)

	if len(normalized) < 6 || len(normalized) > 12 {
		return "", fmt.Errorf("%w: must be 6 to 12 digits, got %d", ErrInvalidAccountNumber, len(normalized))
	}

	for _, r := range normalized {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: must contain only digits", ErrInvalidAccountNumber)
		}
	}

	return AccountNumber(normalized), nil
}

func (n AccountNumber) String() string {
	return string(n)
}

// Less reports whether n sorts before other. Lock acquisition on multiple
// accounts must follow this order.
func (n AccountNumber) Less(other AccountNumber) bool {
	return n < other
}
