package dto

import (
	"github.com/zkybank/zkybank/internal/usecase"
)

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	AccountNumber       string `json:"account_number"`
	InitialDepositCents int64  `json:"initial_deposit_cents"`
	Currency            string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		AccountNumber:       r.AccountNumber,
		InitialDepositCents: r.InitialDepositCents,
		Currency:            r.Currency,
	}
}

// AmountRequest represents a deposit or withdrawal body.
type AmountRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// CreateTransferRequest represents a request to transfer between accounts.
type CreateTransferRequest struct {
	FromAccountNumber string `json:"from_account_number"`
	ToAccountNumber   string `json:"to_account_number"`
	AmountCents       int64  `json:"amount_cents"`
	Currency          string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromAccountNumber: r.FromAccountNumber,
		ToAccountNumber:   r.ToAccountNumber,
		AmountCents:       r.AmountCents,
		Currency:          r.Currency,
	}
}
