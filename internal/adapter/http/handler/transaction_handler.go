package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zkybank/zkybank/internal/adapter/http/dto"
	"github.com/zkybank/zkybank/internal/infrastructure/metrics"
	"github.com/zkybank/zkybank/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*usecase.TransactionResult, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*usecase.TransactionResult, error)
}

// TransactionHandler handles deposit and withdrawal HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
	metrics       *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC, metrics: m}
}

// Deposit credits an account.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transactionUC.Deposit(r.Context(), usecase.DepositInput{
		AccountNumber: chi.URLParam(r, "number"),
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.AccountOperations.WithLabelValues("deposit").Inc()
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromResult(result))
}

// Withdraw debits an account.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transactionUC.Withdraw(r.Context(), usecase.WithdrawInput{
		AccountNumber: chi.URLParam(r, "number"),
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.AccountOperations.WithLabelValues("withdraw").Inc()
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromResult(result))
}
