package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zkybank/zkybank/internal/adapter/http/dto"
	"github.com/zkybank/zkybank/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	GetTransactions(ctx context.Context, accountNumber string) ([]*usecase.LedgerEntryResult, error)
}

// EntryHandler serves transaction history requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByAccount returns the ledger entries of an account, most recent first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	results, err := h.entryUC.GetTransactions(r.Context(), number)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		AccountNumber: number,
		Transactions:  dto.EntriesFromResults(results),
	})
}
