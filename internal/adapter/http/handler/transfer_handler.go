package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zkybank/zkybank/internal/adapter/http/dto"
	"github.com/zkybank/zkybank/internal/infrastructure/metrics"
	"github.com/zkybank/zkybank/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
}

// TransferHandler handles transfer HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, metrics: m}
}

// Create moves money between two accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transferUC.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.TransfersCompleted.Inc()
		h.metrics.TransferAmount.Observe(float64(req.AmountCents))
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromResult(result))
}
