package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"supermarket-erp/models"
	"supermarket-erp/pos"
	"supermarket-erp/store"
	"supermarket-erp/utils"

	"go.uber.org/zap"
)

// persistTimeout bounds writes that must finish even if the client goes away
const persistTimeout = 15 * time.Second

// persistContext returns a context for recording sales and refunds. It keeps the
// request's values but not its cancellation, so an abandoned request still completes.
func persistContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), persistTimeout)
}

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	var ve *models.ValidationError
	switch {
	case errors.Is(err, pos.ErrSaleRecordingFailed):
		return http.StatusBadGateway
	case errors.As(err, &ve),
		errors.Is(err, pos.ErrEmptyCart),
		errors.Is(err, pos.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateSKU),
		errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrAlreadyRefunded),
		errors.Is(err, store.ErrNotRefundable),
		errors.Is(err, store.ErrNegativeStock),
		errors.Is(err, pos.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err to the client, hiding internal failures behind a generic message
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusOf(err)
	switch status {
	case http.StatusInternalServerError:
		logger.Error("request failed", zap.Error(err))
		utils.WriteError(w, status, "Internal server error")
	case http.StatusBadGateway:
		logger.Error("sale not recorded", zap.Error(err))
		utils.WriteError(w, status, "Sale could not be recorded, the cart was kept")
	default:
		utils.WriteError(w, status, err.Error())
	}
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &models.ValidationError{Field: "body", Reason: "invalid JSON"}
	}
	return nil
}

// MessageResponse is returned by endpoints with nothing else to report
type MessageResponse struct {
	Message string `json:"message"`
}
