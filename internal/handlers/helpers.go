package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
	"github.com/Lixing-Zhang/storefront-menu/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON value from the request body. Unknown
// fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps service and domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrDishNotFound),
		errors.Is(err, models.ErrTemplateNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrRestaurantNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyDetached),
		errors.Is(err, service.ErrDuplicateOrder):
		return http.StatusConflict
	case errors.Is(err, models.ErrCrossCategoryMismatch),
		errors.Is(err, models.ErrInvalidGroup),
		errors.Is(err, models.ErrUnknownSizeVariant),
		errors.Is(err, models.ErrQuantityOutOfRange),
		errors.Is(err, models.ErrPriceOverflow),
		errors.Is(err, models.ErrGroupIDCollision):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrMixedCurrency):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError translates err into a JSON error response. Internal
// errors are logged and their detail is not exposed.
func writeServiceError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var verr *service.OrderValidationError
	if errors.As(err, &verr) {
		WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: verr.Error(),
			Lines: verr.Lines,
		}, logger)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		WriteError(w, status, "Internal server error", logger)
		return
	}

	resp := ErrorResponse{Error: err.Error()}
	if kind := models.KindOf(err); kind != models.KindInternal {
		resp.Kind = kind
	}
	WriteJSON(w, status, resp, logger)
}
