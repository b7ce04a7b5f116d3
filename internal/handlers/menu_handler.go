package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
	"github.com/Lixing-Zhang/storefront-menu/internal/service"
)

// MenuHandler serves the customer-facing menu
type MenuHandler struct {
	service *service.MenuService
	logger  *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(service *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// PriceRequest is the body of a price preview.
type PriceRequest struct {
	Size      string           `json:"size,omitempty"`
	Selection models.Selection `json:"selection,omitempty"`
}

// GetMenu handles GET /api/restaurants/{restaurantId}/menu
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")

	menu, err := h.service.GetMenu(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, menu, h.logger)
}

// GetDish handles GET /api/dishes/{dishId}
func (h *MenuHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	dishID := chi.URLParam(r, "dishId")

	dish, err := h.service.GetDish(r.Context(), dishID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, dish, h.logger)
}

// PreviewPrice handles POST /api/dishes/{dishId}/price
// 200 for a known dish, with the body saying whether the selection is
// valid; 422 when the selection cannot be priced at all.
func (h *MenuHandler) PreviewPrice(w http.ResponseWriter, r *http.Request) {
	dishID := chi.URLParam(r, "dishId")

	var req PriceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode price request", "dish_id", dishID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	preview, err := h.service.PreviewPrice(r.Context(), dishID, req.Size, req.Selection)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, preview, h.logger)
}
