package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/storefront-menu/internal/models"
	"github.com/Lixing-Zhang/storefront-menu/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// PlaceOrder handles POST /api/orders
//   - 201: order placed
//   - 400: malformed body, empty order or bad quantity
//   - 409: idempotency key already used
//   - 422: one or more items failed validation, itemized per line
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, order, h.log)
}
