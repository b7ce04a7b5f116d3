package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/storefront-menu/internal/propagation"
)

// AdminHandler serves the menu builder: applying templates, detaching
// dishes and deleting templates.
type AdminHandler struct {
	propagation *propagation.Service
	logger      *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(propagation *propagation.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		propagation: propagation,
		logger:      logger,
	}
}

type applyToDishesRequest struct {
	DishIDs []string `json:"dishIds"`
}

type applyToCategoryRequest struct {
	CategoryID string `json:"categoryId"`
}

// ApplyToDishes handles POST /api/admin/templates/{templateId}/apply
// The response is the per-dish manifest, even when some dishes failed.
func (h *AdminHandler) ApplyToDishes(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateId")

	var req applyToDishesRequest
	if err := decodeJSON(w, r, &req); err != nil || len(req.DishIDs) == 0 {
		WriteError(w, http.StatusBadRequest, "dishIds must list at least one dish", h.logger)
		return
	}

	result, err := h.propagation.ApplyTemplateToDishes(r.Context(), templateID, req.DishIDs)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, result, h.logger)
}

// ApplyToCategory handles POST /api/admin/templates/{templateId}/apply-category
func (h *AdminHandler) ApplyToCategory(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateId")

	var req applyToCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil || req.CategoryID == "" {
		WriteError(w, http.StatusBadRequest, "categoryId is required", h.logger)
		return
	}

	result, err := h.propagation.ApplyTemplateToCategory(r.Context(), templateID, req.CategoryID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, result, h.logger)
}

// BreakInheritance handles POST /api/admin/dishes/{dishId}/break-inheritance
func (h *AdminHandler) BreakInheritance(w http.ResponseWriter, r *http.Request) {
	dishID := chi.URLParam(r, "dishId")

	result, err := h.propagation.BreakInheritance(r.Context(), dishID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, result, h.logger)
}

// DeleteTemplate handles DELETE /api/admin/templates/{templateId}
func (h *AdminHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := chi.URLParam(r, "templateId")

	result, err := h.propagation.DeleteTemplate(r.Context(), templateID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, result, h.logger)
}
