// Package handlers contains the HTTP handlers for the admin API: products,
// audit events, analytics, and health.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/middleware"
	"github.com/dookan/catalog-backend/models"
	syncsvc "github.com/dookan/catalog-backend/services/sync"
	"github.com/dookan/catalog-backend/utils"
	"github.com/dookan/catalog-backend/validation"
)

// ProductHandler handles product CRUD requests
type ProductHandler struct {
	service *syncsvc.Service
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service *syncsvc.Service, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var in validation.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	product, err := h.service.Create(r.Context(), identity, in)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteCreated(w, product)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteOK(w, product)
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := validation.ListParams{
		SortBy:  r.URL.Query().Get("sort_by"),
		Order:   r.URL.Query().Get("order"),
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 20),
	}
	search := r.URL.Query().Get("q")

	page, err := h.service.List(r.Context(), params, search)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteOK(w, page)
}

// Update handles PUT /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var update models.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	result, err := h.service.Update(r.Context(), identity, chi.URLParam(r, "id"), update)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	if result.NoOp {
		_ = utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse{
			Data:    result.Product,
			Message: "no fields to update",
		})
		return
	}

	_ = utils.WriteOK(w, result.Product)
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	if err := h.service.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
