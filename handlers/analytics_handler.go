package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/middleware"
	"github.com/dookan/catalog-backend/services/analytics"
	"github.com/dookan/catalog-backend/utils"
)

// AnalyticsHandler handles the dashboard aggregate requests
type AnalyticsHandler struct {
	service *analytics.Service
	logger  *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service *analytics.Service, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

// EventDistribution handles GET /api/analytics/event-distribution
func (h *AnalyticsHandler) EventDistribution(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	distribution, err := h.service.EventDistribution(r.Context(), identity.ActorID)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteOK(w, distribution)
}

// UserActivity handles GET /api/analytics/user-activity
func (h *AnalyticsHandler) UserActivity(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	report, err := h.service.UserActivity(r.Context(), identity.ActorID)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteOK(w, report)
}

// SalesTrend handles GET /api/analytics/sales-trend
func (h *AnalyticsHandler) SalesTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.service.SalesTrend(r.Context(), queryInt(r, "sample", 0))
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteOK(w, trend)
}
