package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/middleware"
	"github.com/dookan/catalog-backend/services/audit"
	"github.com/dookan/catalog-backend/utils"
)

// EventHandler handles audit event listing and retention requests
type EventHandler struct {
	service       *audit.Service
	retentionDays int
	logger        *zap.Logger
}

// NewEventHandler creates a new EventHandler. retentionDays is the default
// pruning age applied when a retention request carries no explicit days.
func NewEventHandler(service *audit.Service, retentionDays int, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		service:       service,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// List handles GET /api/events. With a user_id parameter the listing is
// scoped to that actor; without one it spans all actors over the requested
// time range.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetIdentity(r.Context()); !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	filter := audit.ListFilter{
		ActorID: r.URL.Query().Get("user_id"),
		Kind:    r.URL.Query().Get("event_type"),
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 20),
	}

	var parseErrs []string
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			parseErrs = append(parseErrs, "Parameter 'start_date' must be an RFC 3339 timestamp")
		} else {
			filter.From = &ts
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			parseErrs = append(parseErrs, "Parameter 'end_date' must be an RFC 3339 timestamp")
		} else {
			filter.To = &ts
		}
	}
	if len(parseErrs) > 0 {
		_ = utils.WriteBadRequest(w, "validation failed", map[string]interface{}{"errors": parseErrs})
		return
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteOK(w, page)
}

// Prune handles DELETE /api/events/retention?days=N. Without an explicit
// days parameter the configured retention age applies.
func (h *EventHandler) Prune(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", h.retentionDays)

	deleted, err := h.service.Prune(r.Context(), days)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"deleted":        deleted,
		"retention_days": days,
	})
}
