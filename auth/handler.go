package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/middleware"
	"github.com/dookan/catalog-backend/utils"
)

// Handler exposes the auth endpoints
type Handler struct {
	service *Service
	tokens  *TokenManager
	logger  *zap.Logger
}

// NewHandler creates a new auth handler
func NewHandler(service *Service, tokens *TokenManager, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
		logger:  logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// decodeAndValidate decodes the body into dst and runs its validate tags,
// writing the 400 response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		if fields, ok := utils.ValidationFields(err); ok {
			details := make(map[string]interface{}, len(fields))
			for k, v := range fields {
				details[k] = v
			}
			_ = utils.WriteBadRequest(w, "Validation failed", details)
		} else {
			_ = utils.WriteBadRequest(w, "Validation failed", nil)
		}
		return false
	}
	return true
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteCreated(w, user)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	h.tokens.SetSessionCookies(w, pair.Access, pair.Refresh)
	_ = utils.WriteOK(w, user)
}

// Refresh handles POST /api/auth/refresh. The refresh token comes from its
// cookie only; a Bearer access token cannot mint a new session.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		_ = utils.WriteUnauthorized(w, "Missing refresh token")
		return
	}

	user, pair, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	h.tokens.SetSessionCookies(w, pair.Access, pair.Refresh)
	_ = utils.WriteOK(w, user)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.tokens.ClearSessionCookies(w)
	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	user, err := h.service.Profile(r.Context(), identity.ActorID)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteOK(w, user)
}

// UpdateMe handles PUT /api/auth/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var req updateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), identity.ActorID, req.Name, req.Password)
	if err != nil {
		_ = utils.WriteServiceError(w, err)
		return
	}

	_ = utils.WriteOK(w, user)
}
