// Package auth implements session management for the admin tool: HS256
// access and refresh tokens carried in HttpOnly cookies (or a Bearer
// header), plus the register/login/profile endpoints.
package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dookan/catalog-backend/config"
	"github.com/dookan/catalog-backend/services"
)

const (
	// AccessCookieName carries the short-lived access token
	AccessCookieName = "access_token"

	// RefreshCookieName carries the long-lived refresh token
	RefreshCookieName = "refresh_token"

	// TokenTypeAccess and TokenTypeRefresh discriminate token use; a
	// refresh token is never accepted where an access token is required.
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the JWT claims issued for an admin session. Subject is the
// user's id; Name is a display-name snapshot for audit attribution.
type Claims struct {
	Name      string `json:"name"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Identity converts the claims to the typed actor identity used by services
func (c *Claims) Identity() services.Identity {
	return services.Identity{
		ActorID:   c.Subject,
		ActorName: c.Name,
	}
}

// TokenManager issues and validates session tokens
type TokenManager struct {
	secret       []byte
	accessTTL    time.Duration
	refreshTTL   time.Duration
	cookieDomain string
	cookieSecure bool
}

// NewTokenManager creates a TokenManager from the JWT configuration
func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret:       []byte(cfg.Secret),
		accessTTL:    cfg.AccessTTL,
		refreshTTL:   cfg.RefreshTTL,
		cookieDomain: cfg.CookieDomain,
		cookieSecure: cfg.CookieSecure,
	}
}

// IssueAccess signs a new access token for the user
func (m *TokenManager) IssueAccess(userID, name string) (string, error) {
	return m.issue(userID, name, TokenTypeAccess, m.accessTTL)
}

// IssueRefresh signs a new refresh token for the user
func (m *TokenManager) IssueRefresh(userID, name string) (string, error) {
	return m.issue(userID, name, TokenTypeRefresh, m.refreshTTL)
}

func (m *TokenManager) issue(userID, name, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Name:      name,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate parses and verifies a token, requiring the given token type.
// All failures collapse to services.ErrInvalidToken; the caller gets no
// hint whether the token was malformed, expired, or of the wrong type.
func (m *TokenManager) Validate(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, services.ErrInvalidToken
	}
	if claims.TokenType != wantType || claims.Subject == "" {
		return nil, services.ErrInvalidToken
	}
	return claims, nil
}

// ValidateAccess verifies an access token and returns the actor identity.
// This is the shape the auth middleware consumes.
func (m *TokenManager) ValidateAccess(tokenString string) (services.Identity, error) {
	claims, err := m.Validate(tokenString, TokenTypeAccess)
	if err != nil {
		return services.Identity{}, err
	}
	return claims.Identity(), nil
}

// SetSessionCookies writes both token cookies on the response
func (m *TokenManager) SetSessionCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, m.cookie(AccessCookieName, access, m.accessTTL))
	http.SetCookie(w, m.cookie(RefreshCookieName, refresh, m.refreshTTL))
}

// ClearSessionCookies expires both token cookies
func (m *TokenManager) ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		c := m.cookie(name, "", 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (m *TokenManager) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   m.cookieDomain,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	}
	return c
}
