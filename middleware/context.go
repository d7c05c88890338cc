package middleware

import (
	"context"

	"github.com/dookan/catalog-backend/services"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// IdentityKey is the context key for the authenticated actor
	IdentityKey contextKey = "identity"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithIdentity adds the authenticated actor to the context
func WithIdentity(ctx context.Context, identity services.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity retrieves the authenticated actor from context
func GetIdentity(ctx context.Context) (services.Identity, bool) {
	if val := ctx.Value(IdentityKey); val != nil {
		if identity, ok := val.(services.Identity); ok {
			return identity, true
		}
	}
	return services.Identity{}, false
}
