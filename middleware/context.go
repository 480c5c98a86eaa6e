package middleware

import (
	"context"

	"github.com/cardoctor/server/auth"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Context key type to avoid collisions
type contextKey string

// IdentityKey is the context key for the verified token identity
const IdentityKey contextKey = "identity"

// WithIdentity adds the verified identity to context
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFromContext retrieves the verified identity from context
func IdentityFromContext(ctx context.Context) (*auth.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*auth.Identity)
	return identity, ok && identity != nil
}

// GetRequestIDFromContext returns the id set by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
