package middleware

import (
	"net/http"
	"strings"

	"github.com/cardoctor/server/auth"
	"github.com/cardoctor/server/internal/observability"
	"github.com/cardoctor/server/services"
	"github.com/cardoctor/server/utils"
	"go.uber.org/zap"
)

// TokenVerifier checks a bearer credential and returns the identity it carries
type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// AuthMiddleware is the access gate in front of owner-scoped routes
type AuthMiddleware struct {
	verifier   TokenVerifier
	cookieName string
	metrics    observability.Metrics
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. A nil metrics records nothing.
func NewAuthMiddleware(verifier TokenVerifier, cookieName string, metrics observability.Metrics, logger *zap.Logger) *AuthMiddleware {
	if metrics == nil {
		metrics = observability.NopMetrics{}
	}
	return &AuthMiddleware{
		verifier:   verifier,
		cookieName: cookieName,
		metrics:    metrics,
		logger:     logger,
	}
}

// RequireAuth rejects the request with 401 unless it carries a valid token.
// The verified identity is stored in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := m.extractToken(r)
		if token == "" {
			m.logger.Warn("missing token",
				zap.String("request_id", requestID))
			m.metrics.RecordAuthRejection(observability.ReasonMissingToken)
			_ = utils.WriteUnauthorized(w, services.ErrUnauthorized.Message)
			return
		}

		identity, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("request_id", requestID))
			m.metrics.RecordAuthRejection(observability.ReasonInvalidToken)
			_ = utils.WriteUnauthorized(w, services.ErrUnauthorized.Message)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("email", identity.Email))

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

// RequireOwner rejects with 403 unless the query parameter param names the
// authenticated identity. It must run after RequireAuth.
func (m *AuthMiddleware) RequireOwner(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			identity, ok := IdentityFromContext(ctx)
			if !ok {
				m.logger.Error("identity not found in context",
					zap.String("request_id", requestID))
				m.metrics.RecordAuthRejection(observability.ReasonMissingToken)
				_ = utils.WriteUnauthorized(w, services.ErrUnauthorized.Message)
				return
			}

			if err := AuthorizeOwner(identity, r.URL.Query().Get(param)); err != nil {
				m.logger.Warn("ownership check failed",
					zap.String("request_id", requestID),
					zap.String("param", param))
				m.metrics.RecordAuthRejection(observability.ReasonNotOwner)
				_ = utils.WriteForbidden(w, services.ErrForbidden.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthorizeOwner returns services.ErrForbidden unless requested is exactly the
// identity's email. No case folding or trimming is applied.
func AuthorizeOwner(identity *auth.Identity, requested string) error {
	if identity == nil || identity.Email == "" || identity.Email != requested {
		return services.ErrForbidden
	}
	return nil
}

// extractToken reads the session cookie, falling back to "Authorization: Bearer TOKEN"
func (m *AuthMiddleware) extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return extractBearerToken(r)
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
