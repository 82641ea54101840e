package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/internal/usecase"
	"go-medical-marketplace/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const principalKey contextKey = "principal"

// SessionCookieName carries the session token for browser clients
const SessionCookieName = "session_token"

// PrincipalResolver turns a session token into the current identity
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*entity.Principal, error)
}

type AuthMiddleware struct {
	resolver PrincipalResolver
	log      *logrus.Logger
}

func NewAuthMiddleware(resolver PrincipalResolver, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		log:      log,
	}
}

// Authenticate rejects requests without a valid session
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			response.Unauthorized(w, "Authentication required")
			return
		}

		principal, err := m.resolver.ResolvePrincipal(r.Context(), token)
		if err != nil {
			if isAuthError(err) {
				response.Unauthorized(w, "Invalid or expired session")
				return
			}
			m.log.Warnf("Failed to resolve session: %+v", err)
			response.InternalServerError(w, "Failed to validate session")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// Identify attaches the principal when the session is valid and otherwise
// lets the request through unauthenticated
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.resolver.ResolvePrincipal(r.Context(), token)
		if err != nil {
			if !isAuthError(err) {
				m.log.Warnf("Failed to resolve session: %+v", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func isAuthError(err error) bool {
	return errors.Is(err, usecase.ErrInvalidToken) ||
		errors.Is(err, usecase.ErrTokenRevoked) ||
		errors.Is(err, usecase.ErrUserNotFound)
}

// tokenFromRequest prefers the Authorization header over the cookie
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func WithPrincipal(ctx context.Context, p *entity.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal extracts the authenticated principal from context
func GetPrincipal(ctx context.Context) (*entity.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*entity.Principal)
	return p, ok && p != nil
}
