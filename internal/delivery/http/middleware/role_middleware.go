package middleware

import (
	"net/http"

	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles.
// The role is the effective one resolved by AuthMiddleware.
func RequireRole(allowed ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			for _, role := range allowed {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireDoctor is a convenience middleware for doctor-only endpoints
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}
