package middleware

import (
	"net/http"
	"strings"

	"go-medical-marketplace/internal/domain/entity"
)

const (
	HomePath       = "/"
	SearchPath     = "/search"
	OnboardingPath = "/onboarding"
	SignInPath     = "/auth/signin"
)

// Decision is the gate outcome for one page request
type Decision struct {
	Allow  bool
	Target string
}

func allow() Decision { return Decision{Allow: true} }

func redirect(target string) Decision { return Decision{Target: target} }

func hasPrefixSegment(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAdminPath(path string) bool {
	return hasPrefixSegment(path, "/admin")
}

func isGatedPath(path string) bool {
	switch {
	case path == HomePath, path == SearchPath, path == OnboardingPath:
		return true
	case hasPrefixSegment(path, "/doctor"), hasPrefixSegment(path, "/patient"), isAdminPath(path):
		return true
	}
	return false
}

// Decide classifies the principal and applies the page rules in order:
// sign-in required, onboarding first, no re-onboarding for doctors and
// admins, admin pages for admins only.
func Decide(path string, principal *entity.Principal) Decision {
	if !isGatedPath(path) {
		return allow()
	}

	state := entity.ClassifyState(principal)

	if state == entity.StateUnauthenticated {
		if path == HomePath || path == SearchPath || hasPrefixSegment(path, "/api") {
			return allow()
		}
		return redirect(SignInPath)
	}

	if state == entity.StateNotOnboarded && path != OnboardingPath {
		return redirect(OnboardingPath)
	}

	if path == OnboardingPath && (state == entity.StateOnboardedDoctor || state == entity.StateOnboardedAdmin) {
		return redirect(HomePath)
	}

	if isAdminPath(path) && state != entity.StateOnboardedAdmin {
		return redirect(HomePath)
	}

	return allow()
}

type GateMiddleware struct {
	baseURL string
}

func NewGateMiddleware(baseURL string) *GateMiddleware {
	return &GateMiddleware{baseURL: strings.TrimRight(baseURL, "/")}
}

// Handle must run after AuthMiddleware.Identify
func (g *GateMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := GetPrincipal(r.Context())

		decision := Decide(r.URL.Path, principal)
		if !decision.Allow {
			http.Redirect(w, r, g.baseURL+decision.Target, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
