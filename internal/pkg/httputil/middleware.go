package httputil

import (
	"context"
	"net/http"
	"strings"

	"github.com/redveins/bloodlink/internal/domain"
	"github.com/redveins/bloodlink/internal/pkg/ctxlog"
	"github.com/redveins/bloodlink/internal/pkg/metrics"
)

// CORSMiddleware creates CORS middleware that handles preflight requests
// and adds appropriate CORS headers to responses.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	originsSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if originsSet[origin] || originsSet["*"] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type contextKey string

// principalKey stores the resolved user for the current request.
const principalKey contextKey = "principal"

// TokenVerifier checks a bearer token's signature and expiry and returns
// the user id it was issued for. All verification failures (malformed,
// expired, bad signature) collapse to a single error.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserSource loads a user record by id. The auth middleware re-reads the
// store on every request so a token issued for a since-deleted account
// stops resolving immediately.
type UserSource interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// AuthMiddleware creates authentication middleware. On success the
// resolved user is bound to the request context for downstream handlers
// and role gates. Authentication failures are all 401; the cause is
// logged, never surfaced to the client.
func AuthMiddleware(verifier TokenVerifier, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthFailures.WithLabelValues("missing_header").Inc()
				Error(w, http.StatusUnauthorized, "Authorization token is required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				metrics.AuthFailures.WithLabelValues("bad_scheme").Inc()
				Error(w, http.StatusUnauthorized, "Authorization token is required")
				return
			}

			userID, err := verifier.Verify(parts[1])
			if err != nil {
				ctxlog.FromContext(r.Context()).Debug("token rejected", "error", err)
				metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
				Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				// Covers both a token that outlived its account and a
				// storage failure; the distinction is log-only.
				ctxlog.FromContext(r.Context()).Debug("principal lookup failed",
					"user_id", userID, "error", err)
				metrics.AuthFailures.WithLabelValues("unknown_user").Inc()
				Error(w, http.StatusUnauthorized, "User not found")
				return
			}

			ctx := ctxlog.With(r.Context(), "user_id", user.ID)
			ctx = context.WithValue(ctx, principalKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext extracts the authenticated user from context.
func PrincipalFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(principalKey).(*domain.User)
	return user, ok
}

// RequireAdmin creates middleware that admits only principals whose role
// is exactly admin. Authentication is checked first: a missing principal
// is 401, a non-admin principal is 403, in that order always.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if !principal.Role.IsAdmin() {
				Error(w, http.StatusForbidden, "Forbidden: admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole creates middleware that admits principals whose role is a
// member of the given allow-list.
func RequireRole(allowed ...domain.Role) func(http.Handler) http.Handler {
	allowedSet := make(map[domain.Role]bool, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if !allowedSet[principal.Role] {
				Error(w, http.StatusForbidden, "Forbidden: insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
