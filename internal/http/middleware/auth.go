package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/billable/internal/auth"
	"github.com/MrJamesThe3rd/billable/internal/http/respond"
)

type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth rejects requests that do not carry a valid bearer token.
// Verified claims are placed on the request context for handlers that
// need the caller's identity.
func RequireAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Message(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				respond.Message(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			claims, err := svc.VerifyToken(token)
			if err != nil {
				respond.Message(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the verified claims set by RequireAuth, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
