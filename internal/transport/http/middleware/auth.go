package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	jwtinfra "github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/jwt"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// Auth returns middleware that validates the platform Bearer JWT and injects
// its claims into the request context. Every authenticated request carries a
// tenant id; handlers never accept a tenant from the request body or URL.
func Auth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := provider.Verify(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the verified platform claims, if any.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return claims, ok
}

// writeJSONError writes a JSON-encoded error response with the correct Content-Type.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
