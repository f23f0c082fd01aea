package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const usernameKey contextKey = "username"

// Middleware validates the bearer session token and injects the
// authenticated username into the request context. The token is read from
// the Authorization header or, for the browser client, from
// the x-access-token header.
func Middleware(tokenGenerator *TokenGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			// Try Authorization header first
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "Bearer <token>"
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			// Fall back to the legacy client header
			if token == "" {
				token = r.Header.Get("x-access-token")
			}

			if token == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"authentication required"}`))
				return
			}

			username, err := tokenGenerator.Validate(token)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"invalid or expired token"}`))
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsername retrieves the authenticated username from context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
