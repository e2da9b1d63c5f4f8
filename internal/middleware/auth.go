package middleware

import (
	"net/http"
	"strings"
)

// TokenValidator validates a bearer token and returns the subject user
// ID. Implemented by the auth package's token service.
type TokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

// Auth validates an optional bearer token. A valid token attaches the
// user ID to the context for downstream handlers; a missing token
// passes through as an anonymous request. A present but invalid token
// is rejected with 401 so clients learn their session is stale instead
// of silently losing personalization.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, r.Context(), http.StatusUnauthorized, "auth_failed", "Invalid Authorization header")
				return
			}

			userID, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeError(w, r.Context(), http.StatusUnauthorized, "auth_failed", "Invalid or expired token")
				return
			}

			ctx := SetUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
