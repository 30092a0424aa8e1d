package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenMiddleware guards the API with a single shared bearer token. Real
// identity lives with the dashboard's SSO layer in front of this service;
// an empty token disables the check for local development.
func TokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			presented := ""
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				presented = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
			if presented == "" {
				// query fallback for websocket connections
				presented = r.URL.Query().Get("token")
			}

			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
