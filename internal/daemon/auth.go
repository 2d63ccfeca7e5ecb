package daemon

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authMiddleware guards admin routes with a bearer token. Without a
// configured token the routes are disabled.
func authMiddleware(token string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token == "" {
			writeRawError(w, http.StatusServiceUnavailable, "admin api disabled: set paths.api_token")
			return
		}
		auth := r.Header.Get("Authorization")
		supplied, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			writeRawError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}
