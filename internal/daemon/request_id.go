package daemon

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/services"
)

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware tags each request context with a correlation ID,
// reusing a well-formed inbound header.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
	})
}
