package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/platinummonkey/backoffice/pkg/contextkeys"
)

// HeaderRequestID carries the request identifier on both sides of the gateway
const HeaderRequestID = "X-Request-ID"

// RequestID tags each request with an identifier. An inbound X-Request-ID is
// kept so the browser can correlate its own retries; otherwise one is minted.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, id)
		ctx := contextkeys.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
