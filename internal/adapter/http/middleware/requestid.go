package middleware

import (
	"net/http"

	wrap "gocab/pkg/logger/wrapper"
	"gocab/pkg/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id for log correlation, reusing
// the client's header when present.
func (a *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.MustNew().String()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := wrap.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
