package server

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware caps how long a request's context stays alive. Handlers
// are expected to honor cancellation; nothing is forcibly terminated.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
