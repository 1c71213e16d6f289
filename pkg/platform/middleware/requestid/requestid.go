// Package requestid bridges chi's request id into requestcontext so services
// can log it without importing chi.
package requestid

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"signup/pkg/requestcontext"
)

// Header echoes the request id back to the client.
const Header = "X-Request-ID"

// Middleware must run after chi's middleware.RequestID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimw.GetReqID(r.Context())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
