// Package cors sets the permissive CORS headers browser clients of the
// registration endpoint expect.
package cors

import "net/http"

const (
	AllowOrigin  = "*"
	AllowHeaders = "authorization, x-client-info, apikey, content-type"
)

// Middleware adds the CORS headers to every response, errors included.
// Preflight handling is left to the route so OPTIONS gets its own body.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetHeaders(w)
		next.ServeHTTP(w, r)
	})
}

// SetHeaders writes the CORS headers onto w.
func SetHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", AllowOrigin)
	w.Header().Set("Access-Control-Allow-Headers", AllowHeaders)
}
