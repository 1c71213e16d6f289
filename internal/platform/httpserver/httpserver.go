// Package httpserver builds the service's *http.Server.
package httpserver

import (
	"net/http"
	"time"

	"signup/internal/platform/config"
)

// writeSlack is added on top of the worst-case registration: the request
// deadline followed by a full compensation run.
const writeSlack = 5 * time.Second

// New returns a server for handler bound to cfg.Addr.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RegistrationTimeout + cfg.Compensation.Timeout + writeSlack,
		IdleTimeout:       90 * time.Second,
	}
}
