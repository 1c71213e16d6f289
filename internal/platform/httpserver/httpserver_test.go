package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"signup/internal/platform/config"
)

func TestWriteTimeoutCoversCompensation(t *testing.T) {
	srv := New(config.Server{
		Addr:                ":9999",
		RegistrationTimeout: 10 * time.Second,
		Compensation:        config.CompensationConfig{Timeout: 15 * time.Second},
	}, http.NotFoundHandler())

	assert.Equal(t, ":9999", srv.Addr)
	assert.Greater(t, srv.WriteTimeout, 25*time.Second)
}
