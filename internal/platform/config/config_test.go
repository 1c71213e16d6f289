package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.RegistrationTimeout)
	assert.Equal(t, uint64(3), cfg.Compensation.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Compensation.BaseBackoff)
	assert.Equal(t, CaptchaDisabled, cfg.Captcha.Mode)
	assert.Equal(t, AuditSinkMemory, cfg.Audit.Sink)
	assert.Equal(t, 10, cfg.RateLimit.Limit)
	assert.Empty(t, cfg.Identity.URL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SIGNUP_ADDR", ":9090")
	t.Setenv("IDENTITY_STORE_URL", "https://idp.example.com/auth/v1")
	t.Setenv("IDENTITY_STORE_API_KEY", "service-role")
	t.Setenv("COMPENSATION_MAX_ATTEMPTS", "5")
	t.Setenv("AUDIT_SINK", "kafka")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("CAPTCHA_MODE", "require_token")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "https://idp.example.com/auth/v1", cfg.Identity.URL)
	assert.Equal(t, uint64(5), cfg.Compensation.MaxAttempts)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Audit.KafkaBrokers)
	assert.Equal(t, CaptchaRequireToken, cfg.Captcha.Mode)
}

func TestValidate(t *testing.T) {
	base := func() Server {
		return Server{
			Captcha:      CaptchaConfig{Mode: CaptchaDisabled},
			Audit:        AuditConfig{Sink: AuditSinkMemory},
			Compensation: CompensationConfig{MaxAttempts: 3},
			RateLimit:    RateLimitConfig{Enabled: true, Limit: 10, Window: time.Minute},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Server)
	}{
		{"unknown captcha mode", func(s *Server) { s.Captcha.Mode = "recaptcha" }},
		{"postgres audit without database", func(s *Server) { s.Audit.Sink = AuditSinkPostgres }},
		{"kafka audit without brokers", func(s *Server) { s.Audit.Sink = AuditSinkKafka }},
		{"zero compensation attempts", func(s *Server) { s.Compensation.MaxAttempts = 0 }},
		{"identity url without key", func(s *Server) { s.Identity.URL = "https://idp.example.com" }},
		{"non-positive rate limit", func(s *Server) { s.RateLimit.Limit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, base().Validate())
}
