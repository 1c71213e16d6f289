package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures process level configuration. Every field is read from the
// environment so main stays lean.
type Server struct {
	Addr                string        `env:"SIGNUP_ADDR" envDefault:":8080"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	RegistrationTimeout time.Duration `env:"REGISTRATION_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Database     DatabaseConfig
	Redis        RedisConfig
	Identity     IdentityConfig
	Compensation CompensationConfig
	RateLimit    RateLimitConfig
	Captcha      CaptchaConfig
	Audit        AuditConfig
}

// DatabaseConfig configures the PostgreSQL profile, orphan and audit stores.
// An empty URL selects in-memory stores.
type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	MigrateOnStart  bool          `env:"DATABASE_MIGRATE_ON_START" envDefault:"true"`
}

// RedisConfig configures the rate limit store. An empty URL disables Redis.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// IdentityConfig points at the identity provider's admin users API. An empty
// URL selects the in-memory identity store (development only).
type IdentityConfig struct {
	URL              string        `env:"IDENTITY_STORE_URL"`
	APIKey           string        `env:"IDENTITY_STORE_API_KEY"`
	Timeout          time.Duration `env:"IDENTITY_STORE_TIMEOUT" envDefault:"5s"`
	BreakerThreshold int           `env:"IDENTITY_STORE_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"IDENTITY_STORE_BREAKER_COOLDOWN" envDefault:"10s"`
}

// CompensationConfig bounds the retried identity delete after a failed
// profile insert.
type CompensationConfig struct {
	MaxAttempts uint64        `env:"COMPENSATION_MAX_ATTEMPTS" envDefault:"3"`
	BaseBackoff time.Duration `env:"COMPENSATION_BASE_BACKOFF" envDefault:"100ms"`
	Timeout     time.Duration `env:"COMPENSATION_TIMEOUT" envDefault:"15s"`
}

// RateLimitConfig configures the per-IP limit on the registration endpoint.
type RateLimitConfig struct {
	Enabled bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Limit   int           `env:"RATE_LIMIT_REGISTER_PER_WINDOW" envDefault:"10"`
	Window  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// CaptchaConfig selects the captcha verifier.
type CaptchaConfig struct {
	Mode string `env:"CAPTCHA_MODE" envDefault:"disabled"`
}

// AuditConfig selects the audit sink: memory, postgres or kafka.
type AuditConfig struct {
	Sink         string   `env:"AUDIT_SINK" envDefault:"memory"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"AUDIT_KAFKA_TOPIC" envDefault:"signup.audit"`
}

const (
	CaptchaDisabled     = "disabled"
	CaptchaRequireToken = "require_token"

	AuditSinkMemory   = "memory"
	AuditSinkPostgres = "postgres"
	AuditSinkKafka    = "kafka"
)

// FromEnv builds a Server config from environment variables.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c Server) Validate() error {
	switch c.Captcha.Mode {
	case CaptchaDisabled, CaptchaRequireToken:
	default:
		return fmt.Errorf("unknown CAPTCHA_MODE %q", c.Captcha.Mode)
	}
	switch c.Audit.Sink {
	case AuditSinkMemory:
	case AuditSinkPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("AUDIT_SINK=postgres requires DATABASE_URL")
		}
	case AuditSinkKafka:
		if len(c.Audit.KafkaBrokers) == 0 {
			return fmt.Errorf("AUDIT_SINK=kafka requires KAFKA_BROKERS")
		}
	default:
		return fmt.Errorf("unknown AUDIT_SINK %q", c.Audit.Sink)
	}
	if c.Compensation.MaxAttempts == 0 {
		return fmt.Errorf("COMPENSATION_MAX_ATTEMPTS must be at least 1")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("rate limit requires a positive limit and window")
	}
	if c.Identity.URL != "" && c.Identity.APIKey == "" {
		return fmt.Errorf("IDENTITY_STORE_URL requires IDENTITY_STORE_API_KEY")
	}
	return nil
}
