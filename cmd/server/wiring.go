package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"signup/internal/audit"
	"signup/internal/identity"
	"signup/internal/orphan"
	"signup/internal/platform/config"
	"signup/internal/platform/metrics"
	"signup/internal/platform/postgres"
	"signup/internal/platform/redis"
	profilestore "signup/internal/profile/store"
	rlmw "signup/internal/ratelimit/middleware"
	rlstore "signup/internal/ratelimit/store"
	"signup/internal/registration/captcha"
	"signup/internal/registration/service"
	"signup/pkg/platform/circuit"
)

const auditQueueSize = 1024

type dependencies struct {
	service     *service.Service
	rateLimiter *rlmw.Middleware
	auditWorker *audit.Worker

	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client
}

// buildDeps constructs the long-lived store clients once. Empty URLs select
// in-memory stores so the service runs locally without infrastructure.
func buildDeps(ctx context.Context, cfg config.Server, log *slog.Logger, m *metrics.Metrics) (*dependencies, error) {
	deps := &dependencies{}

	var (
		profiles service.ProfileStore = profilestore.NewInMemoryProfileStore()
		orphans  service.OrphanStore  = orphan.NewInMemoryStore()
	)
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		deps.db = db
		if cfg.Database.MigrateOnStart {
			if err := postgres.Migrate(cfg.Database.URL); err != nil {
				deps.Close()
				return nil, err
			}
		}
		profiles = profilestore.NewPostgresProfileStore(db)
		orphans = orphan.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory profile and orphan stores")
	}

	auditStore, err := buildAuditStore(ctx, cfg, deps)
	if err != nil {
		deps.Close()
		return nil, err
	}
	queue := make(chan audit.Event, auditQueueSize)
	deps.auditWorker = audit.NewWorker(auditStore, queue, log)

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.redis = redisClient
	deps.rateLimiter = buildRateLimiter(cfg, log, m, redisClient)

	deps.service = service.New(buildIdentityStore(cfg, log), profiles,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(audit.NewQueuePublisher(queue)),
		service.WithOrphanStore(orphans),
		service.WithCaptcha(buildCaptcha(cfg)),
		service.WithCompensation(cfg.Compensation.MaxAttempts, cfg.Compensation.BaseBackoff, cfg.Compensation.Timeout),
	)
	return deps, nil
}

func buildIdentityStore(cfg config.Server, log *slog.Logger) service.IdentityStore {
	if cfg.Identity.URL == "" {
		log.Warn("IDENTITY_STORE_URL not set, using in-memory identity store")
		return identity.NewInMemoryStore()
	}
	breaker := circuit.New("identity-store",
		circuit.WithFailureThreshold(cfg.Identity.BreakerThreshold),
		circuit.WithCooldown(cfg.Identity.BreakerCooldown),
	)
	return identity.NewClient(cfg.Identity.URL, cfg.Identity.APIKey, cfg.Identity.Timeout, identity.WithBreaker(breaker))
}

func buildAuditStore(ctx context.Context, cfg config.Server, deps *dependencies) (audit.Store, error) {
	switch cfg.Audit.Sink {
	case config.AuditSinkPostgres:
		return audit.NewPostgresStore(deps.db), nil
	case config.AuditSinkKafka:
		client, err := audit.NewKafkaClient(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
		if err != nil {
			return nil, err
		}
		deps.kafka = client
		store := audit.NewKafkaStore(client, cfg.Audit.KafkaTopic)
		if err := store.EnsureTopic(ctx, 3, 1); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return audit.NewInMemoryStore(), nil
	}
}

func buildRateLimiter(cfg config.Server, log *slog.Logger, m *metrics.Metrics, client *redis.Client) *rlmw.Middleware {
	opts := []rlmw.Option{
		rlmw.WithMetrics(m),
		rlmw.WithDisabled(!cfg.RateLimit.Enabled),
	}
	var limiter rlmw.Limiter = rlstore.NewInMemoryStore()
	if client != nil {
		limiter = rlstore.NewRedisStore(client.Client)
		opts = append(opts, rlmw.WithFallback(rlstore.NewInMemoryStore(), circuit.New("ratelimit-redis")))
	}
	return rlmw.New(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, log, opts...)
}

func buildCaptcha(cfg config.Server) captcha.Verifier {
	if cfg.Captcha.Mode == config.CaptchaRequireToken {
		return captcha.RequireToken{}
	}
	return captcha.Disabled{}
}

// Ready pings the backing stores that are configured.
func (d *dependencies) Ready(ctx context.Context) error {
	if d.db != nil {
		if err := d.db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if d.redis != nil {
		if err := d.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (d *dependencies) Close() {
	if d.kafka != nil {
		d.kafka.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.db != nil {
		_ = d.db.Close()
	}
}
