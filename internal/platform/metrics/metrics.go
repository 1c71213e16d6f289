package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the registration workflow.
type Metrics struct {
	RegistrationsTotal   *prometheus.CounterVec
	RegistrationDuration prometheus.Histogram
	CompensationAttempts *prometheus.CounterVec
	OrphansRecorded      prometheus.Counter
	RateLimited          prometheus.Counter
}

// New creates and registers all collectors on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_registrations_total",
			Help: "Registration attempts by final workflow state",
		}, []string{"state"}),
		RegistrationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "signup_registration_duration_seconds",
			Help:    "End-to-end duration of registration attempts",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CompensationAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_compensation_attempts_total",
			Help: "Identity delete attempts made while compensating a failed profile insert",
		}, []string{"outcome"}),
		OrphansRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_orphaned_identities_total",
			Help: "Identities left without a profile after compensation failed",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_rate_limited_total",
			Help: "Registration requests rejected by the rate limiter",
		}),
	}
}

// ObserveRegistration records the final state and duration of one attempt.
func (m *Metrics) ObserveRegistration(state string, start time.Time) {
	m.RegistrationsTotal.WithLabelValues(state).Inc()
	m.RegistrationDuration.Observe(time.Since(start).Seconds())
}

// IncrementCompensationAttempt records one identity delete attempt.
func (m *Metrics) IncrementCompensationAttempt(succeeded bool) {
	outcome := "failure"
	if succeeded {
		outcome = "success"
	}
	m.CompensationAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementOrphansRecorded() {
	m.OrphansRecorded.Inc()
}

func (m *Metrics) IncrementRateLimited() {
	m.RateLimited.Inc()
}
