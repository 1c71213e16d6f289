package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRegistration("profile_inserted", time.Now())
	m.ObserveRegistration("profile_inserted", time.Now())
	m.ObserveRegistration("compensated_failure", time.Now())
	m.IncrementCompensationAttempt(false)
	m.IncrementCompensationAttempt(true)
	m.IncrementOrphansRecorded()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("profile_inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("compensated_failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompensationAttempts.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompensationAttempts.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrphansRecorded))
}
