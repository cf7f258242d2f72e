package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	m.RowsDecoded.Add(3)
	m.Uploads.WithLabelValues("accepted").Inc()
	m.WritesInFlight.Inc()
	m.WritesInFlight.Dec()

	assert.InDelta(t, 3, testutil.ToFloat64(m.RowsDecoded), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Uploads.WithLabelValues("accepted")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.WritesInFlight), 0)

	// Creating a second set must not panic on registration.
	assert.NotPanics(t, func() { _ = NewMetricsForTesting() })
}
