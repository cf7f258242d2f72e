package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "incident_ingest"

// Metrics holds the Prometheus counters, histograms, and gauges for the ingest pipeline.
type Metrics struct {
	Uploads        *prometheus.CounterVec // labels: outcome={accepted,rejected}
	UploadDuration prometheus.Histogram
	UploadSize     prometheus.Histogram

	RowsDecoded  prometheus.Counter
	RowsRejected prometheus.Counter

	// Store write metrics.
	RecordsIssued  prometheus.Counter
	RecordsWritten prometheus.Counter
	WriteFailures  prometheus.Counter
	WritesInFlight prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Uploads,
		m.UploadDuration,
		m.UploadSize,
		m.RowsDecoded,
		m.RowsRejected,
		m.RecordsIssued,
		m.RecordsWritten,
		m.WriteFailures,
		m.WritesInFlight,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploads received, by outcome.",
		}, []string{"outcome"}),
		UploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Time from receiving an upload to issuing its last write.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		UploadSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_size_bytes",
			Help:      "Size of uploaded spreadsheet files.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		RowsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_decoded_total",
			Help:      "Data rows read from uploaded sheets.",
		}),
		RowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Rows dropped because their coordinates did not parse.",
		}),
		RecordsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_issued_total",
			Help:      "Incident writes issued to the store.",
		}),
		RecordsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Incident writes acknowledged by the store.",
		}),
		WriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failures_total",
			Help:      "Incident writes the store rejected or failed.",
		}),
		WritesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "writes_in_flight",
			Help:      "Incident writes issued but not yet finished.",
		}),
	}
}
