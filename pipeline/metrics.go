package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors updated by a Pipeline.
type Metrics struct {
	OperationTotal    *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	Bytes             *prometheus.CounterVec
	FallbackTotal     prometheus.Counter
}

// NewMetrics creates the pipeline collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		OperationTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "splatpack_operations_total",
				Help: "Total number of encode and decode operations",
			},
			[]string{"operation", "status"}, // operation: encode/decode, status: success/error
		),
		OperationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splatpack_operation_duration_seconds",
				Help:    "Duration of encode and decode operations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"operation"},
		),
		Bytes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "splatpack_bytes_total",
				Help: "Bytes processed by encode, by stage",
			},
			[]string{"stage"}, // input/packed/framed
		),
		FallbackTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "splatpack_raw_fallback_total",
				Help: "Number of frames stored raw because compression did not pay off",
			},
		),
	}
}

func (m *Metrics) observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	m.OperationTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeEncoded(enc *Encoded, inputSize int) {
	if m == nil {
		return
	}

	m.Bytes.WithLabelValues("input").Add(float64(inputSize))
	m.Bytes.WithLabelValues("packed").Add(float64(enc.PackedSize()))
	m.Bytes.WithLabelValues("framed").Add(float64(len(enc.Frame)))
	if enc.Stats.Fallback {
		m.FallbackTotal.Inc()
	}
}
