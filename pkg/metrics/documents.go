package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultQuota   = "quota_exceeded"
)

// DocumentMetrics tracks pipeline operations by outcome.
type DocumentMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewDocumentMetrics registers the pipeline collectors.
func NewDocumentMetrics(reg prometheus.Registerer) *DocumentMetrics {
	if reg == nil {
		return &DocumentMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pdflex_document_operations_total",
		Help: "Document pipeline operations by result.",
	}, []string{"operation", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pdflex_document_operation_duration_seconds",
		Help:    "Duration of document pipeline operations in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"operation"})
	reg.MustRegister(operations, duration)
	return &DocumentMetrics{
		operations: operations,
		duration:   duration,
	}
}

// Observe records one finished operation.
func (d *DocumentMetrics) Observe(operation, result string, elapsed time.Duration) {
	if d == nil || d.operations == nil {
		return
	}
	op := normalizeLabel(operation)
	d.operations.WithLabelValues(op, normalizeLabel(result)).Inc()
	d.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
