// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector records validation metrics.
type Collector struct {
	validationsTotal   *prometheus.CounterVec
	validationErrors   *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector creates a metrics collector registered against reg. A nil reg
// uses the default Prometheus registerer; a nil logger defaults to
// zap.NewNop().
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.validationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of validation calls",
		},
		[]string{"schema", "outcome"},
	)

	c.validationErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Total number of field validation errors by kind",
		},
		[]string{"schema", "kind"},
	)

	c.validationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Validation call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"schema"},
	)

	return c
}

// ObserveValidation records one validation call.
func (c *Collector) ObserveValidation(schema string, ok bool, d time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	c.validationsTotal.WithLabelValues(schema, outcome).Inc()
	c.validationDuration.WithLabelValues(schema).Observe(d.Seconds())
}

// CountError records one field validation error of the given kind.
func (c *Collector) CountError(schema, kind string) {
	c.validationErrors.WithLabelValues(schema, kind).Inc()
}
