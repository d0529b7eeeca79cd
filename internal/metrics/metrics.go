package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector exposes the engine's operational metrics to Prometheus.
type Collector struct {
	validationsTotal   *prometheus.CounterVec
	validationDuration prometheus.Histogram
	riskScores         prometheus.Histogram
	complianceScores   prometheus.Histogram
	alertsTotal        *prometheus.CounterVec
	batchSize          prometheus.Histogram
}

// NewCollector registers the engine metrics on the given registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		validationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "claims_validations_total",
			Help: "Total claim validations by overall status.",
		}, []string{"status"}),
		validationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "claims_validation_duration_seconds",
			Help:    "Duration of a single claim validation.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		riskScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "claims_risk_score",
			Help:    "Distribution of computed risk scores.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		complianceScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "claims_compliance_score",
			Help:    "Distribution of computed compliance scores.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		alertsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compliance_alerts_total",
			Help: "Total compliance alerts raised by severity.",
		}, []string{"severity"}),
		batchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "claims_validation_batch_size",
			Help:    "Number of claims per batch validation request.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

// ObserveValidation records one completed validation.
func (c *Collector) ObserveValidation(status string, riskScore, complianceScore float64, duration time.Duration) {
	c.validationsTotal.WithLabelValues(status).Inc()
	c.validationDuration.Observe(duration.Seconds())
	c.riskScores.Observe(riskScore)
	c.complianceScores.Observe(complianceScore)
}

// ObserveBatch records the size of a batch validation request.
func (c *Collector) ObserveBatch(size int) {
	c.batchSize.Observe(float64(size))
}

// ObserveAlert records one raised alert.
func (c *Collector) ObserveAlert(severity string) {
	c.alertsTotal.WithLabelValues(severity).Inc()
}
