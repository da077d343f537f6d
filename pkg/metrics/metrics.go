package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	assessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healytics_assessments_total",
			Help: "Total number of completed risk assessments",
		},
		[]string{"mode", "prediction"},
	)

	assessmentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "healytics_assessment_duration_seconds",
			Help:    "Assessment request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)
)

// ObserveAssessment records one completed assessment.
func ObserveAssessment(mode, prediction string, seconds float64) {
	assessmentsTotal.WithLabelValues(mode, prediction).Inc()
	assessmentDuration.WithLabelValues(mode).Observe(seconds)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
