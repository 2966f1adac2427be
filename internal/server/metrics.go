package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-riskform/pkg/orchestrator"
	"github.com/goliatone/go-riskform/pkg/record"
)

// Prediction outcomes recorded in riskform_predictions_total.
const (
	OutcomePositive = "positive"
	OutcomeNegative = "negative"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Metrics owns a private registry so several servers can coexist in tests.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	predictions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewMetrics registers the riskform collectors plus the Go and process
// collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskform",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskform",
			Name:      "predictions_total",
			Help:      "Submissions by channel and outcome.",
		}, []string{"channel", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "riskform",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent collecting, assembling and predicting one submission.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"channel"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.predictions,
		m.latency,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSubmission records one submit on channel ("html" or "api").
func (m *Metrics) ObserveSubmission(channel string, sub *orchestrator.Submission, err error, elapsed time.Duration) {
	m.latency.WithLabelValues(channel).Observe(elapsed.Seconds())
	m.predictions.WithLabelValues(channel, outcome(sub, err)).Inc()
}

func outcome(sub *orchestrator.Submission, err error) string {
	switch {
	case errors.Is(err, orchestrator.ErrInvalidInput), errors.Is(err, record.ErrUnknownFeature):
		return OutcomeInvalid
	case err != nil:
		return OutcomeError
	case sub != nil && sub.Result != nil && sub.Result.Class == 1:
		return OutcomePositive
	default:
		return OutcomeNegative
	}
}
