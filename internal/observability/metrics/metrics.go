// Package metrics exposes the service's prometheus instruments.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics holds application-level instruments.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	predictions  *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "beacon_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_risk_predictions_total",
			Help: "Risk predictions by strategy and resulting tier.",
		}, []string{"strategy", "tier"}),
	}

	for _, c := range []prometheus.Collector{m.httpRequests, m.httpDuration, m.predictions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordPrediction counts one computed prediction. Strategy is "model" or
// "rules".
func (m *Metrics) RecordPrediction(strategy, tier string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(strategy, tier).Inc()
}

// GinMiddleware instruments every request. Unmatched routes are grouped
// under "unknown" to keep cardinality bounded.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.httpRequests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideMetrics(reg *prometheus.Registry) (*Metrics, error) {
	return New(reg)
}

// Module wires the prometheus registry and instruments.
var Module = fx.Module("observability.metrics",
	fx.Provide(provideRegistry),
	fx.Provide(provideMetrics),
)
