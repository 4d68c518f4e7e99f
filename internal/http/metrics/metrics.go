package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	durations *prometheus.HistogramVec
	registry  *prometheus.Registry
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Collector{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "itboard_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "status"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "itboard_errors_total",
			Help: "Total number of error responses by error code.",
		}, []string{"code"}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "itboard_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds.",
		}, []string{"method"}),
	}
}

func (c *Collector) ObserveRequest(method, status string, seconds float64) {
	c.requests.WithLabelValues(method, status).Inc()
	c.durations.WithLabelValues(method).Observe(seconds)
}

func (c *Collector) IncError(code string) {
	c.errors.WithLabelValues(code).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
