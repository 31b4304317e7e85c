package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "raffle"

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Registrations *prometheus.CounterVec
	Spins         *prometheus.CounterVec
	Draws         *prometheus.CounterVec
	Expirations   prometheus.Counter
	HTTPDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Player registrations by outcome.",
		}, []string{"outcome"}),
		Spins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_total",
			Help:      "Recorded spins by outcome.",
		}, []string{"outcome"}),
		Draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Winner draws by kind and outcome.",
		}, []string{"kind", "outcome"}),
		Expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaign_expirations_total",
			Help:      "Campaigns closed because ends_at passed.",
		}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Registrations, m.Spins, m.Draws, m.Expirations, m.HTTPDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware observes request latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSpin(outcome string) {
	if m == nil {
		return
	}
	m.Spins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDraw(kind, outcome string) {
	if m == nil {
		return
	}
	m.Draws.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveExpirations(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Expirations.Add(float64(n))
}
