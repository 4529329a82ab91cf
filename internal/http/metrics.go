package httpx

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

type requestMetrics struct {
	total         *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	rateLimitHits *prometheus.CounterVec
	initialized   bool
}

// newRequestMetrics registers per-service request collectors. Registration
// collisions happen when tests build several routers in one process; the
// already registered collectors are reused in that case.
func newRequestMetrics(subsystem string) *requestMetrics {
	m := &requestMetrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "multiapis",
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "multiapis",
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "multiapis",
			Subsystem: subsystem,
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"route", "key"}),
	}

	collectors := []prometheus.Collector{m.total, m.latency, m.rateLimitHits}
	for _, collector := range collectors {
		if err := prometheus.Register(collector); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch v := are.ExistingCollector.(type) {
				case *prometheus.CounterVec:
					if collector == m.total {
						m.total = v
					} else if collector == m.rateLimitHits {
						m.rateLimitHits = v
					}
				case *prometheus.HistogramVec:
					m.latency = v
				}
			}
		}
	}
	m.initialized = true
	return m
}

func (m *requestMetrics) record(method, route string, status int, duration time.Duration) {
	if m == nil || !m.initialized {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.total.With(labels).Inc()
	m.latency.With(labels).Observe(duration.Seconds())
}

func (m *requestMetrics) rateLimitHit(route, key string) {
	if m == nil || !m.initialized {
		return
	}
	m.rateLimitHits.With(prometheus.Labels{"route": route, "key": key}).Inc()
}

// normalizeRoute collapses id path segments so the route label stays low
// cardinality.
func normalizeRoute(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if _, err := strconv.ParseInt(part, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
