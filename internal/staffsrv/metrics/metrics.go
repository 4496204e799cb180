// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tansive/tansive-workforce/internal/common/httpx"
)

const namespace = "workforce"

const (
	LabelSuccess = "success"
	LabelError   = "error"
)

// GatewayMetrics tracks tenant connection usage.
type GatewayMetrics struct {
	ConnRequests prometheus.Counter
	ConnReturns  prometheus.Counter
	PoolOpens    *prometheus.CounterVec
	PoolCloses   *prometheus.CounterVec
	OpenPools    prometheus.Gauge
	Queries      *prometheus.CounterVec
	QueryLatency *prometheus.HistogramVec
}

func NewGatewayMetrics() *GatewayMetrics {
	const subsystem = "gateway"
	return &GatewayMetrics{
		ConnRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "conn_requests_total",
			Help:      "Count of tenant connections acquired",
		}),
		ConnReturns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "conn_returns_total",
			Help:      "Count of tenant connections released",
		}),
		PoolOpens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pool_opens_total",
			Help:      "Count of tenant pools opened",
		}, []string{"mode"}),
		PoolCloses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pool_closes_total",
			Help:      "Count of tenant pools closed",
		}, []string{"mode"}),
		OpenPools: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "open_pools",
			Help:      "Number of tenant pools currently open",
		}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queries_total",
			Help:      "Count of statements executed against tenant databases",
		}, []string{"op", "result"}),
		QueryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "query_latency_seconds",
			Help:      "Histogram of statement latency including connection setup",
			Buckets:   prometheus.ExponentialBuckets(1e-3, 4, 8),
		}, []string{"op"}),
	}
}

func (m *GatewayMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ConnRequests, m.ConnReturns, m.PoolOpens, m.PoolCloses, m.OpenPools, m.Queries, m.QueryLatency,
	}
}

// ObserveQuery records one statement.
func (m *GatewayMetrics) ObserveQuery(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := LabelSuccess
	if err != nil {
		result = LabelError
	}
	m.Queries.WithLabelValues(op, result).Inc()
	m.QueryLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// HTTPMetrics tracks requests served by the API.
type HTTPMetrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	const subsystem = "http"
	return &HTTPMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *HTTPMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Requests, m.RequestDuration}
}

// Middleware records every request by its chi route pattern so path
// parameters do not explode label cardinality.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := httpx.NewResponseWriter(w)
		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(rw.Status())).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

var (
	Registry = prometheus.NewRegistry()
	Gateway  = NewGatewayMetrics()
	HTTP     = NewHTTPMetrics()
)

// Handler serves the collectors registered on Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

func init() {
	Registry.MustRegister(Gateway.Collectors()...)
	Registry.MustRegister(HTTP.Collectors()...)
	Registry.MustRegister(collectors.NewGoCollector())
}
