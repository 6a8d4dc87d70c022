package httpapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics replaces the teacher sibling api-gateway's hand-rolled
// Metrics/MetricsResponse struct with the standard Prometheus client:
// request counts, durations, and a gauge of simulation runs in progress.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	active   prometheus.Gauge
}

// NewMetrics registers the control surface's metric collectors against
// the default Prometheus registry.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sim_engine",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total control surface requests by path, method, and status.",
		}, []string{"path", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sim_engine",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Control surface request latency by path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sim_engine",
			Subsystem: "runs",
			Name:      "active_total",
			Help:      "Simulation runs currently in progress.",
		}),
	}
}

// Middleware records request counts and latency for every route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	registerOnce(m)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.requests.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.status)).Inc()
		m.duration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the registered collectors at /metrics.
func (m *Metrics) Handler() http.HandlerFunc {
	registerOnce(m)
	return promhttp.Handler().ServeHTTP
}

var registerOnceGuard sync.Once

func registerOnce(m *Metrics) {
	registerOnceGuard.Do(func() {
		prometheus.MustRegister(m.requests, m.duration, m.active)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
