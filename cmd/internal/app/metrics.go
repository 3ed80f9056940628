package app

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arathikrishnaam/dueDash/cmd/internal/task"
)

// Metrics holds the process collectors behind /metrics.
type Metrics struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tasks    *prometheus.GaugeVec
	users    prometheus.Gauge
	statsRun *prometheus.CounterVec
}

// NewMetrics registers the dueDash collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "duedash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "duedash",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		tasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "duedash",
			Name:      "tasks",
			Help:      "Stored tasks by derived category, as of the last stats run.",
		}, []string{"category"}),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "duedash",
			Name:      "users",
			Help:      "Registered users, as of the last stats run.",
		}),
		statsRun: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "duedash",
			Name:      "stats_runs_total",
			Help:      "Stats job runs by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.tasks, m.users, m.statsRun,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Middleware records request count and latency labelled by the matched route
// template, so /todos/1 and /todos/2 share one series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(lrw.status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// SetTaskCounts publishes the latest per-category counts.
func (m *Metrics) SetTaskCounts(c task.Counts) {
	m.tasks.WithLabelValues(string(task.CategoryCompleted)).Set(float64(c.Completed))
	m.tasks.WithLabelValues(string(task.CategoryPending)).Set(float64(c.Pending))
	m.tasks.WithLabelValues(string(task.CategoryOverdue)).Set(float64(c.Overdue))
}

// SetUsers publishes the latest user count.
func (m *Metrics) SetUsers(n int64) { m.users.Set(float64(n)) }

func (m *Metrics) statsResult(ok bool) {
	if ok {
		m.statsRun.WithLabelValues("success").Inc()
		return
	}
	m.statsRun.WithLabelValues("failure").Inc()
}
