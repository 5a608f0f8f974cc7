package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// MetricsService encapsulates Prometheus instrumentation for the portal and
// its directory traffic.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	directoryDuration *prometheus.HistogramVec
	directoryTotal    *prometheus.CounterVec
	mutations         *prometheus.CounterVec
	sessionRestores   *prometheus.CounterVec
	catalogRefreshes  *prometheus.CounterVec
}

// NewMetricsService registers the portal collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "Duration of portal HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "Total number of portal HTTP requests",
	}, []string{"method", "path", "status"})

	directoryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "directory_call_duration_seconds",
		Help:    "Duration of calls to the course directory",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	directoryTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "directory_calls_total",
		Help: "Calls to the course directory by outcome",
	}, []string{"operation", "outcome"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollment_mutations_total",
		Help: "Enroll and unenroll attempts by outcome",
	}, []string{"action", "outcome"})

	sessionRestores := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_restores_total",
		Help: "Session restore results",
	}, []string{"result"})

	catalogRefreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_refreshes_total",
		Help: "Catalog reloads by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, directoryDuration, directoryTotal, mutations, sessionRestores, catalogRefreshes, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		directoryDuration: directoryDuration,
		directoryTotal:    directoryTotal,
		mutations:         mutations,
		sessionRestores:   sessionRestores,
		catalogRefreshes:  catalogRefreshes,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records portal request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveDirectoryCall implements directory.Observer.
func (m *MetricsService) ObserveDirectoryCall(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.directoryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.directoryTotal.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordMutation counts an enroll or unenroll attempt.
func (m *MetricsService) RecordMutation(action, result string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(action, result).Inc()
}

// RecordSessionRestore counts how a restore settled.
func (m *MetricsService) RecordSessionRestore(result string) {
	if m == nil {
		return
	}
	m.sessionRestores.WithLabelValues(result).Inc()
}

// RecordCatalogRefresh counts catalog reloads.
func (m *MetricsService) RecordCatalogRefresh(err error) {
	if m == nil {
		return
	}
	m.catalogRefreshes.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
