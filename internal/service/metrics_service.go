package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/yoga-admission/internal/models"
)

// Submission outcomes used as metric labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// MetricsService encapsulates Prometheus instrumentation for enrollment submissions
// and the stub HTTP surface.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	submissionTotal    *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	enrollmentsByBatch *prometheus.CounterVec

	requestCount    uint64
	submissionCount uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	submissionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollment_submissions_total",
		Help: "Enrollment submit attempts by outcome",
	}, []string{"outcome"})

	submissionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "enrollment_submission_duration_seconds",
		Help:    "Time spent waiting for the enrollment endpoint",
		Buckets: prometheus.DefBuckets,
	})

	enrollmentsByBatch := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollments_received_total",
		Help: "Enrollments accepted by the stub, per batch",
	}, []string{"batch"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, submissionTotal, submissionDuration, enrollmentsByBatch, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		submissionTotal:    submissionTotal,
		submissionDuration: submissionDuration,
		enrollmentsByBatch: enrollmentsByBatch,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// ObserveSubmission records one submit attempt. Duration is ignored for
// attempts that never reached the network.
func (m *MetricsService) ObserveSubmission(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.submissionTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeInvalid {
		m.submissionDuration.Observe(duration.Seconds())
	}
	atomic.AddUint64(&m.submissionCount, 1)
}

// RecordEnrollment counts an accepted enrollment for its batch.
func (m *MetricsService) RecordEnrollment(batch models.Batch) {
	if m == nil {
		return
	}
	m.enrollmentsByBatch.WithLabelValues(batch.Label).Inc()
}

// Snapshot returns the number of observed HTTP requests and submit attempts.
func (m *MetricsService) Snapshot() (requests, submissions uint64) {
	if m == nil {
		return 0, 0
	}
	return atomic.LoadUint64(&m.requestCount), atomic.LoadUint64(&m.submissionCount)
}
