// Package metrics collects and exposes Prometheus metrics for the app.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and records all application metrics.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  prometheus.Histogram
	queryLatency *prometheus.HistogramVec
	signups      prometheus.Counter
	logins       *prometheus.CounterVec
	bookings     *prometheus.CounterVec
	payments     prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "HTTP requests by status code",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "studio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		queryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studio_db_query_duration_seconds",
			Help:    "Database query latency in seconds by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studio_signups_total",
			Help: "Total successful signups",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_bookings_total",
			Help: "Appointment booking attempts by outcome",
		}, []string{"outcome"}),
		payments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studio_payments_recorded_total",
			Help: "Total payments recorded",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.queryLatency,
		c.signups,
		c.logins,
		c.bookings,
		c.payments,
	)

	return c
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// RecordQueryLatency records a database query timing.
func (c *Collector) RecordQueryLatency(op string, duration time.Duration) {
	c.queryLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordSignup records a successful signup.
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordLogin records a login attempt. outcome is "success" or "failure".
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// RecordBooking records a booking attempt. outcome is "persisted" or a
// rejection reason.
func (c *Collector) RecordBooking(outcome string) {
	c.bookings.WithLabelValues(outcome).Inc()
}

// RecordPayment records a recorded payment.
func (c *Collector) RecordPayment() {
	c.payments.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// statusRecorder wraps http.ResponseWriter and captures the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

// WriteHeader records the status code before delegating.
func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write records 200 if WriteHeader has not been called yet.
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

// Middleware returns middleware that records request count and latency.
func Middleware(c *Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			c.RecordHTTPRequest(status, time.Since(start))
		})
	}
}
