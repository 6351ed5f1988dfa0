// Package metrics collects and exposes Prometheus metrics for the booking API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service and middleware layers report to.
type Recorder interface {
	RecordRegistration(role string)
	RecordLogin(success bool)
	RecordAppointmentCreated()
	RecordStatusChange(status string)
	RecordAppointmentDeleted()
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	registrations  *prometheus.CounterVec
	logins         *prometheus.CounterVec
	created        prometheus.Counter
	statusChanges  *prometheus.CounterVec
	deleted        prometheus.Counter
	httpRequests   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_registrations_total",
			Help: "Registered users by role",
		}, []string{"role"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_appointments_created_total",
			Help: "Appointments requested by students",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_appointment_status_changes_total",
			Help: "Appointment status transitions by target status",
		}, []string{"status"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_appointments_deleted_total",
			Help: "Appointments deleted by students",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_http_requests_total",
			Help: "HTTP responses by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "booking_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.registrations,
		c.logins,
		c.created,
		c.statusChanges,
		c.deleted,
		c.httpRequests,
		c.requestLatency,
	)

	return c
}

func (c *Collector) RecordRegistration(role string) {
	c.registrations.WithLabelValues(role).Inc()
}

func (c *Collector) RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordAppointmentCreated() {
	c.created.Inc()
}

func (c *Collector) RecordStatusChange(status string) {
	c.statusChanges.WithLabelValues(status).Inc()
}

func (c *Collector) RecordAppointmentDeleted() {
	c.deleted.Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Nop discards everything. Useful in tests.
type Nop struct{}

func (Nop) RecordRegistration(string)                            {}
func (Nop) RecordLogin(bool)                                     {}
func (Nop) RecordAppointmentCreated()                            {}
func (Nop) RecordStatusChange(string)                            {}
func (Nop) RecordAppointmentDeleted()                            {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
