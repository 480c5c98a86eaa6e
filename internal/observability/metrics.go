package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is what the HTTP layer records
type Metrics interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordAuthRejection(reason string)
	RecordLoginThrottled()
}

// Auth rejection reasons
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonNotOwner     = "not_owner"
)

// Collector records Metrics into Prometheus
type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	authRejections *prometheus.CounterVec
	loginThrottled prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "car_doctor_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "car_doctor_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "car_doctor_auth_rejections_total",
			Help: "Requests rejected by the access gate",
		}, []string{"reason"}),
		loginThrottled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "car_doctor_login_throttled_total",
			Help: "Login attempts refused by the rate limiter",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.authRejections, c.loginThrottled)
	return c
}

// RecordRequest records one served request
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthRejection records a 401 or 403 from the access gate
func (c *Collector) RecordAuthRejection(reason string) {
	c.authRejections.WithLabelValues(reason).Inc()
}

// RecordLoginThrottled records a 429 on login
func (c *Collector) RecordLoginThrottled() {
	c.loginThrottled.Inc()
}

// Handler returns the scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NopMetrics discards everything
type NopMetrics struct{}

func (NopMetrics) RecordRequest(string, string, int, time.Duration) {}
func (NopMetrics) RecordAuthRejection(string) {}
func (NopMetrics) RecordLoginThrottled() {}
