// Package metrics holds the Prometheus collectors for authentication
// outcomes and HTTP traffic. A nil *Metrics records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "authguard"

// Login results.
const (
	LoginSuccess            = "success"
	LoginMFARequired        = "mfa_required"
	LoginInvalidCredentials = "invalid_credentials"
)

// Second factor methods and results.
const (
	MethodTOTP       = "totp"
	MethodBackupCode = "backup_code"
	MethodNone       = "none" // neither factor matched

	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Metrics struct {
	logins           *prometheus.CounterVec
	mfaVerifications *prometheus.CounterVec
	registrations    prometheus.Counter
	mfaChanges       *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Password login attempts by result.",
		}, []string{"result"}),
		mfaVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mfa_verifications_total",
			Help:      "Second factor checks during login by method and result.",
		}, []string{"method", "result"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Accounts created.",
		}),
		mfaChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mfa_changes_total",
			Help:      "MFA enrollment changes by action.",
		}, []string{"action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, c := range []prometheus.Collector{
		m.logins, m.mfaVerifications, m.registrations, m.mfaChanges, m.httpRequests, m.httpDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the gathered metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) MFAVerification(method, result string) {
	if m == nil {
		return
	}
	m.mfaVerifications.WithLabelValues(method, result).Inc()
}

func (m *Metrics) Registration() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

// MFAChange counts setup, enable, disable and regenerate actions.
func (m *Metrics) MFAChange(action string) {
	if m == nil {
		return
	}
	m.mfaChanges.WithLabelValues(action).Inc()
}

// ObserveHTTP has the shape of slogx.Observer. The route label is the
// matched ServeMux pattern, never the raw path.
func (m *Metrics) ObserveHTTP(r *http.Request, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	route := r.Pattern
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
}
