package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/authguard/internal/authguard/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	m.Login(metrics.LoginSuccess)
	m.Login(metrics.LoginInvalidCredentials)
	m.Login(metrics.LoginInvalidCredentials)
	m.MFAVerification(metrics.MethodBackupCode, metrics.ResultSuccess)
	m.Registration()
	m.MFAChange("enable")

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Pattern = "GET /livez"
	m.ObserveHTTP(req, http.StatusOK, 5*time.Millisecond)

	count, err := testutil.GatherAndCount(reg,
		"authguard_logins_total",
		"authguard_mfa_verifications_total",
		"authguard_registrations_total",
		"authguard_mfa_changes_total",
		"authguard_http_requests_total",
		"authguard_http_request_duration_seconds",
	)
	require.NoError(t, err)
	require.Equal(t, 7, count, "one series per distinct label set")

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `authguard_logins_total{result="invalid_credentials"} 2`)
	require.Contains(t, rec.Body.String(), `route="GET /livez"`)
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)
	_, err = metrics.New(reg)
	require.Error(t, err)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.Login(metrics.LoginSuccess)
		m.MFAVerification(metrics.MethodTOTP, metrics.ResultFailure)
		m.Registration()
		m.MFAChange("disable")
		m.ObserveHTTP(httptest.NewRequest(http.MethodGet, "/", nil), 200, time.Second)
	})
}
