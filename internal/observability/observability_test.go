package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		want    zapcore.Level
		wantErr string
	}{
		{name: "json info", level: "info", format: "json", want: zapcore.InfoLevel},
		{name: "console debug", level: "debug", format: "console", want: zapcore.DebugLevel},
		{name: "warn", level: "warn", format: "json", want: zapcore.WarnLevel},
		{name: "invalid level", level: "loud", format: "json", wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.level, tt.format)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			assert.False(t, logger.Core().Enabled(tt.want-1))
		})
	}
}

func findMetric(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func TestCollector_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodGet, "/bookings", http.StatusOK, 20*time.Millisecond)
	c.RecordRequest(http.MethodGet, "/bookings", http.StatusOK, 30*time.Millisecond)
	c.RecordRequest(http.MethodGet, "/bookings", http.StatusForbidden, time.Millisecond)

	requests := findMetric(t, reg, "car_doctor_http_requests_total")
	assert.Len(t, requests.GetMetric(), 2)

	latency := findMetric(t, reg, "car_doctor_http_request_duration_seconds")
	require.Len(t, latency.GetMetric(), 1)
	assert.Equal(t, uint64(3), latency.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestCollector_AuthCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthRejection(ReasonMissingToken)
	c.RecordAuthRejection(ReasonNotOwner)
	c.RecordAuthRejection(ReasonNotOwner)
	c.RecordLoginThrottled()

	rejections := findMetric(t, reg, "car_doctor_auth_rejections_total")
	counts := map[string]float64{}
	for _, m := range rejections.GetMetric() {
		counts[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{ReasonMissingToken: 1, ReasonNotOwner: 2}, counts)

	throttled := findMetric(t, reg, "car_doctor_login_throttled_total")
	assert.Equal(t, float64(1), throttled.GetMetric()[0].GetCounter().GetValue())
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).RecordLoginThrottled()

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "car_doctor_login_throttled_total 1")
}

func TestNopMetrics(t *testing.T) {
	var m Metrics = NopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.RecordAuthRejection(ReasonInvalidToken)
		m.RecordLoginThrottled()
	})
}
