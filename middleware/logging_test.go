package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type requestRecord struct {
	method string
	route  string
	status int
}

type requestMetrics struct {
	recordingMetrics
	requests []requestRecord
}

func (m *requestMetrics) RecordRequest(method, route string, status int, _ time.Duration) {
	m.requests = append(m.requests, requestRecord{method: method, route: route, status: status})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	metrics := &requestMetrics{}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(zap.New(core), metrics))
	r.Get("/services/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/services/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, first.Level)
	fields := first.ContextMap()
	assert.Equal(t, "/services/abc", fields["path"])
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.NotEmpty(t, fields["request_id"])

	assert.Equal(t, zapcore.InfoLevel, logs.All()[1].Level)

	assert.Equal(t, []requestRecord{
		{method: http.MethodGet, route: "/services/{id}", status: http.StatusNotFound},
		{method: http.MethodGet, route: "/", status: http.StatusOK},
	}, metrics.requests)
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
