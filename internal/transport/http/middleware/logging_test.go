package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"arogyakrishi/internal/metrics"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(zap.New(core), m))
	r.Get("/api/chat/audio/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("gone"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/chat/audio/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "/api/chat/audio/{id}", first["route"])
	assert.Equal(t, "/api/chat/audio/abc", first["path"])
	assert.EqualValues(t, http.StatusNotFound, first["status"])
	assert.EqualValues(t, 4, first["bytes"])
	assert.NotEmpty(t, first["request_id"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
