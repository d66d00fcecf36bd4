package worker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthServer_Liveness(t *testing.T) {
	h := NewHealthServer(":0", nil, discardLogger())

	rec := serve(h.Handler(), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthServer_Mount(t *testing.T) {
	h := NewHealthServer(":0", nil, discardLogger())
	h.Mount("GET /health/channels", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	assert.Equal(t, http.StatusTeapot, serve(h.Handler(), "/health/channels").Code)
	assert.Equal(t, http.StatusOK, serve(h.Handler(), "/health").Code)
}

func TestHealthServer_Readiness(t *testing.T) {
	tests := []struct {
		name  string
		ready bool
		store Pinger
		code  int
	}{
		{"not started", false, nil, http.StatusServiceUnavailable},
		{"ready without store", true, nil, http.StatusOK},
		{"ready and store up", true, stubPinger{}, http.StatusOK},
		{"store down", true, stubPinger{err: errors.New("refused")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthServer(":0", tt.store, discardLogger())
			h.SetReady(tt.ready)

			rec := serve(h.Handler(), "/health/ready")

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHealthServer_Metrics(t *testing.T) {
	h := NewHealthServer(":0", nil, discardLogger())

	rec := serve(h.Handler(), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHealthServer_StartStops(t *testing.T) {
	h := NewHealthServer("127.0.0.1:0", nil, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.Start(ctx) }()
	cancel()

	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}
