package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"rasad-feed/internal/usecase/notify"
)

type stubHealth []notify.ChannelHealthStatus

func (s stubHealth) ChannelHealth() []notify.ChannelHealthStatus { return s }

func TestChannelHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		statuses stubHealth
		wantCode int
		wantBody string
	}{
		{
			name:     "no channels",
			statuses: stubHealth{},
			wantCode: http.StatusOK,
			wantBody: `{"healthy":true,"channels":[]}`,
		},
		{
			name: "open breaker on enabled channel",
			statuses: stubHealth{
				{Name: "discord", Enabled: true, CircuitBreakerOpen: true},
				{Name: "slack", Enabled: false},
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"healthy":false,"channels":[
				{"name":"discord","enabled":true,"circuit_breaker_open":true},
				{"name":"slack","enabled":false,"circuit_breaker_open":false}]}`,
		},
		{
			name:     "open breaker on disabled channel is ignored",
			statuses: stubHealth{{Name: "slack", Enabled: false, CircuitBreakerOpen: true}},
			wantCode: http.StatusOK,
			wantBody: `{"healthy":true,"channels":[{"name":"slack","enabled":false,"circuit_breaker_open":true}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			channelHealthHandler(tt.statuses)(rec, httptest.NewRequest(http.MethodGet, "/health/channels", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
