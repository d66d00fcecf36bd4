package main

import (
	"encoding/json"
	"net/http"

	"rasad-feed/internal/usecase/notify"
)

// ChannelHealthResponse is the body of GET /health/channels.
type ChannelHealthResponse struct {
	Healthy  bool                         `json:"healthy"`
	Channels []notify.ChannelHealthStatus `json:"channels"`
}

type channelHealther interface {
	ChannelHealth() []notify.ChannelHealthStatus
}

// channelHealthHandler answers 503 while any enabled channel has its
// circuit breaker open.
func channelHealthHandler(svc channelHealther) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		statuses := svc.ChannelHealth()
		healthy := true
		for _, s := range statuses {
			if s.Enabled && s.CircuitBreakerOpen {
				healthy = false
			}
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(ChannelHealthResponse{Healthy: healthy, Channels: statuses})
	}
}
