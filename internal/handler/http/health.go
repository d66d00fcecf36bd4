package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"rasad-feed/internal/handler/http/respond"
	"rasad-feed/internal/observability/metrics"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the state of one dependency: healthy, degraded or unhealthy.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Pinger is a dependency that answers a ping, such as the Redis locker.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler checks the database and optional extra dependencies.
// Only an unhealthy database makes the endpoint return 503.
type HealthHandler struct {
	DB      *sql.DB
	Extra   map[string]Pinger
	Version string
}

// ServeHTTP ヘルスチェック
// @Summary      ヘルスチェック
// @Description  データベースと依存サービスの状態を返します
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse "データベース応答なし"
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus, 1+len(h.Extra))
	healthy := true

	if h.DB == nil {
		checks["database"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		healthy = false
	} else {
		c := h.checkDatabase(ctx)
		checks["database"] = c
		healthy = c.Status != "unhealthy"
	}

	for name, p := range h.Extra {
		if err := p.Ping(ctx); err != nil {
			checks[name] = CheckStatus{Status: "degraded", Message: "unreachable"}
			continue
		}
		checks[name] = CheckStatus{Status: "healthy"}
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: "unhealthy", Message: "ping failed"}
	}

	stats := h.DB.Stats()
	metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
	if stats.MaxOpenConnections > 0 {
		util := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
		details["utilization_percent"] = util
		if util >= 80 {
			return CheckStatus{Status: "degraded", Message: "connection pool utilization above 80%", Details: details}
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}
