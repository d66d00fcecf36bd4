// Package ingest serves POST /ingest.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rasad-feed/internal/handler/http/respond"
	"rasad-feed/internal/infra/scraper"
	"rasad-feed/internal/observability/logging"
	ingestUC "rasad-feed/internal/usecase/ingest"
)

// Runner runs one ingestion over the given agencies, or all when none.
type Runner interface {
	Run(ctx context.Context, agencies ...string) (*ingestUC.RunReport, error)
}

// Register mounts POST /ingest.
func Register(r chi.Router, runner Runner) {
	r.Post("/ingest", Handler{Runner: runner}.ServeHTTP)
}

// Handler serves POST /ingest?agency=IRNA&agency=ISNA. Partial failures
// still answer 200 with the per-source results; only an unreachable store
// is a 503.
type Handler struct{ Runner Runner }

// ServeHTTP 取り込み実行
// @Summary      取り込み実行
// @Description  指定した通信社 (省略時は全ソース) のニュースを取り込み、ソースごとの結果を返します
// @Tags         ingest
// @Produce      json
// @Param        agency query []string false "通信社名" collectionFormat(multi)
// @Success      200 {object} object "取り込みレポート"
// @Failure      400 {string} string "Bad request - unknown agency"
// @Failure      503 {string} string "ストア接続不可または中断"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /ingest [post]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report, err := h.Runner.Run(r.Context(), r.URL.Query()["agency"]...)
	if err != nil {
		switch {
		case errors.Is(err, scraper.ErrUnknownAgency), errors.Is(err, ingestUC.ErrNoSources):
			respond.SafeError(w, http.StatusBadRequest, err)
		case ingestUC.IsStoreUnavailable(err):
			logging.FromContext(r.Context()).Error("ingest aborted", slog.String("error", respond.SanitizeError(err)))
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "news store unavailable"})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "ingest cancelled"})
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, report)
}
