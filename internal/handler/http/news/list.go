package news

import (
	"log/slog"
	"net/http"

	"rasad-feed/internal/common/pagination"
	"rasad-feed/internal/handler/http/respond"
	"rasad-feed/internal/observability/logging"
)

// ListHandler serves GET /news?limit=, newest first.
type ListHandler struct {
	Store  Store
	Limits pagination.Config
}

// ServeHTTP ニュース一覧取得
// @Summary      ニュース一覧取得
// @Description  新しい順にニュースを返します
// @Tags         news
// @Produce      json
// @Param        limit query int false "件数 (上限を超える値は上限に丸める)"
// @Success      200 {array} DTO
// @Failure      400 {string} string "Bad request - invalid limit"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /news [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := h.Limits.ParseLimit(r, h.Limits.DefaultLimit)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	items, err := h.Store.List(r.Context(), limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("list news failed", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, ToDTOs(items))
}
