package news

import (
	"fmt"
	"net/http"
	"strconv"

	"rasad-feed/internal/handler/http/respond"
	"rasad-feed/internal/usecase/report"
)

// DigestHandler serves GET /digest?day=&per_agency= as plain text. Without
// day it renders today.
type DigestHandler struct{ Reports Reports }

// ServeHTTP ダイジェスト取得
// @Summary      ダイジェスト取得
// @Description  指定日のニュースを通信社ごとにまとめたテキストを返します
// @Tags         news
// @Produce      plain
// @Param        day query string false "YYYY-MM-DD (ジャラーリー暦)"
// @Param        per_agency query int false "通信社ごとの件数 (1-50)"
// @Success      200 {string} string "ダイジェスト本文"
// @Failure      400 {string} string "Bad request - invalid day or per_agency"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /digest [get]
func (h DigestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	per := report.DefaultDigestPerAgency
	if raw := r.URL.Query().Get("per_agency"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid per_agency %q: must be 1-50", raw))
			return
		}
		per = n
	}

	text, err := h.Reports.DigestFor(r.Context(), r.URL.Query().Get("day"), per)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.Text(w, http.StatusOK, text)
}
