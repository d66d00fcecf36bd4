package news

import (
	"errors"
	"net/http"

	"rasad-feed/internal/common/pagination"
	"rasad-feed/internal/handler/http/respond"
	"rasad-feed/internal/usecase/report"
)

// DaysHandler serves GET /news/days. With ?day=YYYY-MM-DD it returns that
// Jalali day's report; without it the newest items grouped by day.
type DaysHandler struct {
	Reports Reports
	Limits  pagination.Config
}

// ServeHTTP 日別ニュース取得
// @Summary      日別ニュース取得
// @Description  day 指定時はその日 (ジャラーリー暦) のレポート、省略時は直近のニュースを日ごとに返します
// @Tags         news
// @Produce      json
// @Param        day query string false "YYYY-MM-DD (ジャラーリー暦)"
// @Param        limit query int false "day 省略時の件数"
// @Success      200 {object} DayReportDTO
// @Failure      400 {string} string "Bad request - invalid day or limit"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /news/days [get]
func (h DaysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if day := r.URL.Query().Get("day"); day != "" {
		rep, err := h.Reports.Day(r.Context(), day)
		if err != nil {
			respond.SafeError(w, statusFor(err), err)
			return
		}
		respond.JSON(w, http.StatusOK, dayReportDTO(rep))
		return
	}

	limit, err := h.Limits.ParseLimit(r, report.DefaultRecentLimit)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	groups, err := h.Reports.Recent(r.Context(), limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, dayDTOs(groups))
}

func statusFor(err error) int {
	if errors.Is(err, report.ErrInvalidDay) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
