package news

import (
	"net/http"
	"sort"

	"rasad-feed/internal/handler/http/respond"
)

// AgencyCount is one row of GET /news/agencies.
type AgencyCount struct {
	Agency string `json:"agency"`
	Count  int64  `json:"count"`
}

// AgenciesHandler serves GET /news/agencies, largest agency first.
type AgenciesHandler struct{ Reports Reports }

// ServeHTTP 通信社別件数取得
// @Summary      通信社別件数取得
// @Tags         news
// @Produce      json
// @Success      200 {array} AgencyDTO
// @Failure      500 {string} string "サーバーエラー"
// @Router       /news/agencies [get]
func (h AgenciesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Reports.AgencyCounts(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]AgencyCount, 0, len(counts))
	for agency, n := range counts {
		out = append(out, AgencyCount{Agency: agency, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Agency < out[j].Agency
	})
	respond.JSON(w, http.StatusOK, out)
}
