// Package highlight serves today's highlighted news.
package highlight

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/handler/http/news"
	"rasad-feed/internal/handler/http/respond"
)

// Service computes highlights over today's items. Empty keywords select the
// configured filter list.
type Service interface {
	Highlights(ctx context.Context, keywords []string) ([]*entity.NewsItem, error)
	HighlightGroups(ctx context.Context, keywords []string) ([]entity.HighlightGroup, error)
}

// GroupDTO is one highlight group.
type GroupDTO struct {
	Reason   string     `json:"reason"`
	Key      string     `json:"key"`
	Agencies []string   `json:"agencies"`
	Items    []news.DTO `json:"items"`
}

// Register mounts GET /highlights and GET /highlights/groups.
func Register(r chi.Router, svc Service) {
	r.Get("/highlights", ListHandler{Svc: svc}.ServeHTTP)
	r.Get("/highlights/groups", GroupsHandler{Svc: svc}.ServeHTTP)
}

// ListHandler serves GET /highlights?keyword=a&keyword=b.
type ListHandler struct{ Svc Service }

// ServeHTTP ハイライト取得
// @Summary      ハイライト取得
// @Description  キーワード一致と複数通信社で繰り返された見出しを返します。keyword 省略時はフィルタファイルを使います
// @Tags         highlights
// @Produce      json
// @Param        keyword query []string false "キーワード" collectionFormat(multi)
// @Success      200 {array} news.DTO
// @Failure      500 {string} string "サーバーエラー"
// @Router       /highlights [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.Highlights(r.Context(), r.URL.Query()["keyword"])
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, news.ToDTOs(items))
}

// GroupsHandler serves GET /highlights/groups?keyword=.
type GroupsHandler struct{ Svc Service }

// ServeHTTP ハイライト内訳取得
// @Summary      ハイライト内訳取得
// @Tags         highlights
// @Produce      json
// @Param        keyword query []string false "キーワード" collectionFormat(multi)
// @Success      200 {array} GroupDTO
// @Failure      500 {string} string "サーバーエラー"
// @Router       /highlights/groups [get]
func (h GroupsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Svc.HighlightGroups(r.Context(), r.URL.Query()["keyword"])
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupDTO{
			Reason:   string(g.Reason),
			Key:      g.Key,
			Agencies: g.Agencies(),
			Items:    news.ToDTOs(g.Items),
		})
	}
	respond.JSON(w, http.StatusOK, out)
}
