package news

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/handler/http/respond"
)

// DeleteHandler serves DELETE /news/{id}.
type DeleteHandler struct{ Store Store }

// ServeHTTP ニュース削除
// @Summary      ニュース削除
// @Tags         news
// @Param        id path int true "ニュースID"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - invalid ID"
// @Failure      404 {string} string "Not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /news/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid id %q", raw))
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respond.SafeError(w, http.StatusNotFound, fmt.Errorf("news %d not found", id))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
