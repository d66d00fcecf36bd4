// Package filter serves the highlight keyword list.
package filter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/handler/http/respond"
)

// Service reads and replaces the keyword list.
type Service interface {
	List(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, keywords []string) ([]string, error)
}

// DTO is the body of GET and PUT /filters.
type DTO struct {
	Keywords []string `json:"keywords"`
}

// Register mounts GET and PUT /filters.
func Register(r chi.Router, svc Service) {
	r.Get("/filters", GetHandler{Svc: svc}.ServeHTTP)
	r.Put("/filters", PutHandler{Svc: svc}.ServeHTTP)
}

// GetHandler serves GET /filters.
type GetHandler struct{ Svc Service }

// ServeHTTP キーワード一覧取得
// @Summary      キーワード一覧取得
// @Tags         filters
// @Produce      json
// @Success      200 {object} DTO
// @Failure      500 {string} string "サーバーエラー"
// @Router       /filters [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kws, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, DTO{Keywords: nonNil(kws)})
}

// PutHandler serves PUT /filters, replacing the whole list.
type PutHandler struct{ Svc Service }

// ServeHTTP キーワード一覧置換
// @Summary      キーワード一覧置換
// @Tags         filters
// @Accept       json
// @Produce      json
// @Param        filters body DTO true "キーワード一覧"
// @Success      200 {object} DTO
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /filters [put]
func (h PutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body DTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if body.Keywords == nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("keywords is required"))
		return
	}

	kws, err := h.Svc.Replace(r.Context(), body.Keywords)
	if err != nil {
		if errors.Is(err, entity.ErrValidationFailed) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, DTO{Keywords: nonNil(kws)})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
