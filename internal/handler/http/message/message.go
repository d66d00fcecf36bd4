// Package message serves the editor's daily messages.
package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rasad-feed/internal/common/pagination"
	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/handler/http/respond"
	msgUC "rasad-feed/internal/usecase/message"
)

// Service is the daily message use case.
type Service interface {
	Create(ctx context.Context, in msgUC.CreateInput) (*entity.DailyMessage, error)
	List(ctx context.Context, category string, limit int) ([]*entity.DailyMessage, error)
	Today(ctx context.Context) ([]*entity.DailyMessage, error)
	Delete(ctx context.Context, id int64) error
}

// DTO is the wire form of a daily message.
type DTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRequest is the body of POST /messages.
type CreateRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Priority *int   `json:"priority"`
}

// Register mounts the /messages routes.
func Register(r chi.Router, svc Service, limits pagination.Config) {
	r.Get("/messages", ListHandler{Svc: svc, Limits: limits}.ServeHTTP)
	r.Post("/messages", CreateHandler{Svc: svc}.ServeHTTP)
	r.Delete("/messages/{id}", DeleteHandler{Svc: svc}.ServeHTTP)
}

// ListHandler serves GET /messages?category=&limit=&today=true.
type ListHandler struct {
	Svc    Service
	Limits pagination.Config
}

// ServeHTTP メッセージ一覧取得
// @Summary      メッセージ一覧取得
// @Description  優先度の高い順、同じ優先度は新しい順に返します
// @Tags         messages
// @Produce      json
// @Param        category query string false "カテゴリ"
// @Param        limit query int false "件数"
// @Param        today query bool false "今日作成分のみ"
// @Success      200 {array} DTO
// @Failure      400 {string} string "Bad request - invalid limit"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /messages [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		msgs []*entity.DailyMessage
		err  error
	)
	if q.Get("today") == "true" {
		msgs, err = h.Svc.Today(r.Context())
	} else {
		var limit int
		limit, err = h.Limits.ParseLimit(r, 0)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		msgs, err = h.Svc.List(r.Context(), q.Get("category"), limit)
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]DTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toDTO(m))
	}
	respond.JSON(w, http.StatusOK, out)
}

// CreateHandler serves POST /messages.
type CreateHandler struct{ Svc Service }

// ServeHTTP メッセージ作成
// @Summary      メッセージ作成
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        message body CreateRequest true "メッセージ"
// @Success      201 {object} DTO
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /messages [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	msg, err := h.Svc.Create(r.Context(), msgUC.CreateInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Priority: req.Priority,
	})
	if err != nil {
		if errors.Is(err, entity.ErrValidationFailed) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(msg))
}

// DeleteHandler serves DELETE /messages/{id}.
type DeleteHandler struct{ Svc Service }

// ServeHTTP メッセージ削除
// @Summary      メッセージ削除
// @Tags         messages
// @Param        id path int true "メッセージID"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - invalid ID"
// @Failure      404 {string} string "Not found"
// @Failure      500 {string} string "サーバーエラー"
// @Router       /messages/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("invalid id %q", raw))
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respond.SafeError(w, http.StatusNotFound, fmt.Errorf("message %d not found", id))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toDTO(m *entity.DailyMessage) DTO {
	return DTO{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Category:  m.Category,
		Priority:  m.Priority,
		CreatedAt: m.CreatedAt,
	}
}
