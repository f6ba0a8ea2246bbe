// Package remove реализует HTTP-обработчик деактивации клиента.
//
// Запись о клиенте не удаляется: клиент помечается неактивным и выпадает
// из рассылок и статистики активных.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики деактивации клиента.
type Service interface {
	Deactivate(ctx context.Context, id uuid.UUID) (int, error)
}

// Handler обрабатывает запросы на деактивацию клиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Деактивировать клиента
// @Description Помечает клиента неактивным. Возвращает количество затронутых записей.
// @Tags Members
// @Produce  json
// @Param id path string true "ID клиента"
// @Success 200 {object} map[string]any "Успешная деактивация"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	count, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		log.Error("failed to deactivate member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not deactivate member"))
		return
	}

	log.Info("success to deactivate member", slog.String("id", id.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deactivated": count,
	}))
}
