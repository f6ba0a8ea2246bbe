// Package coachlist реализует HTTP-обработчик для получения списка тренеров.
package coachlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Service описывает интерфейс бизнес-логики получения списка тренеров.
type Service interface {
	List(ctx context.Context) ([]*models.Coach, error)
}

// Handler обрабатывает запросы на получение списка тренеров.
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
// @Summary Список тренеров
// @Description Возвращает список всех тренеров клуба.
// @Tags Coaches
// @Produce  json
// @Success 200 {object} map[string]any "Список тренеров"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /coaches [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coach.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	coaches, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list coaches", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list coaches"))
		return
	}

	log.Info("success to list coaches", slog.Int("count", len(coaches)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"coaches": coaches,
		"count":   len(coaches),
	}))
}
