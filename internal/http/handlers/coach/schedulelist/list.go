// Package schedulelist реализует HTTP-обработчик для получения расписания тренера.
package schedulelist

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
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения расписания тренера.
type Service interface {
	ListSchedules(ctx context.Context, coachID uuid.UUID) ([]*models.CoachSchedule, error)
}

// Handler обрабатывает запросы на получение еженедельного расписания тренера.
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
// @Summary Расписание тренера
// @Description Возвращает все слоты еженедельного расписания тренера.
// @Tags Coaches
// @Produce  json
// @Param id path string true "ID тренера"
// @Success 200 {object} map[string]any "Слоты расписания"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /coaches/{id}/schedules [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coach.schedulelist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	coachID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	schedules, err := h.service.ListSchedules(r.Context(), coachID)
	if err != nil {
		log.Error("failed to list coach schedules", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list coach schedules"))
		return
	}

	log.Info("success to list coach schedules", slog.Int("count", len(schedules)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"schedules": schedules,
		"count":     len(schedules),
	}))
}
