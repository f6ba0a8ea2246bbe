// Package sessionlist реализует HTTP-обработчик для получения списка тренировок.
package sessionlist

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Service описывает интерфейс бизнес-логики получения списка тренировок.
type Service interface {
	List(ctx context.Context, date *time.Time, coachID *uuid.UUID) ([]*models.TrainingSession, error)
}

// Handler обрабатывает запросы на получение списка тренировок.
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
// @Summary Список тренировок
// @Description Возвращает тренировки с необязательной фильтрацией по дате и тренеру.
// @Tags Sessions
// @Produce  json
// @Param date query string false "Дата в формате 2006-01-02"
// @Param coach_id query string false "ID тренера"
// @Success 200 {object} map[string]any "Список тренировок"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата или ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sessions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	var date *time.Time
	if raw := query.Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			log.Error("failed to parse date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid date, expected format 2006-01-02"))
			return
		}
		date = &parsed
	}
	var coachID *uuid.UUID
	if raw := query.Get("coach_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			log.Error("failed to parse coach id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid coach id"))
			return
		}
		coachID = &parsed
	}

	sessions, err := h.service.List(r.Context(), date, coachID)
	if err != nil {
		log.Error("failed to list training sessions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list training sessions"))
		return
	}

	log.Info("success to list training sessions", slog.Int("count", len(sessions)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	}))
}
