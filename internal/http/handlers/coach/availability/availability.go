// Package availability реализует HTTP-обработчик расчёта свободных мест
// у тренера на конкретную дату.
//
// Handler принимает дату в query-параметре date, подбирает слоты расписания
// тренера на этот день недели и для каждого слота возвращает остаток мест
// с учётом уже назначенных тренировок.
package availability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
	services "github.com/mkosheleva/gym-automation/internal/services/coach"
)

// Service описывает интерфейс бизнес-логики расчёта доступности тренера.
type Service interface {
	Availability(ctx context.Context, coachID uuid.UUID, date time.Time) ([]models.SlotAvailability, error)
}

// Handler обрабатывает запросы на расчёт свободных мест тренера.
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
// @Summary Доступность тренера
// @Description Возвращает слоты расписания тренера на указанную дату с остатком свободных мест.
// @Tags Coaches
// @Produce  json
// @Param id path string true "ID тренера"
// @Param date query string false "Дата в формате 2006-01-02 (по умолчанию сегодня)"
// @Success 200 {object} map[string]any "Слоты с остатком мест"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или дата"
// @Failure 409 {object} response.ErrorResponse "Тренер недоступен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /coaches/{id}/availability [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coach.availability"
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

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			log.Error("failed to parse date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid date, expected format 2006-01-02"))
			return
		}
	}

	slots, err := h.service.Availability(r.Context(), coachID, date)
	if err != nil {
		if errors.Is(err, services.ErrCoachUnavailable) {
			log.Error("coach is not available", slog.String("coach_id", coachID.String()))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("coach is not available"))
			return
		}
		log.Error("failed to count availability", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count availability"))
		return
	}

	log.Info("success to count availability", slog.Int("slots", len(slots)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	}))
}
