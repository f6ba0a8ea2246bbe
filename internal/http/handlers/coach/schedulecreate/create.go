// Package schedulecreate реализует HTTP-обработчик для добавления слота
// еженедельного расписания тренера.
package schedulecreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Service описывает интерфейс бизнес-логики добавления слота расписания.
type Service interface {
	AddSchedule(ctx context.Context, coachID uuid.UUID, req models.DummyCoachSchedule) (uuid.UUID, error)
}

// Handler обрабатывает запросы на добавление слота расписания тренера.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить слот расписания
// @Description Добавляет слот еженедельного расписания тренера. День недели задаётся числом: понедельник — 0, воскресенье — 6.
// @Tags Coaches
// @Accept  json
// @Produce  json
// @Param id path string true "ID тренера"
// @Param request body models.DummyCoachSchedule true "Данные слота расписания"
// @Success 200 {object} map[string]any "Успешное создание слота"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /coaches/{id}/schedules [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coach.schedulecreate"
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

	var req models.DummyCoachSchedule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	id, err := h.service.AddSchedule(r.Context(), coachID, req)
	if err != nil {
		log.Error("failed to create coach schedule", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create coach schedule"))
		return
	}

	log.Info("success to create coach schedule", slog.Any("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
