// Package planassign реализует HTTP-обработчик назначения программы тренировок клиенту.
package planassign

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

// Service описывает интерфейс бизнес-логики назначения программы клиенту.
type Service interface {
	Assign(ctx context.Context, memberID uuid.UUID, req models.DummyPlanAssignment) (uuid.UUID, error)
}

// Handler обрабатывает запросы на назначение программы тренировок клиенту.
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
// @Summary Назначить программу клиенту
// @Description Назначает программу тренировок клиенту на период. Предыдущие назначения деактивируются.
// @Tags WorkoutPlans
// @Accept  json
// @Produce  json
// @Param id path string true "ID клиента"
// @Param request body models.DummyPlanAssignment true "Параметры назначения"
// @Success 200 {object} map[string]any "Успешное назначение программы"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{id}/plan [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.assign"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	memberID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid member id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid member id"))
		return
	}

	var req models.DummyPlanAssignment
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

	id, err := h.service.Assign(r.Context(), memberID, req)
	if err != nil {
		log.Error("failed to assign workout plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not assign workout plan"))
		return
	}

	log.Info("success to assign workout plan", slog.Any("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
