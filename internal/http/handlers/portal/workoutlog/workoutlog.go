// Package workoutlog реализует HTTP-обработчик записи клиента о тренировке.
//
// Одна запись на день: повторная отправка за ту же дату перезаписывает
// предыдущую.
package workoutlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mkosheleva/gym-automation/internal/http/middlewarectx"
	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Service описывает интерфейс бизнес-логики записи о тренировке.
type Service interface {
	LogWorkout(ctx context.Context, userUID string, req models.DummyWorkoutLog) (*models.WorkoutLog, error)
}

// Handler обрабатывает запросы на сохранение записи о тренировке.
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
// @Summary Записать тренировку
// @Description Сохраняет запись текущего клиента о тренировке за день. Повторная запись за ту же дату перезаписывается.
// @Tags Portal
// @Accept  json
// @Produce  json
// @Param request body models.DummyWorkoutLog true "Данные тренировки"
// @Success 200 {object} map[string]any "Сохраненная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portal/workouts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portal.workoutlog"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyWorkoutLog
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	entry, err := h.service.LogWorkout(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to log workout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not log workout"))
		return
	}

	log.Info("success to log workout", slog.String("id", entry.ID.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"workout": entry,
	}))
}
