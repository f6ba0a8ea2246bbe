// Package planlist реализует HTTP-обработчик для получения списка программ тренировок.
package planlist

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

// Service описывает интерфейс бизнес-логики получения программ тренировок.
type Service interface {
	List(ctx context.Context) ([]*models.WorkoutPlan, error)
}

// Handler обрабатывает запросы на получение списка программ тренировок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список программ тренировок
// @Description Возвращает все программы тренировок клуба.
// @Tags WorkoutPlans
// @Produce  json
// @Success 200 {object} map[string]any "Список программ"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list workout plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list workout plans"))
		return
	}

	log.Info("success to list workout plans", slog.Int("count", len(plans)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": plans,
		"count": len(plans),
	}))
}
