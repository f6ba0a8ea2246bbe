// Package stats реализует HTTP-обработчик сводной статистики по клиентам клуба.
package stats

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

// Service описывает интерфейс бизнес-логики сбора статистики.
type Service interface {
	Stats(ctx context.Context) (*models.MemberStats, error)
}

// Handler обрабатывает запросы на получение статистики клуба.
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
// @Summary Статистика по клиентам
// @Description Возвращает сводную статистику: всего клиентов, активных, с истекающим абонементом, с днём рождения сегодня и распределение по видам абонементов.
// @Tags Members
// @Produce  json
// @Success 200 {object} map[string]any "Статистика"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to count member stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count member stats"))
		return
	}

	log.Info("success to count member stats")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"stats": stats,
	}))
}
