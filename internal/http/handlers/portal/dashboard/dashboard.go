// Package dashboard реализует HTTP-обработчик личного кабинета клиента.
//
// Handler определяет клиента по UID учётной записи из JWT и собирает сводку:
// состояние абонемента, текущую программу, последние тренировки, ближайшие
// записи и серию тренировок.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkosheleva/gym-automation/internal/http/middlewarectx"
	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Service описывает интерфейс бизнес-логики сборки личного кабинета.
type Service interface {
	Dashboard(ctx context.Context, userUID string) (*models.MemberDashboard, error)
}

// Handler обрабатывает запросы личного кабинета клиента.
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
// @Summary Личный кабинет
// @Description Возвращает сводку личного кабинета текущего клиента.
// @Tags Portal
// @Produce  json
// @Success 200 {object} map[string]any "Данные кабинета"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portal/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portal.dashboard"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build dashboard"))
		return
	}

	log.Info("success to build dashboard", slog.String("member_id", dashboard.Member.ID.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"dashboard": dashboard,
	}))
}
