// Package visits реализует HTTP-обработчик истории посещений клиента.
package visits

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/middlewarectx"
	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Members описывает интерфейс поиска клиента по учётной записи.
type Members interface {
	FindByUser(ctx context.Context, userUID string) (*models.Member, error)
}

// Service описывает интерфейс бизнес-логики истории посещений.
type Service interface {
	History(ctx context.Context, memberID uuid.UUID, limit int) ([]*models.MemberCheckin, error)
}

// Handler обрабатывает запросы истории посещений клиента.
type Handler struct {
	log     *slog.Logger
	members Members
	service Service
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, members Members, service Service) *Handler {
	return &Handler{
		log:     log,
		members: members,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История посещений
// @Description Возвращает последние посещения текущего клиента, новые первыми.
// @Tags Portal
// @Produce  json
// @Param limit query int false "Максимальное количество записей (по умолчанию 20)"
// @Success 200 {object} map[string]any "Посещения"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Профиль клиента не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portal/visits [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portal.visits"
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

	member, err := h.members.FindByUser(r.Context(), userUID)
	if err != nil {
		log.Error("failed to find member by user", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("member profile not found"))
		return
	}

	limit := 0
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}

	checkins, err := h.service.History(r.Context(), member.ID, limit)
	if err != nil {
		log.Error("failed to list checkins", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list checkins"))
		return
	}

	log.Info("success to list checkins", slog.Int("count", len(checkins)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"checkins": checkins,
		"count":    len(checkins),
	}))
}
