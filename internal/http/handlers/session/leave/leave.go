// Package leave реализует HTTP-обработчик отмены записи клиента на тренировку.
package leave

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
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

// Service описывает интерфейс бизнес-логики отмены записи.
type Service interface {
	Leave(ctx context.Context, sessionID, memberID uuid.UUID) error
}

// Handler обрабатывает запросы на отмену записи на тренировку.
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
// @Summary Отменить запись на тренировку
// @Description Снимает текущего клиента с тренировки по её ID.
// @Tags Sessions
// @Produce  json
// @Param id path string true "ID тренировки"
// @Success 200 {object} map[string]any "Запись отменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Профиль клиента не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portal/sessions/{id}/leave [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.leave"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

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

	if err := h.service.Leave(r.Context(), sessionID, member.ID); err != nil {
		log.Error("failed to leave session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not leave session"))
		return
	}

	log.Info("success to leave session",
		slog.String("session_id", sessionID.String()),
		slog.String("member_id", member.ID.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session_id": sessionID,
		"message":    "left successfully",
	}))
}
