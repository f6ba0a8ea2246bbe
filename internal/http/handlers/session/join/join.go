// Package join реализует HTTP-обработчик записи клиента на тренировку.
//
// Клиент определяется по UID учётной записи из JWT. Запись невозможна,
// если мест не осталось или тренировка не в статусе scheduled.
package join

import (
	"context"
	"errors"
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
	services "github.com/mkosheleva/gym-automation/internal/services/trainingsession"
)

// Members описывает интерфейс поиска клиента по учётной записи.
type Members interface {
	FindByUser(ctx context.Context, userUID string) (*models.Member, error)
}

// Service описывает интерфейс бизнес-логики записи на тренировку.
type Service interface {
	Join(ctx context.Context, sessionID, memberID uuid.UUID) error
}

// Handler обрабатывает запросы на запись клиента на тренировку.
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
// @Summary Записаться на тренировку
// @Description Записывает текущего клиента на тренировку по её ID.
// @Tags Sessions
// @Produce  json
// @Param id path string true "ID тренировки"
// @Success 200 {object} map[string]any "Успешная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Профиль клиента не найден"
// @Failure 409 {object} response.ErrorResponse "Мест не осталось или тренировка недоступна"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portal/sessions/{id}/join [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.join"
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

	if err := h.service.Join(r.Context(), sessionID, member.ID); err != nil {
		switch {
		case errors.Is(err, services.ErrSessionFull):
			log.Error("session is full", slog.String("session_id", sessionID.String()))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("session is full"))
		case errors.Is(err, services.ErrSessionNotBookable):
			log.Error("session is not bookable", slog.String("session_id", sessionID.String()))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("session is not bookable"))
		default:
			log.Error("failed to join session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not join session"))
		}
		return
	}

	log.Info("success to join session",
		slog.String("session_id", sessionID.String()),
		slog.String("member_id", member.ID.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session_id": sessionID,
		"message":    "joined successfully",
	}))
}
