// Package checkin реализует HTTP-обработчик отметки входа клиента в клуб.
//
// Повторная отметка при уже открытом посещении за тот же день отклоняется
// со статусом 409.
package checkin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/middlewarectx"
	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
	services "github.com/mkosheleva/gym-automation/internal/services/checkin"
)

// Members описывает интерфейс поиска клиента по учётной записи.
type Members interface {
	FindByUser(ctx context.Context, userUID string) (*models.Member, error)
}

// Service описывает интерфейс бизнес-логики отметки входа.
type Service interface {
	CheckIn(ctx context.Context, memberID uuid.UUID) (*models.MemberCheckin, error)
}

// Handler обрабатывает запросы на отметку входа в клуб.
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
// @Summary Отметить вход
// @Description Открывает посещение для текущего клиента. Повторная отметка при открытом посещении отклоняется.
// @Tags Portal
// @Produce  json
// @Success 200 {object} map[string]any "Открытое посещение"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Профиль клиента не найден"
// @Failure 409 {object} response.ErrorResponse "Посещение уже открыто"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portal/checkin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portal.checkin"
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

	visit, err := h.service.CheckIn(r.Context(), member.ID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyCheckedIn) {
			log.Error("member already checked in", slog.String("member_id", member.ID.String()))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("already checked in"))
			return
		}
		log.Error("failed to check in", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check in"))
		return
	}

	log.Info("success to check in", slog.String("member_id", member.ID.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"checkin": visit,
	}))
}
