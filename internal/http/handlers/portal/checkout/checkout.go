// Package checkout реализует HTTP-обработчик отметки выхода клиента из клуба.
package checkout

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

// Service описывает интерфейс бизнес-логики отметки выхода.
type Service interface {
	CheckOut(ctx context.Context, memberID uuid.UUID) (*models.MemberCheckin, error)
}

// Handler обрабатывает запросы на отметку выхода из клуба.
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
// @Summary Отметить выход
// @Description Закрывает открытое посещение текущего клиента и возвращает длительность в минутах.
// @Tags Portal
// @Produce  json
// @Success 200 {object} map[string]any "Закрытое посещение"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Профиль клиента не найден"
// @Failure 409 {object} response.ErrorResponse "Открытого посещения нет"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portal/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portal.checkout"
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

	visit, err := h.service.CheckOut(r.Context(), member.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveCheckin) {
			log.Error("no open checkin for member", slog.String("member_id", member.ID.String()))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("no open checkin"))
			return
		}
		log.Error("failed to check out", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check out"))
		return
	}

	log.Info("success to check out", slog.String("member_id", member.ID.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"checkin": visit,
	}))
}
