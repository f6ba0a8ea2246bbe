// Package read реализует HTTP-обработчик для получения конкретного клиента по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику для чтения клиента по идентификатору
// и возвращает данные клиента в JSON-формате.
//
// В случае ошибок формирует соответствующие HTTP-ответы с описанием проблемы.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения клиента.
type Service interface {
	Read(ctx context.Context, id uuid.UUID) (*models.Member, error)
}

// Handler обрабатывает запросы на получение клиента по уникальному идентификатору.
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
// @Summary Получить клиента
// @Description Возвращает данные клиента по его ID.
// @Tags Members
// @Produce  json
// @Param id path string true "ID клиента"
// @Success 200 {object} map[string]any "Данные клиента"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	member, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read member", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read member"))
		return
	}

	log.Info("success to read member", slog.String("id", id.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"member": member,
	}))
}
