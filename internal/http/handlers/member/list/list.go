// Package list реализует HTTP-обработчик для получения списка клиентов клуба.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Service описывает интерфейс бизнес-логики получения списка клиентов.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Member, error)
}

// Handler обрабатывает запросы на получение списка клиентов с пагинацией.
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
// @Summary Список клиентов
// @Description Возвращает список клиентов клуба с пагинацией через query-параметры limit и offset.
// @Tags Members
// @Produce  json
// @Param limit query int false "Максимальное количество записей (по умолчанию 50)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список клиентов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /members [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	members, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list members"))
		return
	}

	log.Info("success to list members", slog.Int("count", len(members)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"members": members,
		"count":   len(members),
	}))
}
