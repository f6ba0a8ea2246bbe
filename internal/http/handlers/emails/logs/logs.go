// Package logs реализует HTTP-обработчик просмотра журнала рассылок.
package logs

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения журнала рассылок.
type Service interface {
	ListLogs(ctx context.Context, filter models.EmailLogFilter) ([]*models.EmailLogEntry, error)
}

// Handler обрабатывает запросы на просмотр журнала рассылок.
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
// @Summary Журнал рассылок
// @Description Возвращает записи журнала рассылок с фильтрацией по виду письма, статусу и клиенту.
// @Tags Emails
// @Produce  json
// @Param email_type query string false "Вид письма"
// @Param status query string false "Статус отправки: sent, failed или pending"
// @Param member_id query string false "ID клиента"
// @Param limit query int false "Максимальное количество записей (по умолчанию 50)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Записи журнала"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID клиента"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /emails/logs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.emails.logs"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	filter := models.EmailLogFilter{
		EmailType: query.Get("email_type"),
		Status:    query.Get("status"),
	}
	if raw := query.Get("member_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Error("failed to parse member id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid member id"))
			return
		}
		filter.MemberID = &id
	}
	if n, err := strconv.Atoi(query.Get("limit")); err == nil && n > 0 {
		filter.Limit = n
	}
	if n, err := strconv.Atoi(query.Get("offset")); err == nil && n >= 0 {
		filter.Offset = n
	}

	entries, err := h.service.ListLogs(r.Context(), filter)
	if err != nil {
		log.Error("failed to list email logs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list email logs"))
		return
	}

	log.Info("success to list email logs", slog.Int("count", len(entries)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"logs":  entries,
		"count": len(entries),
	}))
}
