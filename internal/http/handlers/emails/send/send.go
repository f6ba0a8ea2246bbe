// Package send реализует HTTP-обработчик запуска рассылки по запросу персонала.
//
// Handler принимает вид письма и необязательный список клиентов, немедленно
// проводит рассылку через сервис уведомлений и возвращает сводку: сколько
// писем ушло и сколько попыток закончилось ошибкой.
package send

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
	services "github.com/mkosheleva/gym-automation/internal/services/notification"
)

// Service описывает интерфейс бизнес-логики проведения рассылки.
type Service interface {
	Dispatch(ctx context.Context, job models.DispatchJob) (*models.DispatchResult, error)
}

// Handler обрабатывает запросы на запуск рассылки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Запустить рассылку
// @Description Немедленно проводит рассылку писем указанного вида. Отбор получателей и защита от повторной отправки выполняются сервисом уведомлений; force_send отключает только защиту от повторов.
// @Tags Emails
// @Accept  json
// @Produce  json
// @Param request body models.DummyEmailSend true "Параметры рассылки"
// @Success 200 {object} map[string]any "Сводка рассылки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или вид письма"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /emails/send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.emails.send"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyEmailSend
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	job := models.DispatchJob{
		EmailType: req.EmailType,
		ForceSend: req.ForceSend,
	}
	for _, raw := range req.MemberIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.Error("failed to parse member id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid member id"))
			return
		}
		job.MemberIDs = append(job.MemberIDs, id)
	}

	result, err := h.service.Dispatch(r.Context(), job)
	if err != nil {
		if errors.Is(err, services.ErrInvalidKind) {
			log.Error("unsupported email type", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unsupported email type"))
			return
		}
		log.Error("failed to dispatch emails", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not dispatch emails"))
		return
	}

	log.Info("success to dispatch emails",
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"sent":   result.Sent,
		"failed": result.Failed,
	}))
}
