// Package bulkupload реализует HTTP-обработчик массовой загрузки клиентов из CSV.
//
// Файл принимается в multipart-форме в поле file. Первая строка — заголовок
// с именами колонок: full_name, email, phone, subscription_due_date, birthday,
// membership_type, notes. Обязательны только full_name, email и
// subscription_due_date, порядок колонок произвольный.
//
// Строки с ошибками пропускаются, загрузка остальных продолжается. В ответе
// возвращается число созданных записей и список пропущенных строк с причинами.
package bulkupload

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/http/response"
	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

const maxUploadSize = 5 << 20 // 5 MB

// Service описывает интерфейс бизнес-логики создания клиента.
type Service interface {
	Create(ctx context.Context, req models.DummyMember) (uuid.UUID, error)
}

// SkippedRow описывает строку CSV, которую не удалось загрузить.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Handler обрабатывает загрузку CSV-файла с клиентами.
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
// @Summary Массовая загрузка клиентов
// @Description Загружает клиентов из CSV-файла. Строки с ошибками пропускаются, остальные создаются.
// @Tags Members
// @Accept  mpfd
// @Produce  json
// @Param file formData file true "CSV-файл с клиентами"
// @Success 200 {object} map[string]any "Результат загрузки"
// @Failure 400 {object} response.ErrorResponse "Некорректный файл"
// @Router /members/bulk [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.bulkupload"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		log.Error("failed to read uploaded file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing or invalid file field"))
		return
	}
	defer file.Close()

	created, skipped, err := h.importCSV(r.Context(), file)
	if err != nil {
		log.Error("failed to parse csv", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	log.Info("csv upload finished",
		slog.Int("created", created),
		slog.Int("skipped", len(skipped)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"created": created,
		"skipped": skipped,
	}))
}

func (h *Handler) importCSV(ctx context.Context, file io.Reader) (int, []SkippedRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, nil, errors.New("empty or unreadable csv file")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"full_name", "email", "subscription_due_date"} {
		if _, ok := columns[required]; !ok {
			return 0, nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	created := 0
	skipped := make([]SkippedRow, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped = append(skipped, SkippedRow{Line: line, Reason: "malformed csv row"})
			continue
		}

		req := models.DummyMember{
			FullName:            field(record, "full_name"),
			Email:               field(record, "email"),
			Phone:               field(record, "phone"),
			SubscriptionDueDate: field(record, "subscription_due_date"),
			Birthday:            field(record, "birthday"),
			MembershipType:      field(record, "membership_type"),
			Notes:               field(record, "notes"),
		}
		if err := h.validate.Struct(req); err != nil {
			skipped = append(skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}

		if _, err := h.service.Create(ctx, req); err != nil {
			skipped = append(skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}
		created++
	}
	return created, skipped, nil
}
