package bulkupload

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkosheleva/gym-automation/internal/models"
)

// MockService реализует интерфейс bulkupload.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyMember) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func newUploadRequest(t *testing.T, csvContent string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "members.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/members/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))
}

func TestBulkUploadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Run("загружает корректные строки и пропускает ошибочные", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req models.DummyMember) bool {
			return req.FullName == "Анна Смирнова" && req.MembershipType == "premium"
		})).Return(uuid.New(), nil)
		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req models.DummyMember) bool {
			return req.FullName == "Пётр Иванов"
		})).Return(uuid.New(), nil)

		csvContent := "full_name,email,subscription_due_date,membership_type\n" +
			"Анна Смирнова,anna@example.com,2025-09-30,premium\n" +
			"Пётр Иванов,petr@example.com,2025-10-15,\n" +
			"Без Почты,,2025-10-15,basic\n"

		handler := New(logger, mockService)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newUploadRequest(t, csvContent))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"created":2`)
		assert.Contains(t, w.Body.String(), `"line":4`)
		mockService.AssertExpectations(t)
	})

	t.Run("ошибка сервиса не прерывает загрузку остальных", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req models.DummyMember) bool {
			return req.Email == "dup@example.com"
		})).Return(uuid.Nil, errors.New("duplicate email"))
		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req models.DummyMember) bool {
			return req.Email == "ok@example.com"
		})).Return(uuid.New(), nil)

		csvContent := "full_name,email,subscription_due_date\n" +
			"Дубль Клиент,dup@example.com,2025-09-30\n" +
			"Новый Клиент,ok@example.com,2025-09-30\n"

		handler := New(logger, mockService)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newUploadRequest(t, csvContent))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"created":1`)
		assert.Contains(t, w.Body.String(), "duplicate email")
	})

	t.Run("отсутствует обязательная колонка", func(t *testing.T) {
		handler := New(logger, new(MockService))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newUploadRequest(t, "full_name,email\nАнна,anna@example.com\n"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "subscription_due_date")
	})

	t.Run("отсутствует файл в форме", func(t *testing.T) {
		handler := New(logger, new(MockService))
		req := httptest.NewRequest(http.MethodPost, "/members/upload", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing or invalid file field")
	})
}
