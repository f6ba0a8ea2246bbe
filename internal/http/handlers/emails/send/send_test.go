package send

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mkosheleva/gym-automation/internal/models"
	services "github.com/mkosheleva/gym-automation/internal/services/notification"
)

// MockService реализует интерфейс send.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Dispatch(ctx context.Context, job models.DispatchJob) (*models.DispatchResult, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DispatchResult), args.Error(1)
}

func TestSendHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная рассылка",
			requestBody: models.DummyEmailSend{
				EmailType: models.EmailSubscription,
			},
			setupMock: func(m *MockService) {
				m.On("Dispatch", mock.Anything, mock.MatchedBy(func(job models.DispatchJob) bool {
					return job.EmailType == models.EmailSubscription && !job.ForceSend
				})).Return(&models.DispatchResult{Sent: 3, Failed: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"sent":3`,
		},
		{
			name: "принудительная рассылка по списку клиентов",
			requestBody: models.DummyEmailSend{
				EmailType: models.EmailMotivational,
				MemberIDs: []string{"7c9a6c2e-1111-4222-8333-444455556666"},
				ForceSend: true,
			},
			setupMock: func(m *MockService) {
				m.On("Dispatch", mock.Anything, mock.MatchedBy(func(job models.DispatchJob) bool {
					return job.ForceSend && len(job.MemberIDs) == 1
				})).Return(&models.DispatchResult{Sent: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"sent":1`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "не указан вид письма",
			requestBody:    models.DummyEmailSend{},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field EmailType is a required field`,
		},
		{
			name: "неподдерживаемый вид письма",
			requestBody: models.DummyEmailSend{
				EmailType: models.EmailWorkoutReminder,
			},
			setupMock: func(m *MockService) {
				m.On("Dispatch", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("wrap: %w", services.ErrInvalidKind))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"unsupported email type"}`,
		},
		{
			name: "ошибка сервиса",
			requestBody: models.DummyEmailSend{
				EmailType: models.EmailBirthday,
			},
			setupMock: func(m *MockService) {
				m.On("Dispatch", mock.Anything, mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not dispatch emails"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/emails/send", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
