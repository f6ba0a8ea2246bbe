package middlewarectx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mkosheleva/gym-automation/internal/http/middlewarectx"
	"github.com/mkosheleva/gym-automation/internal/models"

	"io"
	"log/slog"
)

// Mock for AuthService
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*models.User, string, bool, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Bool(2), args.Error(3)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		authHeader     string
		mockUser       *models.User
		mockRole       string
		mockValid      bool
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer badtoken",
			mockErr:        errors.New("token is expired"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:       "valid token",
			authHeader: "Bearer goodtoken",
			mockUser: &models.User{
				Username: "testuser",
				Role:     models.RoleMember,
				UID:      "some-uid",
			},
			mockRole:       models.RoleMember,
			mockValid:      true,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.authHeader != "" && tt.authHeader != "Basic sometoken" {
				authMock.On("ValidateToken", mock.Anything, mock.Anything).
					Return(tt.mockUser, tt.mockRole, tt.mockValid, tt.mockErr)
			}

			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, "testuser", r.Context().Value(middlewarectx.User))
				assert.Equal(t, models.RoleMember, r.Context().Value(middlewarectx.Role))
				assert.Equal(t, "some-uid", r.Context().Value(middlewarectx.UserUID))
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.JWTMiddleware(authMock, logger)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestStaffOnlyMiddleware(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		role           any
		wantStatusCode int
		wantCalled     bool
	}{
		{name: "staff passes", role: models.RoleStaff, wantStatusCode: http.StatusOK, wantCalled: true},
		{name: "member forbidden", role: models.RoleMember, wantStatusCode: http.StatusForbidden, wantCalled: false},
		{name: "role missing", role: nil, wantStatusCode: http.StatusUnauthorized, wantCalled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.StaffOnlyMiddleware(logger)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Role, tt.role))
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
