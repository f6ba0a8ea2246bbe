package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkosheleva/gym-automation/internal/lib/jwt"
	"github.com/mkosheleva/gym-automation/internal/lib/password"
	"github.com/mkosheleva/gym-automation/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(MockUserRepository)
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	service := NewAuthService(repo, maker)

	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		// Пароль должен быть захэширован, роль по умолчанию member
		return u.Username == "ivan" &&
			u.Role == models.RoleMember &&
			password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return("uid-123", nil).Once()

	uid, err := service.Register(context.Background(), "ivan@example.com", "ivan", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "uid-123", uid)
	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	user := &models.User{
		UID:          "uid-123",
		Username:     "ivan",
		PasswordHash: hash,
		Role:         models.RoleMember,
	}

	tests := []struct {
		name        string
		username    string
		rawPassword string
		setupMocks  func(*MockUserRepository)
		wantErr     string
	}{
		{
			name:        "success",
			username:    "ivan",
			rawPassword: "secret123",
			setupMocks: func(r *MockUserRepository) {
				r.On("GetUserByUsername", mock.Anything, "ivan").Return(user, nil).Once()
			},
		},
		{
			name:        "wrong password",
			username:    "ivan",
			rawPassword: "wrong",
			setupMocks: func(r *MockUserRepository) {
				r.On("GetUserByUsername", mock.Anything, "ivan").Return(user, nil).Once()
			},
			wantErr: "invalid credentials",
		},
		{
			name:        "unknown user",
			username:    "ghost",
			rawPassword: "secret123",
			setupMocks: func(r *MockUserRepository) {
				r.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errors.New("user not found")).Once()
			},
			wantErr: "user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			maker := jwt.NewJWTMaker("test-secret", time.Hour)
			service := NewAuthService(repo, maker)
			tt.setupMocks(repo)

			token, role, err := service.Login(context.Background(), tt.username, tt.rawPassword)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.RoleMember, role)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, "ivan", claims.Username)
			assert.Equal(t, "uid-123", claims.UserUID)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	repo := new(MockUserRepository)
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	service := NewAuthService(repo, maker)

	token, err := maker.GenerateToken("ivan", models.RoleStaff, "uid-123")
	require.NoError(t, err)

	user, role, ok, err := service.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.RoleStaff, role)
	assert.Equal(t, "ivan", user.Username)
	assert.Equal(t, "uid-123", user.UID)

	_, _, ok, err = service.ValidateToken(context.Background(), token+"tampered")
	assert.Error(t, err)
	assert.False(t, ok)
}
