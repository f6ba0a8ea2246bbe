package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mkosheleva/gym-automation/internal/models"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateTrainingSession(ctx context.Context, ts models.TrainingSession) (uuid.UUID, error) {
	args := m.Called(ctx, ts)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSessionRepository) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingSession), args.Error(1)
}

func (m *MockSessionRepository) ListSessions(ctx context.Context, date *time.Time, coachID *uuid.UUID) ([]*models.TrainingSession, error) {
	args := m.Called(ctx, date, coachID)
	return args.Get(0).([]*models.TrainingSession), args.Error(1)
}

func (m *MockSessionRepository) AddSessionMember(ctx context.Context, sessionID, memberID uuid.UUID) error {
	args := m.Called(ctx, sessionID, memberID)
	return args.Error(0)
}

func (m *MockSessionRepository) RemoveSessionMember(ctx context.Context, sessionID, memberID uuid.UUID) error {
	args := m.Called(ctx, sessionID, memberID)
	return args.Error(0)
}

func (m *MockSessionRepository) GetCoachByID(ctx context.Context, id uuid.UUID) (*models.Coach, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coach), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionService_Create(t *testing.T) {
	repo := new(MockSessionRepository)
	service := NewSessionService(repo, newNoopLogger())

	coachID := uuid.New()
	sessionID := uuid.New()
	repo.On("GetCoachByID", mock.Anything, coachID).Return(&models.Coach{ID: coachID}, nil)
	repo.On("CreateTrainingSession", mock.Anything, mock.MatchedBy(func(ts models.TrainingSession) bool {
		return ts.CoachID == coachID &&
			ts.Status == models.SessionScheduled &&
			ts.Date.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)) &&
			ts.StartTime == "10:00" && ts.EndTime == "11:00"
	})).Return(sessionID, nil)

	id, err := service.Create(context.Background(), models.DummyTrainingSession{
		CoachID:         coachID.String(),
		Title:           "Кроссфит",
		Date:            "2025-06-16",
		StartTime:       "10:00",
		EndTime:         "11:00",
		MaxParticipants: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, sessionID, id)
	repo.AssertExpectations(t)
}

func TestSessionService_Create_InvalidInterval(t *testing.T) {
	repo := new(MockSessionRepository)
	service := NewSessionService(repo, newNoopLogger())

	_, err := service.Create(context.Background(), models.DummyTrainingSession{
		CoachID:         uuid.New().String(),
		Title:           "Кроссфит",
		Date:            "2025-06-16",
		StartTime:       "11:00",
		EndTime:         "10:00",
		MaxParticipants: 10,
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "CreateTrainingSession")
}

func TestSessionService_Join(t *testing.T) {
	sessionID := uuid.New()
	memberID := uuid.New()

	tests := []struct {
		name    string
		session *models.TrainingSession
		wantErr error
	}{
		{
			name: "has free slots",
			session: &models.TrainingSession{
				ID: sessionID, Status: models.SessionScheduled,
				MaxParticipants: 5, CurrentParticipants: 3,
			},
		},
		{
			name: "session full",
			session: &models.TrainingSession{
				ID: sessionID, Status: models.SessionScheduled,
				MaxParticipants: 5, CurrentParticipants: 5,
			},
			wantErr: ErrSessionFull,
		},
		{
			name: "cancelled session",
			session: &models.TrainingSession{
				ID: sessionID, Status: models.SessionCancelled,
				MaxParticipants: 5, CurrentParticipants: 0,
			},
			wantErr: ErrSessionNotBookable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSessionRepository)
			service := NewSessionService(repo, newNoopLogger())

			repo.On("GetSessionByID", mock.Anything, sessionID).Return(tt.session, nil)
			if tt.wantErr == nil {
				repo.On("AddSessionMember", mock.Anything, sessionID, memberID).Return(nil)
			}

			err := service.Join(context.Background(), sessionID, memberID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "AddSessionMember")
			} else {
				assert.NoError(t, err)
				repo.AssertExpectations(t)
			}
		})
	}
}

func TestSessionService_Leave(t *testing.T) {
	repo := new(MockSessionRepository)
	service := NewSessionService(repo, newNoopLogger())

	sessionID := uuid.New()
	memberID := uuid.New()
	repo.On("GetSessionByID", mock.Anything, sessionID).Return(&models.TrainingSession{ID: sessionID}, nil)
	repo.On("RemoveSessionMember", mock.Anything, sessionID, memberID).Return(nil)

	err := service.Leave(context.Background(), sessionID, memberID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
