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

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateCoach(ctx context.Context, c models.Coach) (uuid.UUID, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) GetCoachByID(ctx context.Context, id uuid.UUID) (*models.Coach, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coach), args.Error(1)
}

func (m *MockRepository) ListCoaches(ctx context.Context) ([]*models.Coach, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Coach), args.Error(1)
}

func (m *MockRepository) CreateCoachSchedule(ctx context.Context, sc models.CoachSchedule) (uuid.UUID, error) {
	args := m.Called(ctx, sc)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) ListCoachSchedules(ctx context.Context, coachID uuid.UUID) ([]*models.CoachSchedule, error) {
	args := m.Called(ctx, coachID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CoachSchedule), args.Error(1)
}

func (m *MockRepository) ListAvailableSchedulesForDay(ctx context.Context, coachID uuid.UUID, dayOfWeek int) ([]*models.CoachSchedule, error) {
	args := m.Called(ctx, coachID, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CoachSchedule), args.Error(1)
}

func (m *MockRepository) ListBookedSessions(ctx context.Context, coachID uuid.UUID, date time.Time) ([]*models.TrainingSession, error) {
	args := m.Called(ctx, coachID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrainingSession), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCoachService_Availability(t *testing.T) {
	coachID := uuid.New()
	// 16 июня 2025 — понедельник
	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	coach := &models.Coach{ID: coachID, FullName: "Sergey Trenerov", IsAvailable: true}
	schedule := &models.CoachSchedule{
		ID:          uuid.New(),
		CoachID:     coachID,
		DayOfWeek:   0,
		StartTime:   "09:00",
		EndTime:     "12:00",
		IsAvailable: true,
		MaxClients:  3,
	}

	session := func(start, end string) *models.TrainingSession {
		return &models.TrainingSession{
			ID:        uuid.New(),
			CoachID:   coachID,
			Date:      monday,
			StartTime: start,
			EndTime:   end,
			Status:    models.SessionScheduled,
		}
	}

	tests := []struct {
		name          string
		booked        []*models.TrainingSession
		wantAvailable int
	}{
		{
			name:          "no sessions - full capacity",
			booked:        []*models.TrainingSession{},
			wantAvailable: 3,
		},
		{
			name:          "overlapping sessions reduce capacity",
			booked:        []*models.TrainingSession{session("09:00", "10:00"), session("10:00", "11:00")},
			wantAvailable: 1,
		},
		{
			name:          "touching interval does not overlap",
			booked:        []*models.TrainingSession{session("12:00", "13:00"), session("08:00", "09:00")},
			wantAvailable: 3,
		},
		{
			name: "overbooked slot clamps to zero",
			booked: []*models.TrainingSession{
				session("09:00", "10:00"),
				session("09:30", "10:30"),
				session("10:00", "11:00"),
				session("11:00", "12:00"),
			},
			wantAvailable: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewCoachService(repo, newNoopLogger())

			repo.On("GetCoachByID", mock.Anything, coachID).Return(coach, nil).Once()
			repo.On("ListAvailableSchedulesForDay", mock.Anything, coachID, 0).
				Return([]*models.CoachSchedule{schedule}, nil).Once()
			repo.On("ListBookedSessions", mock.Anything, coachID, monday).
				Return(tt.booked, nil).Once()

			got, err := service.Availability(context.Background(), coachID, monday)

			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantAvailable, got[0].AvailableSlots)
			assert.Equal(t, 3, got[0].MaxClients)

			repo.AssertExpectations(t)
		})
	}
}

func TestCoachService_Availability_CoachUnavailable(t *testing.T) {
	coachID := uuid.New()
	repo := new(MockRepository)
	service := NewCoachService(repo, newNoopLogger())

	repo.On("GetCoachByID", mock.Anything, coachID).
		Return(&models.Coach{ID: coachID, IsAvailable: false}, nil).Once()

	_, err := service.Availability(context.Background(), coachID, time.Now())
	assert.ErrorIs(t, err, ErrCoachUnavailable)

	repo.AssertNotCalled(t, "ListAvailableSchedulesForDay", mock.Anything, mock.Anything, mock.Anything)
}

func TestCoachService_Availability_NoSchedulesForDay(t *testing.T) {
	coachID := uuid.New()
	// 22 июня 2025 — воскресенье, WeekdayIndex == 6
	sunday := time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)

	repo := new(MockRepository)
	service := NewCoachService(repo, newNoopLogger())

	repo.On("GetCoachByID", mock.Anything, coachID).
		Return(&models.Coach{ID: coachID, IsAvailable: true}, nil).Once()
	repo.On("ListAvailableSchedulesForDay", mock.Anything, coachID, 6).
		Return([]*models.CoachSchedule{}, nil).Once()

	got, err := service.Availability(context.Background(), coachID, sunday)

	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertNotCalled(t, "ListBookedSessions", mock.Anything, mock.Anything, mock.Anything)
}

func TestCoachService_AddSchedule(t *testing.T) {
	coachID := uuid.New()
	day := 2

	repo := new(MockRepository)
	service := NewCoachService(repo, newNoopLogger())

	repo.On("GetCoachByID", mock.Anything, coachID).
		Return(&models.Coach{ID: coachID, IsAvailable: true}, nil).Once()
	repo.On("CreateCoachSchedule", mock.Anything, mock.MatchedBy(func(sc models.CoachSchedule) bool {
		return sc.CoachID == coachID && sc.DayOfWeek == 2 && sc.IsAvailable && sc.MaxClients == 4
	})).Return(uuid.New(), nil).Once()

	_, err := service.AddSchedule(context.Background(), coachID, models.DummyCoachSchedule{
		DayOfWeek:  &day,
		StartTime:  "09:00",
		EndTime:    "12:00",
		MaxClients: 4,
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCoachService_AddSchedule_InvalidInterval(t *testing.T) {
	day := 2
	repo := new(MockRepository)
	service := NewCoachService(repo, newNoopLogger())

	_, err := service.AddSchedule(context.Background(), uuid.New(), models.DummyCoachSchedule{
		DayOfWeek:  &day,
		StartTime:  "12:00",
		EndTime:    "09:00",
		MaxClients: 4,
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateCoachSchedule", mock.Anything, mock.Anything)
}

func TestWeekdayIndex(t *testing.T) {
	// Понедельник 16 июня 2025 → 0, воскресенье 22 июня → 6
	assert.Equal(t, 0, models.WeekdayIndex(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, models.WeekdayIndex(time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, models.WeekdayIndex(time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)))
}
