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

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) CreateMember(ctx context.Context, member models.Member) (uuid.UUID, error) {
	args := m.Called(ctx, member)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockMemberRepository) GetMemberByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetMemberByUserUID(ctx context.Context, userUID string) (*models.Member, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) ListMembers(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockMemberRepository) UpdateMember(ctx context.Context, member models.Member, id uuid.UUID) (int, error) {
	args := m.Called(ctx, member, id)
	return args.Int(0), args.Error(1)
}

func (m *MockMemberRepository) DeactivateMember(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockMemberRepository) CountMemberStats(ctx context.Context, today time.Time) (*models.MemberStats, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(*models.MemberStats), args.Error(1)
}

type MockPortalRepository struct {
	mock.Mock
}

func (m *MockPortalRepository) GetActiveMemberPlan(ctx context.Context, memberID uuid.UUID) (*models.MemberWorkoutPlan, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MemberWorkoutPlan), args.Error(1)
}

func (m *MockPortalRepository) ListRecentWorkouts(ctx context.Context, memberID uuid.UUID, limit int) ([]*models.WorkoutLog, error) {
	args := m.Called(ctx, memberID, limit)
	return args.Get(0).([]*models.WorkoutLog), args.Error(1)
}

func (m *MockPortalRepository) CountWorkouts(ctx context.Context, memberID uuid.UUID) (int, error) {
	args := m.Called(ctx, memberID)
	return args.Int(0), args.Error(1)
}

func (m *MockPortalRepository) CountWorkoutsInMonth(ctx context.Context, memberID uuid.UUID, day time.Time) (int, error) {
	args := m.Called(ctx, memberID, day)
	return args.Int(0), args.Error(1)
}

func (m *MockPortalRepository) ListCompletedWorkoutDates(ctx context.Context, memberID uuid.UUID, from time.Time) ([]time.Time, error) {
	args := m.Called(ctx, memberID, from)
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockPortalRepository) ListUpcomingSessionsForMember(ctx context.Context, memberID uuid.UUID, from time.Time, limit int) ([]*models.TrainingSession, error) {
	args := m.Called(ctx, memberID, from, limit)
	return args.Get(0).([]*models.TrainingSession), args.Error(1)
}

func (m *MockPortalRepository) UpsertWorkoutLog(ctx context.Context, log models.WorkoutLog) (*models.WorkoutLog, error) {
	args := m.Called(ctx, log)
	return args.Get(0).(*models.WorkoutLog), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemberService_Create(t *testing.T) {
	repo := new(MockMemberRepository)
	cache := new(MockCache)
	service := NewMemberService(repo, nil, cache, newNoopLogger())

	id := uuid.New()
	req := models.DummyMember{
		FullName:            "Анна Смирнова",
		Email:               "anna@example.com",
		SubscriptionDueDate: "2025-09-30",
		Birthday:            "1992-03-08",
	}

	repo.On("CreateMember", mock.Anything, mock.MatchedBy(func(m models.Member) bool {
		return m.FullName == "Анна Смирнова" &&
			m.MembershipType == "basic" &&
			m.IsActive &&
			m.SubscriptionDueDate.Equal(time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)) &&
			m.Birthday != nil && m.Birthday.Month() == time.March
	})).Return(id, nil)
	cache.On("Set", "member:"+id.String(), mock.Anything, time.Hour).Return(nil)

	got, err := service.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, id, got)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestMemberService_Create_InvalidDate(t *testing.T) {
	repo := new(MockMemberRepository)
	service := NewMemberService(repo, nil, new(MockCache), newNoopLogger())

	_, err := service.Create(context.Background(), models.DummyMember{
		FullName:            "Анна Смирнова",
		Email:               "anna@example.com",
		SubscriptionDueDate: "30.09.2025",
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "CreateMember")
}

func TestMemberService_Read_CacheHit(t *testing.T) {
	repo := new(MockMemberRepository)
	cache := new(MockCache)
	service := NewMemberService(repo, nil, cache, newNoopLogger())

	id := uuid.New()
	cache.On("Get", "member:"+id.String(), mock.Anything).Run(func(args mock.Arguments) {
		ptr := args.Get(1).(**models.Member)
		*ptr = &models.Member{ID: id, FullName: "Из кеша"}
	}).Return(true, nil)

	member, err := service.Read(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "Из кеша", member.FullName)
	repo.AssertNotCalled(t, "GetMemberByID")
}

func TestMemberService_Read_CacheMiss(t *testing.T) {
	repo := new(MockMemberRepository)
	cache := new(MockCache)
	service := NewMemberService(repo, nil, cache, newNoopLogger())

	id := uuid.New()
	cache.On("Get", "member:"+id.String(), mock.Anything).Return(false, nil)
	repo.On("GetMemberByID", mock.Anything, id).Return(&models.Member{ID: id, FullName: "Из базы"}, nil)
	cache.On("Set", "member:"+id.String(), mock.Anything, time.Hour).Return(nil)

	member, err := service.Read(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "Из базы", member.FullName)
	cache.AssertExpectations(t)
}

func TestMemberService_Update_InvalidatesCache(t *testing.T) {
	repo := new(MockMemberRepository)
	cache := new(MockCache)
	service := NewMemberService(repo, nil, cache, newNoopLogger())

	id := uuid.New()
	repo.On("UpdateMember", mock.Anything, mock.Anything, id).Return(1, nil)
	cache.On("Invalidate", "member:"+id.String()).Return(nil)

	count, err := service.Update(context.Background(), id, models.DummyMember{
		FullName:            "Анна Смирнова",
		Email:               "anna@example.com",
		SubscriptionDueDate: "2025-12-01",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	cache.AssertExpectations(t)
}

func TestMemberService_Dashboard(t *testing.T) {
	repo := new(MockMemberRepository)
	portal := new(MockPortalRepository)
	service := NewMemberService(repo, portal, new(MockCache), newNoopLogger())

	now := time.Now()
	memberID := uuid.New()
	userUID := uuid.New().String()
	member := &models.Member{
		ID:                  memberID,
		FullName:            "Пётр Иванов",
		SubscriptionDueDate: now.AddDate(0, 0, 3),
		IsActive:            true,
	}

	repo.On("GetMemberByUserUID", mock.Anything, userUID).Return(member, nil)
	portal.On("GetActiveMemberPlan", mock.Anything, memberID).Return(&models.MemberWorkoutPlan{
		MemberID: memberID,
		Plan:     &models.WorkoutPlan{Name: "Сила и выносливость"},
	}, nil)
	portal.On("ListRecentWorkouts", mock.Anything, memberID, 10).Return([]*models.WorkoutLog{
		{MemberID: memberID, DurationMinutes: 60},
	}, nil)
	portal.On("ListUpcomingSessionsForMember", mock.Anything, memberID, mock.Anything, 5).
		Return([]*models.TrainingSession{{Title: "Йога"}}, nil)
	portal.On("CountWorkouts", mock.Anything, memberID).Return(42, nil)
	portal.On("CountWorkoutsInMonth", mock.Anything, memberID, mock.Anything).Return(7, nil)
	portal.On("ListCompletedWorkoutDates", mock.Anything, memberID, mock.Anything).Return([]time.Time{
		dateOnly(now),
		dateOnly(now.AddDate(0, 0, -1)),
		dateOnly(now.AddDate(0, 0, -2)),
		dateOnly(now.AddDate(0, 0, -5)),
	}, nil)

	dashboard, err := service.Dashboard(context.Background(), userUID)

	require.NoError(t, err)
	assert.Equal(t, 3, dashboard.DaysUntilDue)
	assert.True(t, dashboard.IsDueSoon)
	assert.False(t, dashboard.IsOverdue)
	require.NotNil(t, dashboard.CurrentPlan)
	assert.Equal(t, "Сила и выносливость", dashboard.CurrentPlan.Plan.Name)
	assert.Len(t, dashboard.RecentWorkouts, 1)
	assert.Len(t, dashboard.UpcomingSessions, 1)
	assert.Equal(t, 42, dashboard.TotalWorkouts)
	assert.Equal(t, 7, dashboard.ThisMonthWorkouts)
	assert.Equal(t, 3, dashboard.WorkoutStreak)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func TestWorkoutStreak(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2025, 6, 20+offset, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{name: "no workouts", dates: nil, want: 0},
		{name: "today only", dates: []time.Time{day(0)}, want: 1},
		{name: "three days ending today", dates: []time.Time{day(0), day(-1), day(-2)}, want: 3},
		{name: "streak ending yesterday survives", dates: []time.Time{day(-1), day(-2)}, want: 2},
		{name: "gap breaks streak", dates: []time.Time{day(0), day(-2), day(-3)}, want: 1},
		{name: "last workout two days ago", dates: []time.Time{day(-2), day(-3)}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, workoutStreak(tt.dates, now))
		})
	}
}

func TestMemberService_LogWorkout(t *testing.T) {
	repo := new(MockMemberRepository)
	portal := new(MockPortalRepository)
	service := NewMemberService(repo, portal, new(MockCache), newNoopLogger())

	memberID := uuid.New()
	userUID := uuid.New().String()
	repo.On("GetMemberByUserUID", mock.Anything, userUID).Return(&models.Member{ID: memberID}, nil)
	portal.On("UpsertWorkoutLog", mock.Anything, mock.MatchedBy(func(l models.WorkoutLog) bool {
		return l.MemberID == memberID &&
			l.Date.Equal(time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)) &&
			l.DurationMinutes == 45 &&
			l.Completed
	})).Return(&models.WorkoutLog{ID: uuid.New(), MemberID: memberID}, nil)

	log, err := service.LogWorkout(context.Background(), userUID, models.DummyWorkoutLog{
		Date:            "2025-06-18",
		DurationMinutes: 45,
	})

	require.NoError(t, err)
	assert.Equal(t, memberID, log.MemberID)
	portal.AssertExpectations(t)
}
