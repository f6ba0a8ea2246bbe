// Package services содержит бизнес-логику для управления клиентами клуба
// и кешированием их данных.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/models"
)

// MemberRepository определяет методы для работы с клиентами в хранилище.
type MemberRepository interface {
	// CreateMember добавляет нового клиента и возвращает его ID.
	CreateMember(ctx context.Context, m models.Member) (uuid.UUID, error)
	// GetMemberByID возвращает клиента по ID.
	GetMemberByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
	// GetMemberByUserUID возвращает клиента по учётной записи портала.
	GetMemberByUserUID(ctx context.Context, userUID string) (*models.Member, error)
	// ListMembers возвращает список клиентов с пагинацией.
	ListMembers(ctx context.Context, limit, offset int) ([]*models.Member, error)
	// UpdateMember обновляет данные клиента по ID.
	UpdateMember(ctx context.Context, m models.Member, id uuid.UUID) (int, error)
	// DeactivateMember помечает клиента неактивным.
	DeactivateMember(ctx context.Context, id uuid.UUID) (int, error)
	// CountMemberStats собирает агрегированную статистику по клиентам.
	CountMemberStats(ctx context.Context, today time.Time) (*models.MemberStats, error)
}

// PortalRepository определяет методы для данных личного кабинета.
type PortalRepository interface {
	// GetActiveMemberPlan возвращает действующую программу клиента или nil.
	GetActiveMemberPlan(ctx context.Context, memberID uuid.UUID) (*models.MemberWorkoutPlan, error)
	// ListRecentWorkouts возвращает последние записи о тренировках.
	ListRecentWorkouts(ctx context.Context, memberID uuid.UUID, limit int) ([]*models.WorkoutLog, error)
	// CountWorkouts считает выполненные тренировки за всё время.
	CountWorkouts(ctx context.Context, memberID uuid.UUID) (int, error)
	// CountWorkoutsInMonth считает выполненные тренировки за месяц.
	CountWorkoutsInMonth(ctx context.Context, memberID uuid.UUID, day time.Time) (int, error)
	// ListCompletedWorkoutDates возвращает даты выполненных тренировок, новые первыми.
	ListCompletedWorkoutDates(ctx context.Context, memberID uuid.UUID, from time.Time) ([]time.Time, error)
	// ListUpcomingSessionsForMember возвращает ближайшие тренировки клиента.
	ListUpcomingSessionsForMember(ctx context.Context, memberID uuid.UUID, from time.Time, limit int) ([]*models.TrainingSession, error)
	// UpsertWorkoutLog сохраняет запись о тренировке за день.
	UpsertWorkoutLog(ctx context.Context, log models.WorkoutLog) (*models.WorkoutLog, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// MemberService реализует бизнес-логику работы с клиентами, включая кеширование.
type MemberService struct {
	repo   MemberRepository
	portal PortalRepository
	cache  Cache
	log    *slog.Logger
}

// NewMemberService создает новый экземпляр MemberService.
func NewMemberService(repo MemberRepository, portal PortalRepository, cache Cache, log *slog.Logger) *MemberService {
	return &MemberService{
		repo:   repo,
		portal: portal,
		cache:  cache,
		log:    log,
	}
}

// Create создает нового клиента, кеширует его и возвращает ID.
func (s *MemberService) Create(ctx context.Context, req models.DummyMember) (uuid.UUID, error) {
	member, err := memberFromRequest(req)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := s.repo.CreateMember(ctx, member)
	if err != nil {
		return uuid.Nil, err
	}
	member.ID = id

	s.log.Info("created new member", slog.String("id", id.String()))

	cacheKey := fmt.Sprintf("member:%s", id)
	if err := s.cache.Set(cacheKey, member, time.Hour); err != nil {
		s.log.Warn("failed to cache member", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// Read возвращает клиента по ID, используя кеш или репозиторий.
func (s *MemberService) Read(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	var result *models.Member
	cacheKey := fmt.Sprintf("member:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetMemberByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}

// List возвращает список клиентов с пагинацией.
func (s *MemberService) List(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	return s.repo.ListMembers(ctx, limit, offset)
}

// Update обновляет данные клиента и кеш.
func (s *MemberService) Update(ctx context.Context, id uuid.UUID, req models.DummyMember) (int, error) {
	member, err := memberFromRequest(req)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.UpdateMember(ctx, member, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated member in storage", slog.String("id", id.String()))

	cacheKey := fmt.Sprintf("member:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return count, nil
}

// Deactivate помечает клиента неактивным и инвалидирует кеш.
func (s *MemberService) Deactivate(ctx context.Context, id uuid.UUID) (int, error) {
	cacheKey := fmt.Sprintf("member:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return s.repo.DeactivateMember(ctx, id)
}

// FindByUser возвращает клиента, привязанного к учётной записи портала.
func (s *MemberService) FindByUser(ctx context.Context, userUID string) (*models.Member, error) {
	return s.repo.GetMemberByUserUID(ctx, userUID)
}

// Stats возвращает агрегированную статистику по клиентам на сегодня.
func (s *MemberService) Stats(ctx context.Context) (*models.MemberStats, error) {
	return s.repo.CountMemberStats(ctx, time.Now())
}

// Dashboard собирает данные личного кабинета клиента по его учётной записи.
func (s *MemberService) Dashboard(ctx context.Context, userUID string) (*models.MemberDashboard, error) {
	member, err := s.repo.GetMemberByUserUID(ctx, userUID)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	dashboard := &models.MemberDashboard{
		Member:       *member,
		DaysUntilDue: member.DaysUntilDue(now),
		IsDueSoon:    member.IsDueSoon(now),
		IsOverdue:    member.IsOverdue(now),
	}

	plan, err := s.portal.GetActiveMemberPlan(ctx, member.ID)
	if err != nil {
		return nil, err
	}
	dashboard.CurrentPlan = plan

	recent, err := s.portal.ListRecentWorkouts(ctx, member.ID, 10)
	if err != nil {
		return nil, err
	}
	dashboard.RecentWorkouts = make([]models.WorkoutLog, 0, len(recent))
	for _, w := range recent {
		dashboard.RecentWorkouts = append(dashboard.RecentWorkouts, *w)
	}

	upcoming, err := s.portal.ListUpcomingSessionsForMember(ctx, member.ID, now, 5)
	if err != nil {
		return nil, err
	}
	dashboard.UpcomingSessions = make([]models.TrainingSession, 0, len(upcoming))
	for _, sess := range upcoming {
		dashboard.UpcomingSessions = append(dashboard.UpcomingSessions, *sess)
	}

	if dashboard.TotalWorkouts, err = s.portal.CountWorkouts(ctx, member.ID); err != nil {
		return nil, err
	}
	if dashboard.ThisMonthWorkouts, err = s.portal.CountWorkoutsInMonth(ctx, member.ID, now); err != nil {
		return nil, err
	}

	dates, err := s.portal.ListCompletedWorkoutDates(ctx, member.ID, now.AddDate(0, 0, -60))
	if err != nil {
		return nil, err
	}
	dashboard.WorkoutStreak = workoutStreak(dates, now)

	return dashboard, nil
}

// LogWorkout сохраняет запись клиента о тренировке за день. Запись за тот же
// день перезаписывается.
func (s *MemberService) LogWorkout(ctx context.Context, userUID string, req models.DummyWorkoutLog) (*models.WorkoutLog, error) {
	member, err := s.repo.GetMemberByUserUID(ctx, userUID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	log := models.WorkoutLog{
		MemberID:        member.ID,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Completed:       true,
	}
	if req.Completed != nil {
		log.Completed = *req.Completed
	}

	return s.portal.UpsertWorkoutLog(ctx, log)
}

// workoutStreak считает серию тренировок: количество подряд идущих дней
// с выполненной тренировкой, заканчивающихся сегодня или вчера.
// Даты приходят новыми вперёд.
func workoutStreak(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}

	expected := day(now)
	if !dates[0].Equal(expected) {
		// Серия не прервана, если последняя тренировка была вчера
		expected = expected.AddDate(0, 0, -1)
	}

	streak := 0
	for _, d := range dates {
		if !day(d).Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// memberFromRequest конвертирует JSON-запрос в доменную структуру,
// разбирая строковые даты.
func memberFromRequest(req models.DummyMember) (models.Member, error) {
	dueDate, err := time.Parse("2006-01-02", req.SubscriptionDueDate)
	if err != nil {
		return models.Member{}, fmt.Errorf("invalid subscription due date: %w", err)
	}

	member := models.Member{
		FullName:            req.FullName,
		Email:               req.Email,
		Phone:               req.Phone,
		SubscriptionDueDate: dueDate,
		MembershipType:      req.MembershipType,
		IsActive:            true,
		Notes:               req.Notes,
	}
	if member.MembershipType == "" {
		member.MembershipType = "basic"
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return models.Member{}, fmt.Errorf("invalid birthday: %w", err)
		}
		member.Birthday = &birthday
	}
	return member, nil
}
