// Package services содержит бизнес-логику работы с тренерами: расписания
// и расчёт свободных мест в слотах на конкретную дату.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/models"
)

// ErrCoachUnavailable возвращается при запросе доступности тренера,
// который не принимает клиентов.
var ErrCoachUnavailable = errors.New("coach is not available")

// CoachRepository определяет методы для работы с тренерами в хранилище.
type CoachRepository interface {
	// CreateCoach добавляет нового тренера и возвращает его ID.
	CreateCoach(ctx context.Context, c models.Coach) (uuid.UUID, error)
	// GetCoachByID возвращает тренера по ID.
	GetCoachByID(ctx context.Context, id uuid.UUID) (*models.Coach, error)
	// ListCoaches возвращает всех тренеров.
	ListCoaches(ctx context.Context) ([]*models.Coach, error)
	// CreateCoachSchedule добавляет слот еженедельного расписания.
	CreateCoachSchedule(ctx context.Context, sc models.CoachSchedule) (uuid.UUID, error)
	// ListCoachSchedules возвращает все слоты расписания тренера.
	ListCoachSchedules(ctx context.Context, coachID uuid.UUID) ([]*models.CoachSchedule, error)
	// ListAvailableSchedulesForDay возвращает доступные слоты тренера на день недели.
	ListAvailableSchedulesForDay(ctx context.Context, coachID uuid.UUID, dayOfWeek int) ([]*models.CoachSchedule, error)
	// ListBookedSessions возвращает тренировки тренера на дату, занимающие слоты.
	ListBookedSessions(ctx context.Context, coachID uuid.UUID, date time.Time) ([]*models.TrainingSession, error)
}

// CoachService реализует бизнес-логику работы с тренерами.
type CoachService struct {
	repo CoachRepository
	log  *slog.Logger
}

// NewCoachService создает новый экземпляр CoachService.
func NewCoachService(repo CoachRepository, log *slog.Logger) *CoachService {
	return &CoachService{
		repo: repo,
		log:  log,
	}
}

// Create добавляет нового тренера.
func (s *CoachService) Create(ctx context.Context, req models.DummyCoach) (uuid.UUID, error) {
	coach := models.Coach{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Specializations: req.Specializations,
		IsAvailable:     true,
	}
	if req.IsAvailable != nil {
		coach.IsAvailable = *req.IsAvailable
	}

	id, err := s.repo.CreateCoach(ctx, coach)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Info("created new coach", slog.String("id", id.String()))
	return id, nil
}

// List возвращает всех тренеров.
func (s *CoachService) List(ctx context.Context) ([]*models.Coach, error) {
	return s.repo.ListCoaches(ctx)
}

// AddSchedule добавляет слот еженедельного расписания тренера.
func (s *CoachService) AddSchedule(ctx context.Context, coachID uuid.UUID, req models.DummyCoachSchedule) (uuid.UUID, error) {
	if req.StartTime >= req.EndTime {
		return uuid.Nil, fmt.Errorf("start time %s must be before end time %s", req.StartTime, req.EndTime)
	}
	if _, err := s.repo.GetCoachByID(ctx, coachID); err != nil {
		return uuid.Nil, err
	}

	schedule := models.CoachSchedule{
		CoachID:     coachID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
		MaxClients:  req.MaxClients,
	}
	if req.IsAvailable != nil {
		schedule.IsAvailable = *req.IsAvailable
	}

	id, err := s.repo.CreateCoachSchedule(ctx, schedule)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Info("created coach schedule",
		slog.String("coach_id", coachID.String()),
		slog.Int("day_of_week", schedule.DayOfWeek))
	return id, nil
}

// ListSchedules возвращает все слоты расписания тренера.
func (s *CoachService) ListSchedules(ctx context.Context, coachID uuid.UUID) ([]*models.CoachSchedule, error) {
	if _, err := s.repo.GetCoachByID(ctx, coachID); err != nil {
		return nil, err
	}
	return s.repo.ListCoachSchedules(ctx, coachID)
}

// Availability считает остаток мест в слотах тренера на дату: из вместимости
// каждого доступного слота вычитаются тренировки, пересекающиеся с ним по
// времени. Отменённые тренировки и неявки мест не занимают.
func (s *CoachService) Availability(ctx context.Context, coachID uuid.UUID, date time.Time) ([]models.SlotAvailability, error) {
	coach, err := s.repo.GetCoachByID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	if !coach.IsAvailable {
		return nil, ErrCoachUnavailable
	}

	schedules, err := s.repo.ListAvailableSchedulesForDay(ctx, coachID, models.WeekdayIndex(date))
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return []models.SlotAvailability{}, nil
	}

	booked, err := s.repo.ListBookedSessions(ctx, coachID, date)
	if err != nil {
		return nil, err
	}

	result := make([]models.SlotAvailability, 0, len(schedules))
	for _, sc := range schedules {
		conflicting := 0
		for _, session := range booked {
			if overlaps(sc.StartTime, sc.EndTime, session.StartTime, session.EndTime) {
				conflicting++
			}
		}
		available := sc.MaxClients - conflicting
		if available < 0 {
			available = 0
		}
		result = append(result, models.SlotAvailability{
			ScheduleID:     sc.ID,
			StartTime:      sc.StartTime,
			EndTime:        sc.EndTime,
			AvailableSlots: available,
			MaxClients:     sc.MaxClients,
		})
	}
	return result, nil
}

// overlaps проверяет пересечение двух интервалов времени в формате 15:04.
// Интервалы, соприкасающиеся краями, пересечением не считаются.
// Лексикографическое сравнение корректно для этого формата.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
