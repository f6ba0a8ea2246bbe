// Package services содержит бизнес-логику работы с программами тренировок:
// создание программ и назначение их клиентам на период.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/models"
)

// PlanRepository определяет методы для работы с программами тренировок в хранилище.
type PlanRepository interface {
	// CreateWorkoutPlan сохраняет новую программу тренировок.
	CreateWorkoutPlan(ctx context.Context, plan models.WorkoutPlan) (uuid.UUID, error)
	// ListWorkoutPlans возвращает все программы тренировок.
	ListWorkoutPlans(ctx context.Context) ([]*models.WorkoutPlan, error)
	// AssignWorkoutPlan назначает программу клиенту, деактивируя предыдущие назначения.
	AssignWorkoutPlan(ctx context.Context, memberID, planID uuid.UUID, startDate, endDate time.Time) (uuid.UUID, error)
	// GetMemberByID возвращает клиента по ID.
	GetMemberByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
	// GetCoachByID возвращает тренера по ID.
	GetCoachByID(ctx context.Context, id uuid.UUID) (*models.Coach, error)
}

// PlanService реализует бизнес-логику работы с программами тренировок.
type PlanService struct {
	repo PlanRepository
	log  *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, log *slog.Logger) *PlanService {
	return &PlanService{
		repo: repo,
		log:  log,
	}
}

// Create добавляет новую программу тренировок.
func (s *PlanService) Create(ctx context.Context, req models.DummyWorkoutPlan) (uuid.UUID, error) {
	plan := models.WorkoutPlan{
		Name:            req.Name,
		Description:     req.Description,
		DifficultyLevel: req.DifficultyLevel,
		DurationWeeks:   req.DurationWeeks,
		SessionsPerWeek: req.SessionsPerWeek,
	}
	if req.CoachID != "" {
		coachID, err := uuid.Parse(req.CoachID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid coach id: %w", err)
		}
		if _, err := s.repo.GetCoachByID(ctx, coachID); err != nil {
			return uuid.Nil, err
		}
		plan.CoachID = &coachID
	}

	id, err := s.repo.CreateWorkoutPlan(ctx, plan)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Info("created workout plan", slog.String("id", id.String()))
	return id, nil
}

// List возвращает все программы тренировок.
func (s *PlanService) List(ctx context.Context) ([]*models.WorkoutPlan, error) {
	return s.repo.ListWorkoutPlans(ctx)
}

// Assign назначает программу клиенту на период. Предыдущие назначения
// деактивируются, активным остаётся только новое.
func (s *PlanService) Assign(ctx context.Context, memberID uuid.UUID, req models.DummyPlanAssignment) (uuid.UUID, error) {
	planID, err := uuid.Parse(req.WorkoutPlanID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid workout plan id: %w", err)
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid end date: %w", err)
	}
	if !startDate.Before(endDate) {
		return uuid.Nil, fmt.Errorf("start date %s must be before end date %s", req.StartDate, req.EndDate)
	}
	if _, err := s.repo.GetMemberByID(ctx, memberID); err != nil {
		return uuid.Nil, err
	}

	id, err := s.repo.AssignWorkoutPlan(ctx, memberID, planID, startDate, endDate)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Info("assigned workout plan",
		slog.String("member_id", memberID.String()),
		slog.String("plan_id", planID.String()))
	return id, nil
}
