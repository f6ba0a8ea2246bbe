// Package services содержит бизнес-логику посещений клуба: вход, выход
// и подсчёт длительности визита.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// ErrAlreadyCheckedIn возвращается при повторной отметке входа в тот же день.
var ErrAlreadyCheckedIn = errors.New("member already checked in today")

// ErrNoActiveCheckin возвращается при отметке выхода без открытого посещения.
var ErrNoActiveCheckin = errors.New("member has no active checkin")

// CheckinRepository определяет методы для работы с посещениями в хранилище.
type CheckinRepository interface {
	// FindOpenCheckin возвращает открытое посещение клиента за день или nil.
	FindOpenCheckin(ctx context.Context, memberID uuid.UUID, day time.Time) (*models.MemberCheckin, error)
	// FindLatestOpenCheckin возвращает последнее открытое посещение клиента или nil.
	FindLatestOpenCheckin(ctx context.Context, memberID uuid.UUID) (*models.MemberCheckin, error)
	// CreateCheckin открывает новое посещение.
	CreateCheckin(ctx context.Context, memberID uuid.UUID, checkinTime time.Time) (*models.MemberCheckin, error)
	// CloseCheckin закрывает посещение с длительностью в минутах.
	CloseCheckin(ctx context.Context, id uuid.UUID, checkoutTime time.Time, durationMinutes int) (*models.MemberCheckin, error)
	// ListMemberCheckins возвращает посещения клиента, новые первыми.
	ListMemberCheckins(ctx context.Context, memberID uuid.UUID, limit int) ([]*models.MemberCheckin, error)
	// UpdateMemberLastCheckin обновляет дату последнего посещения клиента.
	UpdateMemberLastCheckin(ctx context.Context, id uuid.UUID, day time.Time) error
}

// CheckinService реализует правила входа и выхода из клуба.
type CheckinService struct {
	repo CheckinRepository
	log  *slog.Logger
}

// NewCheckinService создает новый экземпляр CheckinService.
func NewCheckinService(repo CheckinRepository, log *slog.Logger) *CheckinService {
	return &CheckinService{
		repo: repo,
		log:  log,
	}
}

// CheckIn отмечает вход клиента. Повторный вход в течение дня при
// незакрытом посещении запрещён. Дата последнего посещения клиента
// обновляется сразу при входе.
func (s *CheckinService) CheckIn(ctx context.Context, memberID uuid.UUID) (*models.MemberCheckin, error) {
	now := time.Now()

	open, err := s.repo.FindOpenCheckin(ctx, memberID, now)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrAlreadyCheckedIn
	}

	checkin, err := s.repo.CreateCheckin(ctx, memberID, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMemberLastCheckin(ctx, memberID, now); err != nil {
		// Посещение уже записано, потеря даты не критична
		s.log.Error("failed to update member last checkin date", sl.Err(err),
			slog.String("member_id", memberID.String()))
	}

	s.log.Info("member checked in",
		slog.String("member_id", memberID.String()),
		slog.String("checkin_id", checkin.ID.String()))
	return checkin, nil
}

// CheckOut отмечает выход клиента, закрывая последнее открытое посещение.
// Длительность считается в целых минутах с округлением вниз.
func (s *CheckinService) CheckOut(ctx context.Context, memberID uuid.UUID) (*models.MemberCheckin, error) {
	now := time.Now()

	open, err := s.repo.FindLatestOpenCheckin(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, ErrNoActiveCheckin
	}

	duration := int(now.Sub(open.CheckinTime).Minutes())
	if duration < 0 {
		duration = 0
	}

	closed, err := s.repo.CloseCheckin(ctx, open.ID, now, duration)
	if err != nil {
		return nil, err
	}

	s.log.Info("member checked out",
		slog.String("member_id", memberID.String()),
		slog.Int("duration_minutes", duration))
	return closed, nil
}

// History возвращает последние посещения клиента.
func (s *CheckinService) History(ctx context.Context, memberID uuid.UUID, limit int) ([]*models.MemberCheckin, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListMemberCheckins(ctx, memberID, limit)
}
