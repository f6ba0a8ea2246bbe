// Package services содержит бизнес-логику записи клиентов на тренировки.
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

var (
	// ErrSessionFull свободных мест на тренировке не осталось.
	ErrSessionFull = errors.New("session is full")
	// ErrSessionNotBookable тренировка отменена или уже прошла.
	ErrSessionNotBookable = errors.New("session is not bookable")
)

// SessionRepository определяет методы для работы с тренировками в хранилище.
type SessionRepository interface {
	CreateTrainingSession(ctx context.Context, ts models.TrainingSession) (uuid.UUID, error)
	GetSessionByID(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error)
	ListSessions(ctx context.Context, date *time.Time, coachID *uuid.UUID) ([]*models.TrainingSession, error)
	AddSessionMember(ctx context.Context, sessionID, memberID uuid.UUID) error
	RemoveSessionMember(ctx context.Context, sessionID, memberID uuid.UUID) error
	GetCoachByID(ctx context.Context, id uuid.UUID) (*models.Coach, error)
}

// SessionService реализует бизнес-логику расписания тренировок.
type SessionService struct {
	repo SessionRepository
	log  *slog.Logger
}

// NewSessionService создает новый экземпляр SessionService.
func NewSessionService(repo SessionRepository, log *slog.Logger) *SessionService {
	return &SessionService{repo: repo, log: log}
}

// Create создает тренировку в расписании тренера.
func (s *SessionService) Create(ctx context.Context, req models.DummyTrainingSession) (uuid.UUID, error) {
	coachID, err := uuid.Parse(req.CoachID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid coach id: %w", err)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid date: %w", err)
	}
	if req.StartTime >= req.EndTime {
		return uuid.Nil, errors.New("start time must be before end time")
	}

	if _, err := s.repo.GetCoachByID(ctx, coachID); err != nil {
		return uuid.Nil, err
	}

	session := models.TrainingSession{
		CoachID:         coachID,
		Title:           req.Title,
		Date:            date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		Status:          models.SessionScheduled,
	}

	id, err := s.repo.CreateTrainingSession(ctx, session)
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Info("created training session", slog.String("id", id.String()), slog.String("coach_id", coachID.String()))
	return id, nil
}

// List возвращает тренировки с необязательной фильтрацией по дате и тренеру.
func (s *SessionService) List(ctx context.Context, date *time.Time, coachID *uuid.UUID) ([]*models.TrainingSession, error) {
	return s.repo.ListSessions(ctx, date, coachID)
}

// Join записывает клиента на тренировку. Возвращает ErrSessionFull при
// отсутствии мест и ErrSessionNotBookable, если тренировка не в статусе
// scheduled.
func (s *SessionService) Join(ctx context.Context, sessionID, memberID uuid.UUID) error {
	session, err := s.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionScheduled {
		return ErrSessionNotBookable
	}
	if session.IsFull() {
		return ErrSessionFull
	}

	if err := s.repo.AddSessionMember(ctx, sessionID, memberID); err != nil {
		return err
	}
	s.log.Info("member joined session",
		slog.String("session_id", sessionID.String()),
		slog.String("member_id", memberID.String()))
	return nil
}

// Leave отменяет запись клиента на тренировку.
func (s *SessionService) Leave(ctx context.Context, sessionID, memberID uuid.UUID) error {
	if _, err := s.repo.GetSessionByID(ctx, sessionID); err != nil {
		return err
	}
	if err := s.repo.RemoveSessionMember(ctx, sessionID, memberID); err != nil {
		return err
	}
	s.log.Info("member left session",
		slog.String("session_id", sessionID.String()),
		slog.String("member_id", memberID.String()))
	return nil
}
