package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/models"
)

const sessionColumns = `ts.id, ts.coach_id, ts.title, ts.date,
			      to_char(ts.start_time, 'HH24:MI'), to_char(ts.end_time, 'HH24:MI'),
			      ts.max_participants, ts.status,
			      (SELECT count(*) FROM training_session_members tsm WHERE tsm.session_id = ts.id)`

func scanSession(row interface{ Scan(...any) error }) (*models.TrainingSession, error) {
	var ts models.TrainingSession
	if err := row.Scan(&ts.ID, &ts.CoachID, &ts.Title, &ts.Date, &ts.StartTime,
		&ts.EndTime, &ts.MaxParticipants, &ts.Status, &ts.CurrentParticipants); err != nil {
		return nil, err
	}
	return &ts, nil
}

func collectSessions(rows *sql.Rows, op string) ([]*models.TrainingSession, error) {
	defer func() { _ = rows.Close() }()
	var result []*models.TrainingSession
	for rows.Next() {
		ts, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateTrainingSession вставляет новую тренировку и возвращает её ID.
func (s *Storage) CreateTrainingSession(ctx context.Context, ts models.TrainingSession) (uuid.UUID, error) {
	const op = "storage.CreateTrainingSession"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO training_sessions (coach_id, title, date, start_time, end_time,
			      max_participants, status)
			  VALUES ($1, $2, $3, $4::time, $5::time, $6, $7)
			  RETURNING id`
	var newID uuid.UUID
	err := s.DB.QueryRowContext(ctx, query,
		ts.CoachID, ts.Title, ts.Date, ts.StartTime, ts.EndTime,
		ts.MaxParticipants, ts.Status).Scan(&newID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetSessionByID возвращает тренировку вместе с текущим числом участников.
func (s *Storage) GetSessionByID(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	const op = "storage.GetSessionByID"
	query := `SELECT ` + sessionColumns + ` FROM training_sessions ts WHERE ts.id = $1`
	ts, err := scanSession(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ts, nil
}

// ListSessions возвращает тренировки с необязательными фильтрами по дате и тренеру.
func (s *Storage) ListSessions(ctx context.Context, date *time.Time, coachID *uuid.UUID) ([]*models.TrainingSession, error) {
	const op = "storage.ListSessions"
	query := `SELECT ` + sessionColumns + ` FROM training_sessions ts
			  WHERE ($1::date IS NULL OR ts.date = $1)
			    AND ($2::uuid IS NULL OR ts.coach_id = $2)
			  ORDER BY ts.date, ts.start_time`
	var dateArg, coachArg any
	if date != nil {
		dateArg = *date
	}
	if coachID != nil {
		coachArg = coachID.String()
	}
	rows, err := s.DB.QueryContext(ctx, query, dateArg, coachArg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectSessions(rows, op)
}

// ListBookedSessions возвращает тренировки тренера на дату в статусах
// scheduled и completed — именно они занимают места в расписании.
func (s *Storage) ListBookedSessions(ctx context.Context, coachID uuid.UUID, date time.Time) ([]*models.TrainingSession, error) {
	const op = "storage.ListBookedSessions"
	query := `SELECT ` + sessionColumns + ` FROM training_sessions ts
			  WHERE ts.coach_id = $1 AND ts.date = $2
			    AND ts.status IN ('scheduled', 'completed')
			  ORDER BY ts.start_time`
	rows, err := s.DB.QueryContext(ctx, query, coachID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectSessions(rows, op)
}

// ListUpcomingSessionsForMember возвращает ближайшие запланированные тренировки клиента.
func (s *Storage) ListUpcomingSessionsForMember(ctx context.Context, memberID uuid.UUID, from time.Time, limit int) ([]*models.TrainingSession, error) {
	const op = "storage.ListUpcomingSessionsForMember"
	query := `SELECT ` + sessionColumns + ` FROM training_sessions ts
			  JOIN training_session_members tsm ON tsm.session_id = ts.id
			  WHERE tsm.member_id = $1 AND ts.date >= $2 AND ts.status = 'scheduled'
			  ORDER BY ts.date, ts.start_time
			  LIMIT $3`
	rows, err := s.DB.QueryContext(ctx, query, memberID, from, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectSessions(rows, op)
}

// AddSessionMember записывает клиента на тренировку.
func (s *Storage) AddSessionMember(ctx context.Context, sessionID, memberID uuid.UUID) error {
	const op = "storage.AddSessionMember"
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO training_session_members (session_id, member_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, sessionID, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveSessionMember снимает клиента с тренировки.
func (s *Storage) RemoveSessionMember(ctx context.Context, sessionID, memberID uuid.UUID) error {
	const op = "storage.RemoveSessionMember"
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM training_session_members WHERE session_id = $1 AND member_id = $2`,
		sessionID, memberID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
