package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/models"
)

// CreateCoach вставляет нового тренера и возвращает его ID.
func (s *Storage) CreateCoach(ctx context.Context, c models.Coach) (uuid.UUID, error) {
	const op = "storage.CreateCoach"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO coaches (full_name, email, phone, specializations, is_available)
			  VALUES ($1, $2, $3, string_to_array($4, ','), $5)
			  RETURNING id`
	var newID uuid.UUID
	err := s.DB.QueryRowContext(ctx, query,
		c.FullName, c.Email, c.Phone, strings.Join(c.Specializations, ","), c.IsAvailable).Scan(&newID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCoachByID возвращает тренера по его ID.
func (s *Storage) GetCoachByID(ctx context.Context, id uuid.UUID) (*models.Coach, error) {
	const op = "storage.GetCoachByID"
	query := `SELECT id, full_name, email, phone,
			     array_to_string(specializations, ','), is_available, created_at
			  FROM coaches WHERE id = $1`
	var c models.Coach
	var specs string
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.FullName, &c.Email,
		&c.Phone, &specs, &c.IsAvailable, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if specs != "" {
		c.Specializations = strings.Split(specs, ",")
	}
	return &c, nil
}

// ListCoaches возвращает всех тренеров, отсортированных по имени.
func (s *Storage) ListCoaches(ctx context.Context) ([]*models.Coach, error) {
	const op = "storage.ListCoaches"
	query := `SELECT id, full_name, email, phone,
			     array_to_string(specializations, ','), is_available, created_at
			  FROM coaches ORDER BY full_name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Coach
	for rows.Next() {
		var c models.Coach
		var specs string
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone,
			&specs, &c.IsAvailable, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if specs != "" {
			c.Specializations = strings.Split(specs, ",")
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateCoachSchedule добавляет слот еженедельного расписания тренера.
// Пара (тренер, день недели, время начала) уникальна.
func (s *Storage) CreateCoachSchedule(ctx context.Context, sc models.CoachSchedule) (uuid.UUID, error) {
	const op = "storage.CreateCoachSchedule"
	query := `INSERT INTO coach_schedules (coach_id, day_of_week, start_time, end_time,
			      is_available, max_clients)
			  VALUES ($1, $2, $3::time, $4::time, $5, $6)
			  RETURNING id`
	var newID uuid.UUID
	err := s.DB.QueryRowContext(ctx, query,
		sc.CoachID, sc.DayOfWeek, sc.StartTime, sc.EndTime, sc.IsAvailable, sc.MaxClients).Scan(&newID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListCoachSchedules возвращает все слоты расписания тренера.
func (s *Storage) ListCoachSchedules(ctx context.Context, coachID uuid.UUID) ([]*models.CoachSchedule, error) {
	const op = "storage.ListCoachSchedules"
	query := `SELECT id, coach_id, day_of_week, to_char(start_time, 'HH24:MI'),
			      to_char(end_time, 'HH24:MI'), is_available, max_clients
			  FROM coach_schedules
			  WHERE coach_id = $1
			  ORDER BY day_of_week, start_time`
	rows, err := s.DB.QueryContext(ctx, query, coachID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectSchedules(rows, op)
}

// ListAvailableSchedulesForDay возвращает доступные слоты тренера на день недели
// (Monday=0 .. Sunday=6).
func (s *Storage) ListAvailableSchedulesForDay(ctx context.Context, coachID uuid.UUID, dayOfWeek int) ([]*models.CoachSchedule, error) {
	const op = "storage.ListAvailableSchedulesForDay"
	query := `SELECT id, coach_id, day_of_week, to_char(start_time, 'HH24:MI'),
			      to_char(end_time, 'HH24:MI'), is_available, max_clients
			  FROM coach_schedules
			  WHERE coach_id = $1 AND day_of_week = $2 AND is_available = TRUE
			  ORDER BY start_time`
	rows, err := s.DB.QueryContext(ctx, query, coachID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectSchedules(rows, op)
}

func collectSchedules(rows interface {
	Next() bool
	Scan(...any) error
	Close() error
	Err() error
}, op string) ([]*models.CoachSchedule, error) {
	defer func() { _ = rows.Close() }()
	var result []*models.CoachSchedule
	for rows.Next() {
		var sc models.CoachSchedule
		if err := rows.Scan(&sc.ID, &sc.CoachID, &sc.DayOfWeek, &sc.StartTime,
			&sc.EndTime, &sc.IsAvailable, &sc.MaxClients); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
