package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/models"
)

// CreateWorkoutPlan сохраняет новую программу тренировок.
func (s *Storage) CreateWorkoutPlan(ctx context.Context, plan models.WorkoutPlan) (uuid.UUID, error) {
	const op = "storage.CreateWorkoutPlan"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	query := `INSERT INTO workout_plans (name, description, difficulty_level, duration_weeks, sessions_per_week, coach_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var id uuid.UUID
	err := s.DB.QueryRowContext(ctx, query,
		plan.Name, plan.Description, plan.DifficultyLevel,
		plan.DurationWeeks, plan.SessionsPerWeek, plan.CoachID).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListWorkoutPlans возвращает все программы тренировок.
func (s *Storage) ListWorkoutPlans(ctx context.Context) ([]*models.WorkoutPlan, error) {
	const op = "storage.ListWorkoutPlans"
	query := `SELECT id, name, description, difficulty_level, duration_weeks, sessions_per_week, coach_id, created_at
			  FROM workout_plans
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.WorkoutPlan
	for rows.Next() {
		var p models.WorkoutPlan
		var coachID uuid.NullUUID
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.DifficultyLevel,
			&p.DurationWeeks, &p.SessionsPerWeek, &coachID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if coachID.Valid {
			p.CoachID = &coachID.UUID
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AssignWorkoutPlan назначает программу клиенту, деактивируя предыдущие назначения.
func (s *Storage) AssignWorkoutPlan(ctx context.Context, memberID, planID uuid.UUID, startDate, endDate time.Time) (uuid.UUID, error) {
	const op = "storage.AssignWorkoutPlan"
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`UPDATE member_workout_plans SET is_active = FALSE WHERE member_id = $1 AND is_active`, memberID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = tx.QueryRowContext(ctx,
		`INSERT INTO member_workout_plans (member_id, workout_plan_id, start_date, end_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		memberID, planID, startDate, endDate).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetActiveMemberPlan возвращает действующее назначение программы клиенту
// вместе с самой программой, или nil, если назначения нет.
func (s *Storage) GetActiveMemberPlan(ctx context.Context, memberID uuid.UUID) (*models.MemberWorkoutPlan, error) {
	const op = "storage.GetActiveMemberPlan"
	query := `SELECT mwp.id, mwp.member_id, mwp.workout_plan_id, mwp.start_date, mwp.end_date, mwp.is_active,
					 wp.id, wp.name, wp.description, wp.difficulty_level, wp.duration_weeks, wp.sessions_per_week, wp.coach_id, wp.created_at
			  FROM member_workout_plans mwp
			  JOIN workout_plans wp ON wp.id = mwp.workout_plan_id
			  WHERE mwp.member_id = $1 AND mwp.is_active
			  ORDER BY mwp.start_date DESC
			  LIMIT 1`
	var mwp models.MemberWorkoutPlan
	var plan models.WorkoutPlan
	var coachID uuid.NullUUID
	err := s.DB.QueryRowContext(ctx, query, memberID).Scan(
		&mwp.ID, &mwp.MemberID, &mwp.WorkoutPlanID, &mwp.StartDate, &mwp.EndDate, &mwp.IsActive,
		&plan.ID, &plan.Name, &plan.Description, &plan.DifficultyLevel,
		&plan.DurationWeeks, &plan.SessionsPerWeek, &coachID, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if coachID.Valid {
		plan.CoachID = &coachID.UUID
	}
	mwp.Plan = &plan
	return &mwp, nil
}

// UpsertWorkoutLog сохраняет запись о тренировке за день. Повторная запись
// за тот же день перезаписывает длительность, заметки и признак выполнения.
func (s *Storage) UpsertWorkoutLog(ctx context.Context, log models.WorkoutLog) (*models.WorkoutLog, error) {
	const op = "storage.UpsertWorkoutLog"
	query := `INSERT INTO workout_logs (member_id, date, duration_minutes, notes, completed)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (member_id, date) DO UPDATE
			  SET duration_minutes = EXCLUDED.duration_minutes,
				  notes = EXCLUDED.notes,
				  completed = EXCLUDED.completed
			  RETURNING id, member_id, date, duration_minutes, notes, completed`
	var out models.WorkoutLog
	err := s.DB.QueryRowContext(ctx, query,
		log.MemberID, log.Date, log.DurationMinutes, log.Notes, log.Completed).Scan(
		&out.ID, &out.MemberID, &out.Date, &out.DurationMinutes, &out.Notes, &out.Completed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &out, nil
}

// ListRecentWorkouts возвращает последние записи о тренировках клиента.
func (s *Storage) ListRecentWorkouts(ctx context.Context, memberID uuid.UUID, limit int) ([]*models.WorkoutLog, error) {
	const op = "storage.ListRecentWorkouts"
	query := `SELECT id, member_id, date, duration_minutes, notes, completed
			  FROM workout_logs
			  WHERE member_id = $1
			  ORDER BY date DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, memberID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.WorkoutLog
	for rows.Next() {
		var l models.WorkoutLog
		if err := rows.Scan(&l.ID, &l.MemberID, &l.Date, &l.DurationMinutes, &l.Notes, &l.Completed); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountWorkouts считает выполненные тренировки клиента за всё время.
func (s *Storage) CountWorkouts(ctx context.Context, memberID uuid.UUID) (int, error) {
	const op = "storage.CountWorkouts"
	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workout_logs WHERE member_id = $1 AND completed`, memberID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountWorkoutsInMonth считает выполненные тренировки клиента за календарный
// месяц, которому принадлежит day.
func (s *Storage) CountWorkoutsInMonth(ctx context.Context, memberID uuid.UUID, day time.Time) (int, error) {
	const op = "storage.CountWorkoutsInMonth"
	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workout_logs
		 WHERE member_id = $1 AND completed
		   AND date_trunc('month', date) = date_trunc('month', $2::date)`,
		memberID, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListCompletedWorkoutDates возвращает даты выполненных тренировок клиента
// начиная с from, новые первыми. Используется при подсчёте серии тренировок.
func (s *Storage) ListCompletedWorkoutDates(ctx context.Context, memberID uuid.UUID, from time.Time) ([]time.Time, error) {
	const op = "storage.ListCompletedWorkoutDates"
	query := `SELECT date FROM workout_logs
			  WHERE member_id = $1 AND completed AND date >= $2
			  ORDER BY date DESC`
	rows, err := s.DB.QueryContext(ctx, query, memberID, from)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return dates, nil
}
