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

func scanCheckin(row interface{ Scan(...any) error }) (*models.MemberCheckin, error) {
	var c models.MemberCheckin
	var checkout sql.NullTime
	var duration sql.NullInt64
	if err := row.Scan(&c.ID, &c.MemberID, &c.CheckinTime, &checkout, &duration); err != nil {
		return nil, err
	}
	if checkout.Valid {
		c.CheckoutTime = &checkout.Time
	}
	if duration.Valid {
		d := int(duration.Int64)
		c.DurationMinutes = &d
	}
	return &c, nil
}

// FindOpenCheckin возвращает открытое посещение клиента за календарный день day
// или nil, если такого нет.
func (s *Storage) FindOpenCheckin(ctx context.Context, memberID uuid.UUID, day time.Time) (*models.MemberCheckin, error) {
	const op = "storage.FindOpenCheckin"
	query := `SELECT id, member_id, checkin_time, checkout_time, duration_minutes
			  FROM member_checkins
			  WHERE member_id = $1 AND checkin_time::date = $2::date
			    AND checkout_time IS NULL`
	c, err := scanCheckin(s.DB.QueryRowContext(ctx, query, memberID, day))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// FindLatestOpenCheckin возвращает последнее открытое посещение клиента
// независимо от дня, или nil. Используется при выходе: посещение, открытое
// в 23:59, закрывается и после полуночи.
func (s *Storage) FindLatestOpenCheckin(ctx context.Context, memberID uuid.UUID) (*models.MemberCheckin, error) {
	const op = "storage.FindLatestOpenCheckin"
	query := `SELECT id, member_id, checkin_time, checkout_time, duration_minutes
			  FROM member_checkins
			  WHERE member_id = $1 AND checkout_time IS NULL
			  ORDER BY checkin_time DESC
			  LIMIT 1`
	c, err := scanCheckin(s.DB.QueryRowContext(ctx, query, memberID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CreateCheckin открывает новое посещение клиента.
func (s *Storage) CreateCheckin(ctx context.Context, memberID uuid.UUID, checkinTime time.Time) (*models.MemberCheckin, error) {
	const op = "storage.CreateCheckin"
	query := `INSERT INTO member_checkins (member_id, checkin_time)
			  VALUES ($1, $2)
			  RETURNING id, member_id, checkin_time, checkout_time, duration_minutes`
	c, err := scanCheckin(s.DB.QueryRowContext(ctx, query, memberID, checkinTime))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CloseCheckin закрывает посещение, фиксируя время выхода и длительность в минутах.
func (s *Storage) CloseCheckin(ctx context.Context, id uuid.UUID, checkoutTime time.Time, durationMinutes int) (*models.MemberCheckin, error) {
	const op = "storage.CloseCheckin"
	query := `UPDATE member_checkins
			  SET checkout_time = $1, duration_minutes = $2
			  WHERE id = $3
			  RETURNING id, member_id, checkin_time, checkout_time, duration_minutes`
	c, err := scanCheckin(s.DB.QueryRowContext(ctx, query, checkoutTime, durationMinutes, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListMemberCheckins возвращает посещения клиента, новые первыми.
func (s *Storage) ListMemberCheckins(ctx context.Context, memberID uuid.UUID, limit int) ([]*models.MemberCheckin, error) {
	const op = "storage.ListMemberCheckins"
	query := `SELECT id, member_id, checkin_time, checkout_time, duration_minutes
			  FROM member_checkins
			  WHERE member_id = $1
			  ORDER BY checkin_time DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, memberID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.MemberCheckin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
