package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/models"
)

const memberColumns = `id, user_uid, full_name, email, phone, subscription_due_date,
			      birthday, last_checkin_date, membership_type, is_active, notes,
			      created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (*models.Member, error) {
	var m models.Member
	var userUID sql.NullString
	var birthday, lastCheckin sql.NullTime
	if err := row.Scan(&m.ID, &userUID, &m.FullName, &m.Email, &m.Phone,
		&m.SubscriptionDueDate, &birthday, &lastCheckin, &m.MembershipType,
		&m.IsActive, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if userUID.Valid {
		uid, err := uuid.Parse(userUID.String)
		if err != nil {
			return nil, err
		}
		m.UserUID = &uid
	}
	if birthday.Valid {
		m.Birthday = &birthday.Time
	}
	if lastCheckin.Valid {
		m.LastCheckinDate = &lastCheckin.Time
	}
	return &m, nil
}

func collectMembers(rows *sql.Rows) ([]*models.Member, error) {
	defer func() { _ = rows.Close() }()
	var result []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// CreateMember вставляет нового клиента и возвращает его ID.
func (s *Storage) CreateMember(ctx context.Context, m models.Member) (uuid.UUID, error) {
	const op = "storage.CreateMember"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO members (user_uid, full_name, email, phone, subscription_due_date,
			      birthday, membership_type, is_active, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID uuid.UUID
	var userUID any
	if m.UserUID != nil {
		userUID = m.UserUID.String()
	}
	err := s.DB.QueryRowContext(ctx, query,
		userUID, m.FullName, m.Email, m.Phone, m.SubscriptionDueDate,
		m.Birthday, m.MembershipType, m.IsActive, m.Notes).Scan(&newID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetMemberByID возвращает клиента по его ID.
func (s *Storage) GetMemberByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	const op = "storage.GetMemberByID"
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// GetMemberByUserUID возвращает клиента, привязанного к учётной записи портала.
func (s *Storage) GetMemberByUserUID(ctx context.Context, userUID string) (*models.Member, error) {
	const op = "storage.GetMemberByUserUID"
	query := `SELECT ` + memberColumns + ` FROM members WHERE user_uid = $1`
	m, err := scanMember(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListMembers возвращает список клиентов с пагинацией, новые записи первыми.
func (s *Storage) ListMembers(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	const op = "storage.ListMembers"
	query := `SELECT ` + memberColumns + ` FROM members
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateMember обновляет данные клиента по ID и возвращает количество изменённых строк.
func (s *Storage) UpdateMember(ctx context.Context, m models.Member, id uuid.UUID) (int, error) {
	const op = "storage.UpdateMember"
	query := `UPDATE members
			  SET full_name = $1, email = $2, phone = $3, subscription_due_date = $4,
			      birthday = $5, membership_type = $6, is_active = $7, notes = $8,
			      updated_at = now()
			  WHERE id = $9`
	result, err := s.DB.ExecContext(ctx, query,
		m.FullName, m.Email, m.Phone, m.SubscriptionDueDate,
		m.Birthday, m.MembershipType, m.IsActive, m.Notes, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeactivateMember выполняет мягкое удаление: клиент помечается неактивным.
func (s *Storage) DeactivateMember(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "storage.DeactivateMember"
	result, err := s.DB.ExecContext(ctx,
		`UPDATE members SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateMemberLastCheckin устанавливает дату последнего посещения клиента.
func (s *Storage) UpdateMemberLastCheckin(ctx context.Context, id uuid.UUID, day time.Time) error {
	const op = "storage.UpdateMemberLastCheckin"
	_, err := s.DB.ExecContext(ctx,
		`UPDATE members SET last_checkin_date = $1, updated_at = now() WHERE id = $2`, day, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindActiveMembers возвращает всех активных клиентов.
func (s *Storage) FindActiveMembers(ctx context.Context) ([]*models.Member, error) {
	const op = "storage.FindActiveMembers"
	query := `SELECT ` + memberColumns + ` FROM members WHERE is_active = TRUE`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindMembersDueSoon возвращает активных клиентов, у которых абонемент
// истекает в ближайшие 5 дней, включая сегодняшний.
func (s *Storage) FindMembersDueSoon(ctx context.Context, today time.Time) ([]*models.Member, error) {
	const op = "storage.FindMembersDueSoon"
	query := `SELECT ` + memberColumns + ` FROM members
			  WHERE is_active = TRUE
			    AND subscription_due_date >= $1::date
			    AND subscription_due_date <= $2::date`
	rows, err := s.DB.QueryContext(ctx, query, today, today.AddDate(0, 0, 5))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindMembersWithBirthday возвращает активных клиентов, чей день рождения
// совпадает с датой today по месяцу и дню, год игнорируется.
func (s *Storage) FindMembersWithBirthday(ctx context.Context, today time.Time) ([]*models.Member, error) {
	const op = "storage.FindMembersWithBirthday"
	query := `SELECT ` + memberColumns + ` FROM members
			  WHERE is_active = TRUE
			    AND birthday IS NOT NULL
			    AND EXTRACT(MONTH FROM birthday) = $1
			    AND EXTRACT(DAY FROM birthday) = $2`
	rows, err := s.DB.QueryContext(ctx, query, int(today.Month()), today.Day())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindInactiveMembers возвращает активных клиентов, не посещавших клуб
// больше 7 дней. Сравнение last_checkin_date < today - 7d исключает
// клиентов с NULL, то есть ни разу не отмечавшихся.
func (s *Storage) FindInactiveMembers(ctx context.Context, today time.Time) ([]*models.Member, error) {
	const op = "storage.FindInactiveMembers"
	query := `SELECT ` + memberColumns + ` FROM members
			  WHERE is_active = TRUE
			    AND last_checkin_date < $1::date`
	rows, err := s.DB.QueryContext(ctx, query, today.AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountMemberStats считает агрегированную статистику по клиентам клуба.
func (s *Storage) CountMemberStats(ctx context.Context, today time.Time) (*models.MemberStats, error) {
	const op = "storage.CountMemberStats"
	stats := &models.MemberStats{MembershipTypes: make(map[string]int)}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	query := `SELECT
			      count(*),
			      count(*) FILTER (WHERE is_active),
			      count(*) FILTER (WHERE is_active
			          AND subscription_due_date >= $1::date AND subscription_due_date <= $2::date),
			      count(*) FILTER (WHERE is_active AND subscription_due_date < $1::date),
			      count(*) FILTER (WHERE is_active AND birthday IS NOT NULL
			          AND EXTRACT(MONTH FROM birthday) = $3 AND EXTRACT(DAY FROM birthday) = $4),
			      count(*) FILTER (WHERE created_at >= $5)
			  FROM members`
	err := s.DB.QueryRowContext(ctx, query,
		today, today.AddDate(0, 0, 5), int(today.Month()), today.Day(), monthStart).
		Scan(&stats.TotalMembers, &stats.ActiveMembers, &stats.DueSoon,
			&stats.Overdue, &stats.BirthdaysToday, &stats.NewThisMonth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats.InactiveMembers = stats.TotalMembers - stats.ActiveMembers

	rows, err := s.DB.QueryContext(ctx,
		`SELECT membership_type, count(*) FROM members GROUP BY membership_type`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var membershipType string
		var count int
		if err := rows.Scan(&membershipType, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		stats.MembershipTypes[membershipType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
