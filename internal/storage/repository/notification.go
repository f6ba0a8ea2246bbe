package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/models"
)

// CreateEmailLog добавляет запись журнала рассылок и возвращает её ID.
// Журнал только пополняется, существующие записи не изменяются.
func (s *Storage) CreateEmailLog(ctx context.Context, entry models.EmailLogEntry) (uuid.UUID, error) {
	const op = "storage.CreateEmailLog"
	select {
	case <-ctx.Done():
		return uuid.Nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO email_logs (member_id, email_type, sent_at, status,
			      error_message, subject, content)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID uuid.UUID
	err := s.DB.QueryRowContext(ctx, query,
		entry.MemberID, entry.EmailType, entry.SentAt, entry.Status,
		entry.ErrorMessage, entry.Subject, entry.Content).Scan(&newID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// HasRecentSent проверяет, была ли клиенту успешная отправка письма данного
// вида начиная с момента since.
func (s *Storage) HasRecentSent(ctx context.Context, memberID uuid.UUID, emailType string, since time.Time) (bool, error) {
	const op = "storage.HasRecentSent"
	query := `SELECT EXISTS (
			      SELECT 1 FROM email_logs
			      WHERE member_id = $1 AND email_type = $2
			        AND status = 'sent' AND sent_at >= $3)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, memberID, emailType, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// HasSentOnDate проверяет, была ли клиенту успешная отправка письма данного
// вида в указанный календарный день.
func (s *Storage) HasSentOnDate(ctx context.Context, memberID uuid.UUID, emailType string, day time.Time) (bool, error) {
	const op = "storage.HasSentOnDate"
	query := `SELECT EXISTS (
			      SELECT 1 FROM email_logs
			      WHERE member_id = $1 AND email_type = $2
			        AND status = 'sent' AND sent_at::date = $3::date)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, memberID, emailType, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListEmailLogs возвращает записи журнала рассылок по фильтру, новые первыми.
func (s *Storage) ListEmailLogs(ctx context.Context, filter models.EmailLogFilter) ([]*models.EmailLogEntry, error) {
	const op = "storage.ListEmailLogs"
	query := `SELECT id, member_id, email_type, sent_at, status, error_message, subject, content
			  FROM email_logs
			  WHERE ($1 = '' OR email_type = $1)
			    AND ($2 = '' OR status = $2)
			    AND ($3::uuid IS NULL OR member_id = $3)
			  ORDER BY sent_at DESC
			  LIMIT $4 OFFSET $5`
	var memberID any
	if filter.MemberID != nil {
		memberID = filter.MemberID.String()
	}
	rows, err := s.DB.QueryContext(ctx, query,
		filter.EmailType, filter.Status, memberID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.EmailLogEntry
	for rows.Next() {
		var e models.EmailLogEntry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.EmailType, &e.SentAt,
			&e.Status, &e.ErrorMessage, &e.Subject, &e.Content); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
