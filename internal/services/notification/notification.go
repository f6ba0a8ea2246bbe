// Package services содержит бизнес-логику автоматических рассылок:
// отбор подходящих клиентов, защиту от повторных отправок и запись
// каждой попытки в журнал.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
)

// ErrInvalidKind возвращается при попытке запустить рассылку письма,
// которое не отправляется кампаниями (например, workout_reminder).
var ErrInvalidKind = errors.New("email type cannot be dispatched")

// Пауза между повторными письмами одного вида одному клиенту.
var cooldowns = map[string]time.Duration{
	models.EmailSubscription: 24 * time.Hour,
	models.EmailInactivity:   7 * 24 * time.Hour,
	models.EmailMotivational: 7 * 24 * time.Hour,
}

// MemberRepository определяет методы отбора клиентов и ведения журнала рассылок.
type MemberRepository interface {
	// FindActiveMembers возвращает всех активных клиентов.
	FindActiveMembers(ctx context.Context) ([]*models.Member, error)
	// FindMembersDueSoon возвращает клиентов, чей абонемент скоро истекает.
	FindMembersDueSoon(ctx context.Context, today time.Time) ([]*models.Member, error)
	// FindMembersWithBirthday возвращает клиентов с днём рождения сегодня.
	FindMembersWithBirthday(ctx context.Context, today time.Time) ([]*models.Member, error)
	// FindInactiveMembers возвращает клиентов, давно не посещавших клуб.
	FindInactiveMembers(ctx context.Context, today time.Time) ([]*models.Member, error)
	// HasRecentSent сообщает, было ли успешно отправлено письмо такого вида после since.
	HasRecentSent(ctx context.Context, memberID uuid.UUID, emailType string, since time.Time) (bool, error)
	// HasSentOnDate сообщает, было ли успешно отправлено письмо такого вида в этот день.
	HasSentOnDate(ctx context.Context, memberID uuid.UUID, emailType string, day time.Time) (bool, error)
	// CreateEmailLog записывает попытку отправки в журнал.
	CreateEmailLog(ctx context.Context, entry models.EmailLogEntry) (uuid.UUID, error)
	// ListEmailLogs возвращает записи журнала по фильтру.
	ListEmailLogs(ctx context.Context, filter models.EmailLogFilter) ([]*models.EmailLogEntry, error)
}

// EmailSender отправляет одно письмо.
type EmailSender interface {
	Send(to, subject, textBody, htmlBody string) error
}

// NotificationService реализует отбор клиентов и проведение рассылок.
type NotificationService struct {
	repo   MemberRepository
	sender EmailSender
	log    *slog.Logger
}

// NewNotificationService создает новый экземпляр NotificationService.
func NewNotificationService(repo MemberRepository, sender EmailSender, log *slog.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		sender: sender,
		log:    log,
	}
}

// Dispatch проводит рассылку по заданию: отбирает клиентов, пропускает тех,
// кому письмо такого вида недавно уже уходило, отправляет остальным и пишет
// журнал. Ошибка отправки одному клиенту не прерывает рассылку.
func (s *NotificationService) Dispatch(ctx context.Context, job models.DispatchJob) (*models.DispatchResult, error) {
	now := time.Now()

	members, err := s.EligibleMembers(ctx, job.EmailType, now)
	if err != nil {
		return nil, err
	}
	members = filterByIDs(members, job.MemberIDs)

	s.log.Info("starting email dispatch",
		slog.String("email_type", job.EmailType),
		slog.Int("candidates", len(members)),
		slog.Bool("force_send", job.ForceSend))

	result := &models.DispatchResult{}
	for _, m := range members {
		if !job.ForceSend {
			skip, err := s.onCooldown(ctx, m.ID, job.EmailType, now)
			if err != nil {
				s.log.Error("failed to check email history", sl.Err(err),
					slog.String("member_id", m.ID.String()))
				result.Failed++
				continue
			}
			if skip {
				continue
			}
		}
		if s.sendOne(ctx, m, job.EmailType, now) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	s.log.Info("email dispatch finished",
		slog.String("email_type", job.EmailType),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed))
	return result, nil
}

// ListLogs возвращает журнал рассылок по заданному фильтру.
func (s *NotificationService) ListLogs(ctx context.Context, filter models.EmailLogFilter) ([]*models.EmailLogEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.ListEmailLogs(ctx, filter)
}

// HandleDispatchJob обрабатывает задание на рассылку, пришедшее из очереди.
func (s *NotificationService) HandleDispatchJob(body []byte) error {
	var job models.DispatchJob
	if err := json.Unmarshal(body, &job); err != nil {
		s.log.Error("failed to unmarshal dispatch job", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	_, err := s.Dispatch(context.Background(), job)
	return err
}

// EligibleMembers возвращает клиентов, подходящих под рассылку данного вида.
func (s *NotificationService) EligibleMembers(ctx context.Context, emailType string, now time.Time) ([]*models.Member, error) {
	switch emailType {
	case models.EmailSubscription:
		return s.repo.FindMembersDueSoon(ctx, now)
	case models.EmailMotivational:
		return s.repo.FindActiveMembers(ctx)
	case models.EmailBirthday:
		return s.repo.FindMembersWithBirthday(ctx, now)
	case models.EmailInactivity:
		return s.repo.FindInactiveMembers(ctx, now)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidKind, emailType)
	}
}

// onCooldown сообщает, нужно ли пропустить клиента из-за недавней отправки.
// Для поздравления с днём рождения пауза равна календарному дню, для
// остальных видов задаётся в cooldowns.
func (s *NotificationService) onCooldown(ctx context.Context, memberID uuid.UUID, emailType string, now time.Time) (bool, error) {
	if emailType == models.EmailBirthday {
		return s.repo.HasSentOnDate(ctx, memberID, emailType, now)
	}
	return s.repo.HasRecentSent(ctx, memberID, emailType, now.Add(-cooldowns[emailType]))
}

// sendOne отправляет одно письмо и записывает результат в журнал.
// Возвращает true при успешной отправке.
func (s *NotificationService) sendOne(ctx context.Context, m *models.Member, emailType string, now time.Time) bool {
	entry := models.EmailLogEntry{
		MemberID:  m.ID,
		EmailType: emailType,
		SentAt:    now,
	}

	subject, textBody, htmlBody, err := buildEmail(emailType, m, now)
	if err == nil {
		entry.Subject = subject
		entry.Content = textBody
		err = s.sender.Send(m.Email, subject, textBody, htmlBody)
	} else {
		entry.Subject = subjects[emailType]
	}

	if err != nil {
		entry.Status = models.EmailStatusFailed
		entry.ErrorMessage = err.Error()
		s.log.Error("failed to send email", sl.Err(err),
			slog.String("member_id", m.ID.String()),
			slog.String("email_type", emailType))
	} else {
		entry.Status = models.EmailStatusSent
	}

	if _, logErr := s.repo.CreateEmailLog(ctx, entry); logErr != nil {
		s.log.Error("failed to write email log", sl.Err(logErr),
			slog.String("member_id", m.ID.String()))
	}
	return err == nil
}

// filterByIDs оставляет только клиентов из списка ids. Пустой список
// означает всех.
func filterByIDs(members []*models.Member, ids []uuid.UUID) []*models.Member {
	if len(ids) == 0 {
		return members
	}
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var result []*models.Member
	for _, m := range members {
		if _, ok := want[m.ID]; ok {
			result = append(result, m)
		}
	}
	return result
}
