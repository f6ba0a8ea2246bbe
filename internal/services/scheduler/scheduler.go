// Package services содержит планировщик автоматических рассылок: по расписанию
// публикует в очередь задания, которые воркер-отправитель превращает в письма.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkosheleva/gym-automation/internal/lib/sl"
	"github.com/mkosheleva/gym-automation/internal/models"
	"github.com/mkosheleva/gym-automation/internal/rabbitmq"
)

// SchedulerService публикует задания на рассылку по расписанию кампаний.
type SchedulerService struct {
	channel rabbitmq.Channel
	log     *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(channel rabbitmq.Channel, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		channel: channel,
		log:     log,
	}
}

// RunDailyCampaigns публикует ежедневные задания: напоминания о продлении,
// поздравления с днём рождения и письма давно не приходившим клиентам.
// Первое задание публикуется сразу, далее раз в сутки. Блокирует до отмены ctx.
func (s *SchedulerService) RunDailyCampaigns(ctx context.Context) {
	daily := []string{
		models.EmailSubscription,
		models.EmailBirthday,
		models.EmailInactivity,
	}

	s.publishJobs(daily)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.publishJobs(daily)
		case <-ctx.Done():
			return
		}
	}
}

// RunWeeklyCampaigns публикует еженедельное мотивационное задание.
// Блокирует до отмены ctx.
func (s *SchedulerService) RunWeeklyCampaigns(ctx context.Context) {
	weekly := []string{models.EmailMotivational}

	s.publishJobs(weekly)

	ticker := time.NewTicker(7 * 24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.publishJobs(weekly)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) publishJobs(emailTypes []string) {
	for _, emailType := range emailTypes {
		job := models.DispatchJob{EmailType: emailType}
		if err := rabbitmq.PublishMessage(s.channel, rabbitmq.ExchangeName, "dispatch", job); err != nil {
			s.log.Error("failed to publish dispatch job", sl.Err(err),
				slog.String("email_type", emailType))
			continue
		}
		s.log.Info("published dispatch job", slog.String("email_type", emailType))
	}
}
