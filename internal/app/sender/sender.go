// Package sender содержит логику сервиса-отправителя писем.
package sender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/mkosheleva/gym-automation/internal/config"
	"github.com/mkosheleva/gym-automation/internal/lib/smtp"
	"github.com/mkosheleva/gym-automation/internal/rabbitmq"
	notificationservice "github.com/mkosheleva/gym-automation/internal/services/notification"
	senderservice "github.com/mkosheleva/gym-automation/internal/services/sender"
	"github.com/mkosheleva/gym-automation/internal/storage/repository"
)

// App представляет приложение сервиса-отправителя.
type App struct {
	conn                *amqp.Connection
	ch                  *amqp.Channel
	notificationService *notificationservice.NotificationService
	logger              *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения сервиса-отправителя.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(db); err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	newTransport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(newTransport, logger)
	notificationService := notificationservice.NewNotificationService(db, senderService, logger)

	return &App{
		conn:                conn,
		ch:                  ch,
		notificationService: notificationService,
		logger:              logger,
	}, nil
}

// Run запускает потребителя очереди заданий рассылок.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "notifications.dispatch", a.notificationService.HandleDispatchJob)
	if err != nil {
		a.logger.Error("failed to start notifications.dispatch consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
