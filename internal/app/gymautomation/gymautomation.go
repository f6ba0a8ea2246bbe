// Package gymautomation собирает и запускает основной API-сервер клуба:
// хранилище, кеш, сервисы и HTTP-маршруты.
package gymautomation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/mkosheleva/gym-automation/internal/cache"
	"github.com/mkosheleva/gym-automation/internal/config"
	"github.com/mkosheleva/gym-automation/internal/lib/jwt"
	"github.com/mkosheleva/gym-automation/internal/lib/smtp"
	"github.com/mkosheleva/gym-automation/internal/migrations"
	authservice "github.com/mkosheleva/gym-automation/internal/services/auth"
	checkinservice "github.com/mkosheleva/gym-automation/internal/services/checkin"
	coachservice "github.com/mkosheleva/gym-automation/internal/services/coach"
	memberservice "github.com/mkosheleva/gym-automation/internal/services/member"
	notificationservice "github.com/mkosheleva/gym-automation/internal/services/notification"
	senderservice "github.com/mkosheleva/gym-automation/internal/services/sender"
	sessionservice "github.com/mkosheleva/gym-automation/internal/services/trainingsession"
	planservice "github.com/mkosheleva/gym-automation/internal/services/workoutplan"
	"github.com/mkosheleva/gym-automation/internal/storage/repository"
)

// App представляет основной API-сервер клуба.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New создает приложение: подключает хранилище, применяет миграции,
// инициализирует кеш и сервисы, регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	// Плановые рассылки уходят через отдельный сервис-отправитель;
	// здесь SMTP нужен для рассылок, запускаемых персоналом вручную.
	senderService := senderservice.NewSenderService(smtp.NewTransport(cfg.SMTP, logger), logger)

	authService := authservice.NewAuthService(db, jwtMaker)
	memberService := memberservice.NewMemberService(db, db, cacheRedis, logger)
	coachService := coachservice.NewCoachService(db, logger)
	sessionService := sessionservice.NewSessionService(db, logger)
	checkinService := checkinservice.NewCheckinService(db, logger)
	planService := planservice.NewPlanService(db, logger)
	notificationService := notificationservice.NewNotificationService(db, senderService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:          authService,
		Members:       memberService,
		Coaches:       coachService,
		Sessions:      sessionService,
		Checkins:      checkinService,
		Plans:         planService,
		Notifications: notificationService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и ожидает сигнала завершения.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
