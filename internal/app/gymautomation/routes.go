// Package gymautomation предоставляет маршруты для основного приложения.
package gymautomation

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mkosheleva/gym-automation/internal/http/handlers/auth/login"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/auth/register"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/coach/availability"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/coach/coachcreate"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/coach/coachlist"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/coach/schedulecreate"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/coach/schedulelist"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/emails/logs"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/emails/send"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/health"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/member/bulkupload"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/member/create"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/member/list"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/member/read"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/member/remove"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/member/stats"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/member/update"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/plan/planassign"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/plan/plancreate"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/plan/planlist"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/portal/checkin"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/portal/checkout"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/portal/dashboard"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/portal/visits"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/portal/workoutlog"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/session/join"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/session/leave"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/session/sessioncreate"
	"github.com/mkosheleva/gym-automation/internal/http/handlers/session/sessionlist"
	"github.com/mkosheleva/gym-automation/internal/http/middlewarectx"
	authservice "github.com/mkosheleva/gym-automation/internal/services/auth"
	checkinservice "github.com/mkosheleva/gym-automation/internal/services/checkin"
	coachservice "github.com/mkosheleva/gym-automation/internal/services/coach"
	memberservice "github.com/mkosheleva/gym-automation/internal/services/member"
	notificationservice "github.com/mkosheleva/gym-automation/internal/services/notification"
	sessionservice "github.com/mkosheleva/gym-automation/internal/services/trainingsession"
	planservice "github.com/mkosheleva/gym-automation/internal/services/workoutplan"

	"log/slog"
)

// Services содержит сервисы, необходимые для регистрации маршрутов.
type Services struct {
	Auth          *authservice.AuthService
	Members       *memberservice.MemberService
	Coaches       *coachservice.CoachService
	Sessions      *sessionservice.SessionService
	Checkins      *checkinservice.CheckinService
	Plans         *planservice.PlanService
	Notifications *notificationservice.NotificationService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, services *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, services.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, services.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(services.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Конечные точки только для персонала
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.StaffOnlyMiddleware(logger))
				r.Post("/members", create.New(logger, services.Members).ServeHTTP)
				r.Get("/members", list.New(logger, services.Members).ServeHTTP)
				r.Get("/members/stats", stats.New(logger, services.Members).ServeHTTP)
				r.Post("/members/bulk", bulkupload.New(logger, services.Members).ServeHTTP)
				r.Get("/members/{id}", read.New(logger, services.Members).ServeHTTP)
				r.Put("/members/{id}", update.New(logger, services.Members).ServeHTTP)
				r.Delete("/members/{id}", remove.New(logger, services.Members).ServeHTTP)
				r.Post("/members/{id}/plan", planassign.New(logger, services.Plans).ServeHTTP)
				r.Post("/emails/send", send.New(logger, services.Notifications).ServeHTTP)
				r.Get("/emails/logs", logs.New(logger, services.Notifications).ServeHTTP)
				r.Post("/coaches", coachcreate.New(logger, services.Coaches).ServeHTTP)
				r.Get("/coaches", coachlist.New(logger, services.Coaches).ServeHTTP)
				r.Get("/coaches/{id}/schedules", schedulelist.New(logger, services.Coaches).ServeHTTP)
				r.Post("/coaches/{id}/schedules", schedulecreate.New(logger, services.Coaches).ServeHTTP)
				r.Get("/coaches/{id}/availability", availability.New(logger, services.Coaches).ServeHTTP)
				r.Post("/sessions", sessioncreate.New(logger, services.Sessions).ServeHTTP)
				r.Get("/sessions", sessionlist.New(logger, services.Sessions).ServeHTTP)
				r.Post("/plans", plancreate.New(logger, services.Plans).ServeHTTP)
				r.Get("/plans", planlist.New(logger, services.Plans).ServeHTTP)
			})

			// Личный кабинет клиента
			r.Get("/portal/dashboard", dashboard.New(logger, services.Members).ServeHTTP)
			r.Post("/portal/checkin", checkin.New(logger, services.Members, services.Checkins).ServeHTTP)
			r.Post("/portal/checkout", checkout.New(logger, services.Members, services.Checkins).ServeHTTP)
			r.Get("/portal/visits", visits.New(logger, services.Members, services.Checkins).ServeHTTP)
			r.Post("/portal/workouts", workoutlog.New(logger, services.Members).ServeHTTP)
			r.Post("/portal/sessions/{id}/join", join.New(logger, services.Members, services.Sessions).ServeHTTP)
			r.Post("/portal/sessions/{id}/leave", leave.New(logger, services.Members, services.Sessions).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
