package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/turnilab/turni-backend-go/internal/handler/http/middleware"
	"github.com/turnilab/turni-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	CORSOrigin string
	Env        string
}

func NewRouter(
	cfg RouterConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	shiftHandler ShiftHandler,
	reportHandler ReportHandler,
	settingsHandler SettingsHandler,
	notificationHandler NotificationHandler,
	userHandler UserHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "turni-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// SSE stream authenticates with its own short-lived query token
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Post("/auth/push-token", authHandler.RegisterPushToken)

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/my", shiftHandler.GetMyShifts)

				// Managers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", shiftHandler.Create)
					r.Get("/", shiftHandler.List)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", shiftHandler.Get)
					r.Get("/transitions", shiftHandler.Transitions)

					r.Post("/accept", shiftHandler.Accept)
					r.Post("/reject", shiftHandler.Reject)
					r.Post("/check-in", shiftHandler.CheckIn)
					r.Post("/check-out", shiftHandler.CheckOut)

					// Managers only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Put("/", shiftHandler.Update)
						r.Delete("/", shiftHandler.Delete)
						r.Post("/force-complete", shiftHandler.ForceComplete)
						r.Post("/emergency-stop", shiftHandler.EmergencyStop)
					})
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", reportHandler.Get)

				// Founder only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireFounder)
					r.Get("/export", reportHandler.ExportCSV)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/rate-config", settingsHandler.GetRateConfig)

				// Founder only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireFounder)
					r.Put("/rate-config", settingsHandler.UpdateRateConfig)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/mark-read", notificationHandler.MarkAsRead)
				r.Post("/mark-all-read", notificationHandler.MarkAllAsRead)
				r.Delete("/{id}", notificationHandler.Delete)
				r.Get("/sse-token", notificationHandler.GetSSEToken)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/{id}", userHandler.Get)

				// Managers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", userHandler.List)
				})

				// Founder only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireFounder)
					r.Post("/", userHandler.Create)
					r.Delete("/{id}", userHandler.Deactivate)
				})
			})
		})
	})
	return r
}
