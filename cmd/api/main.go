package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turnilab/turni-backend-go/internal/config"
	appHTTP "github.com/turnilab/turni-backend-go/internal/handler/http"
	"github.com/turnilab/turni-backend-go/internal/pkg/clock"
	"github.com/turnilab/turni-backend-go/internal/pkg/cron"
	"github.com/turnilab/turni-backend-go/internal/pkg/database"
	"github.com/turnilab/turni-backend-go/internal/pkg/jwt"
	"github.com/turnilab/turni-backend-go/internal/pkg/push"
	"github.com/turnilab/turni-backend-go/internal/pkg/sse"
	"github.com/turnilab/turni-backend-go/internal/repository/postgresql"
	authService "github.com/turnilab/turni-backend-go/internal/service/auth"
	notificationService "github.com/turnilab/turni-backend-go/internal/service/notification"
	reportService "github.com/turnilab/turni-backend-go/internal/service/report"
	settingsService "github.com/turnilab/turni-backend-go/internal/service/settings"
	shiftService "github.com/turnilab/turni-backend-go/internal/service/shift"
	userService "github.com/turnilab/turni-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	shiftRepo := postgresql.NewShiftRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	rateConfigRepo := postgresql.NewRateConfigRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	hub := sse.NewHub()
	var pusher push.Sender = push.NoopSender{}
	if cfg.Push.Endpoint != "" {
		pusher = push.NewClient(cfg.Push.Endpoint, cfg.Push.AccessToken, slog.Default())
	}

	notifService := notificationService.NewNotificationService(
		notificationRepo,
		userRepo,
		hub,
		pusher,
		notificationService.Config{},
	)

	shiftSvc := shiftService.NewShiftService(db, shiftRepo, userRepo, rateConfigRepo, notifService)
	authSvc := authService.NewAuthService(userRepo, jwtService, refreshTokenRepo)
	reportSvc := reportService.NewReportService(shiftRepo)
	settingsSvc := settingsService.NewSettingsService(rateConfigRepo)
	userSvc := userService.NewUserService(userRepo)

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	settingsHandler := appHTTP.NewSettingsHandler(settingsSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notifService, jwtService)
	userHandler := appHTTP.NewUserHandler(userSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			CORSOrigin: cfg.App.CORSOrigin,
			Env:        cfg.App.Env,
		},
		jwtService,
		authHandler,
		shiftHandler,
		reportHandler,
		settingsHandler,
		notificationHandler,
		userHandler,
	)

	// Background sweeper closes running shifts past their scheduled end
	// and expires unanswered assignments.
	scheduler := cron.NewScheduler()
	sweepNotifier := shiftService.NewSweepNotifier(notifService)
	shiftJobs := cron.NewShiftJobs(shiftRepo, sweepNotifier, clock.System{}, cfg.Sweeper.LookbackDays)
	shiftJobs.Register(scheduler, cfg.Sweeper.Interval)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	scheduler.Stop()
	notifService.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
