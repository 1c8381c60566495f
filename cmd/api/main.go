package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shahinarahman616-del/HealthMate/api/routes"
	"github.com/shahinarahman616-del/HealthMate/internal/access"
	"github.com/shahinarahman616-del/HealthMate/internal/audit"
	"github.com/shahinarahman616-del/HealthMate/internal/auth"
	"github.com/shahinarahman616-del/HealthMate/internal/doctors"
	"github.com/shahinarahman616-del/HealthMate/internal/emergency"
	"github.com/shahinarahman616-del/HealthMate/internal/family"
	"github.com/shahinarahman616-del/HealthMate/internal/notifications"
	"github.com/shahinarahman616-del/HealthMate/internal/profiles"
	"github.com/shahinarahman616-del/HealthMate/internal/reports"
	"github.com/shahinarahman616-del/HealthMate/internal/users"
	"github.com/shahinarahman616-del/HealthMate/pkg/auth/session"
	"github.com/shahinarahman616-del/HealthMate/pkg/config"
	"github.com/shahinarahman616-del/HealthMate/pkg/db"
	"github.com/shahinarahman616-del/HealthMate/pkg/logger"
	"github.com/shahinarahman616-del/HealthMate/pkg/metrics"
	"github.com/shahinarahman616-del/HealthMate/pkg/migrate"
	"github.com/shahinarahman616-del/HealthMate/pkg/redis"
	"github.com/shahinarahman616-del/HealthMate/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)

	auditService, err := audit.NewService(audit.NewRepository(gormDB), usersRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:       usersRepo,
		Sessions:    sessionManager,
		ResetTokens: auth.NewResetTokenRepository(gormDB),
		Notifier:    notificationsService,
		JWT:         cfg.JWT,
		Password:    cfg.Password,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	familyRepo := family.NewRepository(gormDB)
	familyService, err := family.NewService(family.ServiceParams{
		Repo:     familyRepo,
		Users:    usersRepo,
		Audit:    auditService,
		Notifier: notificationsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create family service", err)
		os.Exit(1)
	}

	evaluator, err := access.NewEvaluator(access.EvaluatorParams{
		Relationships: familyRepo,
		Audit:         auditService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create access evaluator", err)
		os.Exit(1)
	}

	profilesService, err := profiles.NewService(profiles.ServiceParams{
		Users:     usersRepo,
		Evaluator: evaluator,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	emergencyService, err := emergency.NewService(emergency.ServiceParams{
		Repo:     emergency.NewRepository(gormDB),
		Users:    usersRepo,
		Audit:    auditService,
		Notifier: notificationsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create emergency service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.ServiceParams{
		Repo:   reports.NewRepository(gormDB),
		Store:  gcsClient,
		Config: cfg.Reports,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create report service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		Sessions:       sessionManager,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:           authService,
		Profiles:       profilesService,
		Family:         familyService,
		Emergency:      emergencyService,
		Audit:          auditService,
		Notifications:  notificationsService,
		Reports:        reportsService,
		Doctors:        doctors.NewService(),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
