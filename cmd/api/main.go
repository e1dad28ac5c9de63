package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/markcache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
	userService "github.com/cmlabs-hris/attendance-backend-go/internal/service/user"
	"github.com/cmlabs-hris/attendance-backend-go/migrations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})).With(slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, db.Pool); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	var (
		fileStorage storage.FileStorage
		uploadsDir  string
	)
	switch cfg.Storage.Type {
	case "local":
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("init local storage: %w", err)
		}
		fileStorage, uploadsDir = local, local.BasePath()
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}

	offices, err := geo.NewOfficeIndex(cfg.Attendance.Offices...)
	if err != nil {
		return fmt.Errorf("index offices: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hub := sse.NewHub()
	appMetrics := metrics.New(registry, hub.TotalSubscribers)
	marks := markcache.New(cfg.Attendance.Location)

	fileService := file.NewFileService(fileStorage)
	authService := serviceAuth.NewAuthService(transactor, userRepo, JWTService, fileService)
	userSvc := userService.NewUserService(userRepo, fileService, hub)
	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		userRepo,
		offices,
		marks,
		attendanceService.Options{
			Publisher: userSvc,
			Hub:       hub,
			Metrics:   appMetrics,
			Location:  cfg.Attendance.Location,
			WeekStart: cfg.Attendance.WeekStart,
		},
	)

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewUserHandler(userSvc, JWTService, hub),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			UploadsDir:     uploadsDir,
			Env:            cfg.App.Env,
			Metrics:        appMetrics,
			Gatherer:       registry,
		},
	)

	scheduler := cron.NewScheduler(ctx)
	cron.NewAttendanceJobs(userRepo, marks, hub, JWTService, cfg.Attendance.Location, cfg.Attendance.StatusResetInterval).
		RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	// Request contexts derive from ctx so open team streams end on shutdown
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "offices", len(cfg.Attendance.Offices), "timezone", cfg.Attendance.Timezone)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
