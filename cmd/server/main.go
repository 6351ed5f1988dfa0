package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"appointment_booking/internal/config"
	"appointment_booking/internal/handler"
	"appointment_booking/internal/logger"
	"appointment_booking/internal/metrics"
	"appointment_booking/internal/repository"
	"appointment_booking/internal/service"
	"appointment_booking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.SetupDefault(os.Stdout, "info")
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)
	if envErr != nil {
		log.Info("no .env file loaded, relying on environment variables")
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// --- Migrations ---
	if err := config.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	appointmentRepo := repository.NewAppointmentRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, collector)
	userService := service.NewUserService(userRepo)
	appointmentService := service.NewAppointmentService(appointmentRepo, userRepo, collector)

	// --- Setup Gin Router ---
	router := handler.NewRouter(handler.RouterDeps{
		Auth:         authService,
		Users:        userService,
		Appointments: appointmentService,
		DB:           dbPool,
		Metrics:      collector,
		Gatherer:     reg,
		Logger:       log,
		CORSOrigins:  cfg.CORSAllowedOrigins,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case err := <-serverErr:
		log.Error("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exiting")
}
