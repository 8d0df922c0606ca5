package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/config"
	"github.com/Dan9191/task-service/internal/database"
	"github.com/Dan9191/task-service/internal/handler"
	"github.com/Dan9191/task-service/internal/logging"
	"github.com/Dan9191/task-service/internal/middleware"
	"github.com/Dan9191/task-service/internal/repository"
	"github.com/Dan9191/task-service/internal/service"
	"github.com/Dan9191/task-service/internal/utils"
	"github.com/Dan9191/task-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logging.New(os.Stdout, os.Getenv("LOG_LEVEL"))

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Open(ctx, cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := database.Migrate(db, logger); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Initialize layers
	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	var notifier service.Notifier
	if cfg.EmailEnabled() {
		notifier = email.NewSender(cfg, logger)
	}
	userSvc := service.NewUserService(repository.NewUserRepository(db), hasher, notifier, logger)
	taskSvc := service.NewTaskService(repository.NewTaskRepository(db), userSvc, logger)
	authSvc := service.NewAuthService(userSvc, hasher, tokens, logger)
	h := handler.NewHandler(userSvc, taskSvc, authSvc, db, logger)

	// Metrics
	metrics := middleware.NewMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		metrics,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "tasks"),
	)

	// Setup router
	r := handler.NewRouter(h, middleware.NewAuthenticator(tokens, logger), metrics,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Graceful shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
}
