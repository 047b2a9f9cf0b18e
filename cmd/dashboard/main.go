package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/siscrap/internal/api"
	"github.com/timmy/siscrap/internal/client"
	"github.com/timmy/siscrap/internal/config"
	"github.com/timmy/siscrap/internal/export"
	"github.com/timmy/siscrap/internal/logger"
	"github.com/timmy/siscrap/internal/repository"
	"github.com/timmy/siscrap/internal/robot"
	"github.com/timmy/siscrap/internal/session"
	"github.com/timmy/siscrap/internal/storage"
)

func main() {
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	sess := session.NewManager(repository.NewSessionRepository(db))
	if err := sess.Restore(ctx); err != nil {
		appLogger.WithError(err).Warn("Failed to restore session, starting logged out")
	}

	apiClient := client.New(&client.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		ListTimeout: cfg.API.ListTimeout,
		PageSize:    cfg.API.PageSize,
	}, sess)

	// Export storage (local, S3, R2, S3-compatible)
	objectStorage, err := storage.NewStorage(ctx, &cfg.Storage)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}
	exporter := export.New(apiClient, objectStorage, export.Config{
		Prefix:          cfg.Storage.Prefix,
		DefaultFilename: cfg.Export.DefaultFilename,
		AgentFilename:   cfg.Export.AgentFilename,
	})

	robotCtrl := robot.NewController(apiClient)
	go robotCtrl.Poll(ctx, cfg.Robot.PollInterval, sess.IsAuthenticated)

	router := api.SetupRouter(api.Deps{
		Session:         sess,
		Client:          apiClient,
		Exporter:        exporter,
		Robot:           robotCtrl,
		CatalogDebounce: cfg.Catalog.Debounce,
	}, cfg.Server.Mode, cfg.Server.CORS)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":    cfg.Server.Port,
			"mode":    cfg.Server.Mode,
			"backend": cfg.API.BaseURL,
			"storage": cfg.Storage.Type,
		}).Info("Starting dashboard gateway")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
