package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/timmy/siscrap/internal/client"
	"github.com/timmy/siscrap/internal/config"
	"github.com/timmy/siscrap/internal/export"
	"github.com/timmy/siscrap/internal/logger"
	"github.com/timmy/siscrap/internal/repository"
	"github.com/timmy/siscrap/internal/session"
	"github.com/timmy/siscrap/internal/storage"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "siscrap-export",
	})
	logger.SetDefaultLogger(appLogger)

	batchID := flag.Int64("batch", 0, "Batch (arquivo) id to export")
	schemaName := flag.String("schema", "standard", "Output layout: standard or sismaster")
	pallets := flag.String("pallets", "", "Comma-separated pallet codes; empty exports every pallet")
	agent := flag.Bool("agent", false, "Download the scraping agent instead of a spreadsheet")
	email := flag.String("email", "", "Log in with this email before exporting")
	password := flag.String("password", "", "Password for -email")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	schema, err := export.ParseSchema(*schemaName)
	if err != nil {
		appLogger.WithError(err).Fatal("Invalid schema")
	}
	if !*agent && *batchID <= 0 {
		appLogger.Fatal("-batch is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}
	sess := session.NewManager(repository.NewSessionRepository(db))
	if err := sess.Restore(ctx); err != nil {
		appLogger.WithError(err).Warn("Failed to restore session")
	}

	apiClient := client.New(&client.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		ListTimeout: cfg.API.ListTimeout,
		PageSize:    cfg.API.PageSize,
	}, sess)

	if *email != "" {
		if _, err := sess.Login(ctx, apiClient, *email, *password); err != nil {
			appLogger.WithError(err).Fatal("Login failed")
		}
	}
	if !sess.IsAuthenticated() {
		appLogger.Fatal("No session; pass -email and -password")
	}

	objectStorage, err := storage.NewStorage(ctx, &cfg.Storage)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}
	exporter := export.New(apiClient, objectStorage, export.Config{
		Prefix:          cfg.Storage.Prefix,
		DefaultFilename: cfg.Export.DefaultFilename,
		AgentFilename:   cfg.Export.AgentFilename,
	})

	var res *export.Result
	if *agent {
		res, err = exporter.DownloadAgent(ctx)
	} else {
		res, err = exporter.Export(ctx, export.Request{
			BatchID: *batchID,
			Schema:  schema,
			Pallets: splitPallets(*pallets),
		})
	}
	if err != nil {
		appLogger.WithError(err).Error("Export failed")
		os.Exit(1)
	}

	appLogger.WithFields(logger.Fields{
		"file":     res.FileName,
		"location": res.Location,
		"size":     res.Size,
	}).Info("Export completed")
}

func splitPallets(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
