package main

import (
	"context"
	"os"
	"time"

	"payviu/internal/cli"
	"payviu/internal/config"
	"payviu/internal/services"
	"payviu/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting overdue-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	processor := services.NewOverdueProcessor(sqliteRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepInterval := cfg.OverdueSweepInterval
	logger.Info("Overdue payment sweep configured",
		"interval", sweepInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	// Run initial sweep on startup
	logger.Info("Running initial overdue sweep...")
	if count, err := processor.ProcessOverdue(ctx, time.Now()); err != nil {
		logger.Error("Initial sweep failed", "error", err)
	} else {
		logger.Info("Initial sweep complete", "payments_marked", count)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				logger.Info("Sweeping for overdue payments...")
				count, err := processor.ProcessOverdue(ctx, now)
				if err != nil {
					logger.Error("Periodic sweep failed", "error", err)
				} else {
					logger.Info("Periodic sweep complete",
						"payments_marked", count,
						"next_check", now.Add(sweepInterval).Format("15:04:05"))
				}
			}
		}
	}()

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		logger.Info("Shutting down overdue-worker...")
		cancel()
	})

	cli.WaitForShutdown(ctx, done)
}
