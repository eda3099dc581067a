package main

import (
	"context"
	"errors"
	"os"
	"time"

	"payviu/internal/amqp"
	"payviu/internal/cli"
	"payviu/internal/config"
	"payviu/internal/storage"
	"payviu/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting notify-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the notify worker")
		os.Exit(1)
	}

	sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer sqliteRepo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifyWorker := worker.NewNotifyWorker(sqliteRepo)

	go func() {
		if err := amqpClient.ConsumePaymentEvents(ctx, notifyWorker.HandlePaymentEvent); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		logger.Info("Shutting down notify-worker...")
		cancel()
	})

	cli.WaitForShutdown(ctx, done)
}
