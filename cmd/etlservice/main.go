package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"quizhub-backend/cache"
	"quizhub-backend/config"
	"quizhub-backend/database"
	"quizhub-backend/etl"
	"quizhub-backend/logging"
	"quizhub-backend/queue"
	"quizhub-backend/store"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel).With("service", "etl")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// No queue, no job: connection failure is fatal and supervision
	// restarts the process.
	consumer := queue.NewConsumer(cfg.Queue.URL, cfg.Queue.Name, log.With("component", "queue"))
	if err := consumer.Connect(); err != nil {
		log.Error("queue connection failed", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	deliveries, err := consumer.Deliveries()
	if err != nil {
		log.Error("queue consume failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	categories := store.NewCategoryStore(db)
	refresher := cache.NewRefresher(
		cache.NewFileCache(cfg.Cache.File),
		categories.List,
		cfg.Cache.Refresh,
		log.With("component", "cache"),
	)
	refresher.Start(ctx)
	defer refresher.Stop()

	worker := etl.NewWorker(store.NewQuestionStore(db), log.With("component", "worker"))
	if err := worker.Run(ctx, deliveries); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
