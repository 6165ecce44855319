package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"quizhub-backend/cache"
	"quizhub-backend/client"
	"quizhub-backend/config"
	"quizhub-backend/controllers"
	"quizhub-backend/database"
	"quizhub-backend/logging"
	"quizhub-backend/middlewares"
	"quizhub-backend/queue"
	"quizhub-backend/routes"
	"quizhub-backend/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel).With("service", "submit")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The publisher reconnects in the background; the HTTP surface stays up
	// and answers 503 on /submit while the broker is unreachable.
	publisher := queue.NewPublisher(cfg.Queue.URL, cfg.Queue.Name, log.With("component", "queue"))
	go publisher.ConnectLoop(ctx)
	defer publisher.Close()

	categories := store.NewCategoryStore(db)
	questions := store.NewQuestionStore(db)
	submissions := store.NewSubmissionStore(db)
	fileCache := cache.NewFileCache(cfg.Cache.File)
	questionAPI := client.NewQuestionClient(cfg.QuestionAPIURL)

	// Snapshot refresh at startup and after category mutations; the
	// periodic timer lives in the ETL service.
	refresher := cache.NewRefresher(fileCache, questionAPI.Categories, 0, log.With("component", "cache"))
	refresher.Start(ctx)
	defer refresher.Stop()

	ctrl := controllers.NewSubmitController(controllers.SubmitDeps{
		Categories:  categories,
		Questions:   questions,
		Submissions: submissions,
		Publisher:   publisher,
		Cache:       fileCache,
		Refresher:   refresher,
		Fetch:       questionAPI.Categories,
		Log:         log,
	})

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.NewErrorHandler(log)})
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))
	routes.RegisterSubmit(app, ctrl)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	port := cfg.Port
	if port == "" {
		port = "5001"
	}
	log.Info("submit service listening", "port", port)
	if err := app.Listen(":" + port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
