package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"quizhub-backend/config"
	"quizhub-backend/controllers"
	"quizhub-backend/database"
	"quizhub-backend/logging"
	"quizhub-backend/middlewares"
	"quizhub-backend/routes"
	"quizhub-backend/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel).With("service", "question")

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

	ctrl := controllers.NewQuestionController(
		store.NewCategoryStore(db),
		store.NewQuestionStore(db),
		log,
	)

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.NewErrorHandler(log)})
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))
	routes.RegisterQuestion(app, ctrl)

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	port := cfg.Port
	if port == "" {
		port = "5000"
	}
	log.Info("question service listening", "port", port)
	if err := app.Listen(":" + port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
