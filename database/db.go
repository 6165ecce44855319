package database

import (
	"fmt"

	"quizhub-backend/config"
	"quizhub-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect opens the MySQL pool described by cfg. The handle is returned to
// the caller rather than stored in a package global so each service wires
// its own components explicitly and closes the pool on shutdown.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql pool: %w", err)
	}
	// Bounds concurrent store operations; callers past the cap queue.
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)

	return db, nil
}

// AutoMigrate creates the quiz tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Question{}, &models.Submission{})
}
