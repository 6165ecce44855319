package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the submit, question and ETL services.
// Every field has a working default so a service can start inside the compose
// network with no .env at all.
type Config struct {
	Port           string
	Database       DatabaseConfig
	Queue          QueueConfig
	Cache          CacheConfig
	QuestionAPIURL string
	AllowedOrigins string
	LogLevel       string
}

// DatabaseConfig describes the MySQL connection.
type DatabaseConfig struct {
	User         string
	Password     string
	Host         string
	Port         string
	Name         string
	MaxOpenConns int
}

// DSN renders the mysql driver connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// QueueConfig describes the RabbitMQ endpoint and the shared queue name.
// The queue name must match on both the publisher and the consumer side.
type QueueConfig struct {
	URL  string
	Name string
}

// CacheConfig describes the category snapshot file and its refresh cadence.
type CacheConfig struct {
	File    string
	Refresh time.Duration
}

// Load reads .env (if present) and resolves all settings from the
// environment with defaults matching the compose deployment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: os.Getenv("PORT"),
		Database: DatabaseConfig{
			User:         env("DB_USER", "root"),
			Password:     env("DB_PASSWORD", "rootpassword"),
			Host:         env("DB_HOST", "mysql-db"),
			Port:         env("DB_PORT", "3306"),
			Name:         env("DB_NAME", "quizdb"),
			MaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 10),
		},
		Queue: QueueConfig{
			URL:  env("RABBITMQ_URL", "amqp://rabbitmq:5672"),
			Name: env("QUEUE_NAME", "SUBMITTED_QUESTIONS"),
		},
		Cache: CacheConfig{
			File:    env("CACHE_FILE", "/app/cache/categories.json"),
			Refresh: envDuration("CACHE_REFRESH", 5*time.Minute),
		},
		QuestionAPIURL: env("QUESTION_SERVICE_URL", "http://question_service:5000"),
		AllowedOrigins: env("ALLOWED_ORIGINS", "*"),
		LogLevel:       env("LOG_LEVEL", "info"),
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
