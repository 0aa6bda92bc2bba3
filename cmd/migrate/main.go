package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/gurkanbulca/timemanager/internal/config"
	"github.com/gurkanbulca/timemanager/internal/database"
	"github.com/gurkanbulca/timemanager/internal/logger"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Setup("", "", os.Stderr).WithError(err).Fatal("Failed to load config")
	}
	log := logger.Setup(cfg.Log.Environment, cfg.Log.Level, os.Stderr)
	if envErr != nil {
		log.Debug("No .env file found")
	}

	ctx := context.Background()

	// Connect to database
	db, err := database.Open(ctx, database.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		Path:     cfg.Database.Path,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	log.Info("Running database migrations...")
	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	log.Info("Migrations completed successfully")
}
