// cmd/timemanager/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gurkanbulca/timemanager/internal/cli"
	"github.com/gurkanbulca/timemanager/internal/config"
	"github.com/gurkanbulca/timemanager/internal/logger"
)

var version = "dev"

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Setup("", "", os.Stderr).WithError(err).Fatal("Failed to load config")
	}
	log := logger.Setup(cfg.Log.Environment, cfg.Log.Level, os.Stderr)
	if envErr != nil {
		log.Debug("No .env file found")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = cli.Execute(ctx, version, cli.Deps{
		Out:   os.Stdout,
		Log:   log,
		Clock: time.Now,
		Open:  cli.OpenerFromConfig(cfg, log, time.Now),
	})
	if err != nil {
		stop()
		os.Exit(1)
	}
}
