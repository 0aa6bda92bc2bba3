// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gurkanbulca/timemanager/internal/repository"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendSQL    = "sql"
	BackendMemory = "memory"
)

type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
	Key     string `yaml:"key"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
}

type LogConfig struct {
	Environment string `yaml:"environment"`
	Level       string `yaml:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	dir, _ := repository.DefaultSnapshotDir()
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     dir,
			Key:     "tasks",
		},
		Database: DatabaseConfig{
			Driver:  "sqlite3",
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "timemanager",
			SSLMode: "disable",
			Path:    "file:timemanager.db?_fk=1",
		},
		Log: LogConfig{
			Environment: "dev",
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// TIMEMANAGER_CONFIG (if any), and environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("TIMEMANAGER_CONFIG"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Storage.Backend = getEnv("STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Dir = getEnv("STORAGE_DIR", cfg.Storage.Dir)
	cfg.Storage.Key = getEnv("STORAGE_KEY", cfg.Storage.Key)

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvAsInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", cfg.Database.SSLMode)
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)

	cfg.Log.Environment = getEnv("ENVIRONMENT", cfg.Log.Environment)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	return cfg, nil
}

// Validate checks the configuration for unsupported values
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage dir is required for the file backend")
		}
	case BackendSQL:
		switch c.Database.Driver {
		case "postgres", "sqlite3":
		default:
			return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported storage backend: %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key is required")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Log.Environment == "local" || c.Log.Environment == "dev"
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
