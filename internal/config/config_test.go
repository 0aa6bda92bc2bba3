package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"TIMEMANAGER_CONFIG", "STORAGE_BACKEND", "STORAGE_DIR", "STORAGE_KEY",
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"DB_SSL_MODE", "DB_PATH", "ENVIRONMENT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "tasks", cfg.Storage.Key)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "dev", cfg.Log.Environment)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
storage:
  backend: sql
  key: work
database:
  driver: postgres
  host: db.internal
  port: 6543
log:
  environment: prod
`), 0600)
	require.NoError(t, err)

	t.Setenv("TIMEMANAGER_CONFIG", path)
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQL, cfg.Storage.Backend)
	assert.Equal(t, "work", cfg.Storage.Key)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "timemanager", cfg.Database.DBName)
	assert.False(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMEMANAGER_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) { c.Storage.Dir = "/tmp/tm" }},
		{name: "memory", mutate: func(c *Config) { c.Storage.Backend = BackendMemory }},
		{name: "file without dir", mutate: func(c *Config) { c.Storage.Dir = "" }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) {
			c.Storage.Backend = BackendSQL
			c.Database.Driver = "mysql"
		}, wantErr: true},
		{name: "empty key", mutate: func(c *Config) {
			c.Storage.Backend = BackendMemory
			c.Storage.Key = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
