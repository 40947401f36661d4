package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "en", cfg.Server.Language)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, MemoryDSN, cfg.Database.SQLite.Path)
	assert.True(t, cfg.Database.SeedOnStart)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Prometheus.Path)
	assert.Equal(t, 128, cfg.Catalog.CacheSize)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SubmissionKeyTTL())
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Scheduler.Timezone)
	assert.Equal(t, "06:00", cfg.Scheduler.Time)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8081
  language: vi
redis:
  enabled: true
  host: cache.internal
  port: 6380
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "vi", cfg.Server.Language)
	assert.Equal(t, "cache.internal:6380", cfg.Redis.Addr())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":8081", cfg.Server.ListenAddr())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8081\n")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	_, err := Load(writeConfig(t, "database:\n  driver: mysql\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, Language: "en"},
			Database: DatabaseConfig{Driver: DriverSQLite, SQLite: SQLiteConfig{Path: MemoryDSN}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid sqlite", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "bad language", mutate: func(c *Config) { c.Server.Language = "fr" }, wantErr: "server.language"},
		{name: "empty sqlite path", mutate: func(c *Config) { c.Database.SQLite.Path = "" }, wantErr: "sqlite.path"},
		{
			name: "postgres without host",
			mutate: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.Postgres = PostgresConfig{Database: "vnu", User: "app"}
			},
			wantErr: "postgres.host",
		},
		{
			name: "postgres complete",
			mutate: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.Postgres = PostgresConfig{Host: "db", Database: "vnu", User: "app"}
			},
		},
		{name: "redis without host", mutate: func(c *Config) { c.Redis.Enabled = true }, wantErr: "redis.host"},
		{name: "negative cache", mutate: func(c *Config) { c.Catalog.CacheSize = -1 }, wantErr: "cache_size"},
		{
			name: "scheduler bad timezone",
			mutate: func(c *Config) {
				c.Scheduler = SchedulerConfig{Enabled: true, Timezone: "Mars/Olympus", Time: "06:00"}
			},
			wantErr: "scheduler.timezone",
		},
		{name: "scheduler disabled ignores timezone", mutate: func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
