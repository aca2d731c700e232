package cmd_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"labflow/cmd"
	"labflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range []string{
		"HTTP_PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"STORE", "AUTO_MIGRATE", "LOG_LEVEL", "LOG_FORMAT", "SLA_SWEEP_SCHEDULE",
		"TEST_CATALOG_PATH", "ALERT_WEBHOOK_URL", "ALERT_WEBHOOK_TIMEOUT",
	} {
		if v, ok := values[key]; ok {
			t.Setenv(key, v)
			continue
		}
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"DB_NAME": "lab", "DB_USER": "lab"})

	cfg, err := cmd.LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, cmd.StoreTypePostgres, cfg.Store)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSslMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, cmd.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "@every 5m", cfg.SLASweepSchedule)
	assert.Equal(t, 5*time.Second, cfg.AlertWebhookTimeout)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "host=localhost port=5432 user=lab password= dbname=lab sslmode=disable", cfg.DSN())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	setEnv(t, map[string]string{
		"HTTP_PORT":             "9090",
		"STORE":                 "memory",
		"AUTO_MIGRATE":          "true",
		"LOG_LEVEL":             "debug",
		"LOG_FORMAT":            "console",
		"SLA_SWEEP_SCHEDULE":    "*/2 * * * *",
		"ALERT_WEBHOOK_URL":     "http://alerts.local/hook",
		"ALERT_WEBHOOK_TIMEOUT": "750ms",
	})

	cfg, err := cmd.LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, cmd.StoreTypeMemory, cfg.Store)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, cmd.LogFormatConsole, cfg.LogFormat)
	assert.Equal(t, "*/2 * * * *", cfg.SLASweepSchedule)
	assert.Equal(t, "http://alerts.local/hook", cfg.AlertWebhookURL)
	assert.Equal(t, 750*time.Millisecond, cfg.AlertWebhookTimeout)
}

func TestLoadConfig_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	setEnv(t, map[string]string{"STORE": "memory", "HTTP_PORT": "7000"})
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HTTP_PORT=6000\nLOG_LEVEL=warn\n"), 0o600))

	cfg, err := cmd.LoadConfig(envFile)

	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.HTTPPort)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_MissingEnvFileIsIgnored(t *testing.T) {
	setEnv(t, map[string]string{"STORE": "memory"})

	_, err := cmd.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	assert.NoError(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := cmd.Config{
		HTTPPort:         "8080",
		Store:            cmd.StoreTypeMemory,
		LogLevel:         "info",
		LogFormat:        cmd.LogFormatJSON,
		SLASweepSchedule: "@every 5m",
	}

	tests := []struct {
		name   string
		mutate func(*cmd.Config)
		target error
	}{
		{"valid", func(*cmd.Config) {}, nil},
		{"missing port", func(c *cmd.Config) { c.HTTPPort = "" }, errs.ErrValueIsRequired},
		{"unknown store", func(c *cmd.Config) { c.Store = "redis" }, errs.ErrValueIsInvalid},
		{"postgres without database", func(c *cmd.Config) { c.Store = cmd.StoreTypePostgres; c.DBHost = "db" }, errs.ErrValueIsRequired},
		{"bad log level", func(c *cmd.Config) { c.LogLevel = "loud" }, errs.ErrValueIsInvalid},
		{"bad log format", func(c *cmd.Config) { c.LogFormat = "xml" }, errs.ErrValueIsInvalid},
		{"bad schedule", func(c *cmd.Config) { c.SLASweepSchedule = "sometimes" }, errs.ErrValueIsInvalid},
		{"webhook without timeout", func(c *cmd.Config) { c.AlertWebhookURL = "http://hook" }, errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.target == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}
