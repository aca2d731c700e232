package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"labflow/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	StoreTypePostgres = "postgres"
	StoreTypeMemory   = "memory"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type Config struct {
	HTTPPort   string `mapstructure:"HTTP_PORT"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSslMode  string `mapstructure:"DB_SSLMODE"`

	Store       string `mapstructure:"STORE"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	SLASweepSchedule string `mapstructure:"SLA_SWEEP_SCHEDULE"`
	TestCatalogPath  string `mapstructure:"TEST_CATALOG_PATH"`

	AlertWebhookURL     string        `mapstructure:"ALERT_WEBHOOK_URL"`
	AlertWebhookTimeout time.Duration `mapstructure:"ALERT_WEBHOOK_TIMEOUT"`
}

var configKeys = []string{
	"HTTP_PORT",
	"DB_HOST",
	"DB_PORT",
	"DB_USER",
	"DB_PASSWORD",
	"DB_NAME",
	"DB_SSLMODE",
	"STORE",
	"AUTO_MIGRATE",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"SLA_SWEEP_SCHEDULE",
	"TEST_CATALOG_PATH",
	"ALERT_WEBHOOK_URL",
	"ALERT_WEBHOOK_TIMEOUT",
}

// LoadConfig reads the configuration from the environment. Variables from
// envFile are loaded first without overriding the ones already set; a missing
// file is not an error.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("STORE", StoreTypePostgres)
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", LogFormatJSON)
	v.SetDefault("SLA_SWEEP_SCHEDULE", "@every 5m")
	v.SetDefault("ALERT_WEBHOOK_TIMEOUT", "5s")

	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var err error
	if c.HTTPPort == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("HTTP_PORT"))
	}

	switch c.Store {
	case StoreTypeMemory:
	case StoreTypePostgres:
		if c.DBHost == "" {
			err = errors.Join(err, errs.NewValueIsRequiredError("DB_HOST"))
		}
		if c.DBName == "" {
			err = errors.Join(err, errs.NewValueIsRequiredError("DB_NAME"))
		}
		if c.DBUser == "" {
			err = errors.Join(err, errs.NewValueIsRequiredError("DB_USER"))
		}
	default:
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("STORE",
			fmt.Errorf("%q is not one of %s, %s", c.Store, StoreTypePostgres, StoreTypeMemory)))
	}

	if _, parseErr := zerolog.ParseLevel(c.LogLevel); parseErr != nil {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", parseErr))
	}
	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatConsole {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("LOG_FORMAT",
			fmt.Errorf("%q is not one of %s, %s", c.LogFormat, LogFormatJSON, LogFormatConsole)))
	}
	if _, parseErr := cron.ParseStandard(c.SLASweepSchedule); parseErr != nil {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("SLA_SWEEP_SCHEDULE", parseErr))
	}
	if c.AlertWebhookURL != "" && c.AlertWebhookTimeout <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("ALERT_WEBHOOK_TIMEOUT",
			fmt.Errorf("must be positive, got %s", c.AlertWebhookTimeout)))
	}

	return err
}

// DSN is the libpq connection string of the configured database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
