package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labflow/cmd"
	"labflow/internal/adapters/out/postgres/migrations"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "labflow",
		Short:         "Laboratory order workflow engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional file with environment variables")

	rootCmd.AddCommand(serveCmd(&envFile))
	rootCmd.AddCommand(migrateCmd(&envFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(envFile string) (cmd.Config, zerolog.Logger, error) {
	cfg, err := cmd.LoadConfig(envFile)
	if err != nil {
		return cmd.Config{}, zerolog.Nop(), fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := cmd.NewLogger(cfg, os.Stdout)
	if err != nil {
		return cmd.Config{}, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the SLA monitor",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := setup(*envFile)
			if err != nil {
				return err
			}
			return runServer(cfg, logger)
		},
	}
}

func runServer(cfg cmd.Config, logger zerolog.Logger) error {
	app, err := cmd.NewCompositionRoot(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("failed to close database")
		}
	}()

	e, err := app.CreateHTTPRouter()
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Str("store", cfg.Store).Msg("starting HTTP server")
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); !errors.Is(startErr, http.ErrServerClosed) {
			serverErr <- startErr
		}
		close(serverErr)
	}()

	select {
	case err = <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd(envFile *string) *cobra.Command {
	c := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	c.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDatabase(*envFile, func(db *sql.DB, logger zerolog.Logger) error {
				if err := migrations.Up(db); err != nil {
					return err
				}
				return logVersion(db, logger, "migrations applied")
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDatabase(*envFile, func(db *sql.DB, logger zerolog.Logger) error {
				if err := migrations.Down(db); err != nil {
					return err
				}
				return logVersion(db, logger, "migration rolled back")
			})
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the state of every migration",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDatabase(*envFile, func(db *sql.DB, _ zerolog.Logger) error {
				return migrations.Status(db)
			})
		},
	})

	return c
}
