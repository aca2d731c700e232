package main

import (
	"database/sql"

	"labflow/cmd"
	"labflow/internal/adapters/out/postgres/migrations"

	"github.com/rs/zerolog"
)

func withDatabase(envFile string, fn func(db *sql.DB, logger zerolog.Logger) error) error {
	cfg, logger, err := setup(envFile)
	if err != nil {
		return err
	}

	db, err := cmd.OpenSQL(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db, logger)
}

func logVersion(db *sql.DB, logger zerolog.Logger, msg string) error {
	version, err := migrations.Version(db)
	if err != nil {
		return err
	}
	logger.Info().Int64("version", version).Msg(msg)
	return nil
}
