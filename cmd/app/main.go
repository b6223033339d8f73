// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"

	"codeberg.org/oliverandrich/clarity/internal/config"
	"codeberg.org/oliverandrich/clarity/internal/database"
	"codeberg.org/oliverandrich/clarity/internal/server"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:    "clarity",
		Usage:   "Run the Clarity web application",
		Version: version,
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Commands: []*cli.Command{
					{Name: "up", Usage: "Apply all pending migrations", Action: migrate(database.RunMigrations)},
					{Name: "down", Usage: "Roll back the last migration", Action: migrate(database.MigrateDown)},
					{Name: "reset", Usage: "Roll back all migrations", Action: migrate(database.MigrateReset)},
				},
			},
			{
				Name:   "purge-tokens",
				Usage:  "Delete expired verification and reset tokens",
				Action: server.PurgeTokens,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type migration func(db *sql.DB, dialect database.Dialect) error

func migrate(run migration) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		dsn := config.NewFromCLI(cmd).Database.DSN

		db, err := database.Connect(dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() { _ = db.Close() }()

		if err := run(db.DB, database.DialectFor(dsn)); err != nil {
			return err
		}
		slog.Info("migrations finished", "command", cmd.Name)
		return nil
	}
}
