package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the bookshelf database schema",
		Long: `Applies, rolls back and inspects the goose migrations for the bookshelf
database. The connection string is read from DB_DSN.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadEnvFiles()
			if !cmd.Flags().Changed("dir") {
				dir = migrationsDir()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "db/migrations", "directory holding the SQL migrations (env MIGRATIONS_DIR)")

	cmd.AddCommand(
		newUpCmd(&dir),
		newDownCmd(&dir),
		newStatusCmd(&dir),
		newCreateCmd(&dir),
	)
	return cmd
}

func newUpCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(db *sql.DB) error {
				if err := goose.UpContext(cmd.Context(), db, *dir); err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
				log.Info("migrations applied", "dir", *dir)
				return nil
			})
		},
	}
}

func newDownCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(db *sql.DB) error {
				if err := goose.DownContext(cmd.Context(), db, *dir); err != nil {
					return fmt.Errorf("roll back migration: %w", err)
				}
				log.Info("migration rolled back", "dir", *dir)
				return nil
			})
		},
	}
}

func newStatusCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the state of every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(db *sql.DB) error {
				return goose.StatusContext(cmd.Context(), db, *dir)
			})
		},
	}
}

func newCreateCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:     "create NAME",
		Short:   "Create a new timestamped SQL migration",
		Example: `  migrate create add_book_isbn`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New("migration name must not be empty")
			}
			if err := goose.Create(nil, *dir, args[0], "sql"); err != nil {
				return fmt.Errorf("create migration: %w", err)
			}
			return nil
		},
	}
}

// withDB opens a pgx pool on DB_DSN and hands fn a database/sql view of it.
func withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	pool, err := pgxpool.New(ctx, databaseDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return fn(db)
}
