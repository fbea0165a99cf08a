package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/levy/internal/database"
)

func (c *cli) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withDB(func(db *sql.DB) error {
				return database.MigrateDown(db, steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withDB(database.Migrate)
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withDB(func(db *sql.DB) error {
					v, dirty, err := database.Version(db)
					if err != nil {
						return err
					}

					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)

					return nil
				})
			},
		},
	)

	return cmd
}

// withDB opens a bare connection; schema commands must not depend on the
// tables they manage.
func (c *cli) withDB(fn func(db *sql.DB) error) error {
	db, err := database.New(c.cfg.ConnectionString(), c.cfg.Pool())
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}
