package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"renttracker/pkg/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		migrateAction("up", "Apply all pending migrations", cobra.NoArgs, func(mg *database.Migrator, args []string) error {
			return mg.Up()
		}),
		migrateAction("down [steps]", "Roll back migrations (default 1)", cobra.MaximumNArgs(1), func(mg *database.Migrator, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return errors.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			return mg.Down(steps)
		}),
		migrateAction("version", "Print the applied schema version", cobra.NoArgs, func(mg *database.Migrator, args []string) error {
			v, dirty, err := mg.Version()
			if err != nil {
				return err
			}
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
			return nil
		}),
	)
	return cmd
}

func migrateAction(use, short string, nargs cobra.PositionalArgs, run func(*database.Migrator, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := database.NewPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			mg, err := database.NewMigrator(pool)
			if err != nil {
				return err
			}
			defer mg.Close()
			return run(mg, args)
		},
	}
}
