package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FizzahNasir/FYP-Synkro/internal/infrastructure/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(newMigrateApplyCommand(ctx, "up", database.Up, "Apply pending migrations"))
	migrateCmd.AddCommand(newMigrateApplyCommand(ctx, "down", database.Down, "Roll back applied migrations"))
	migrateCmd.AddCommand(newMigrateStatusCommand(ctx))

	return migrateCmd
}

func newMigrateApplyCommand(ctx *commandContext, use string, dir database.Direction, short string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			n, err := database.Migrate(db, cfg.Database.Driver, dir, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) %s\n", n, use)
			return nil
		},
	}

	defaultLimit := 0
	if dir == database.Down {
		defaultLimit = 1
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultLimit, "Maximum migrations to apply (0 = all)")
	return cmd
}

func newMigrateStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := ctx.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			statuses, err := database.Status(db, cfg.Database.Driver)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				rows = append(rows, []string{s.ID, state})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Migration", "State"}, rows, nil))
			return nil
		},
	}
}
