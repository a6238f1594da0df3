package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"github.com/yakoovad/makarapreneur/internal/config"
	"github.com/yakoovad/makarapreneur/internal/db"
)

var migrateDSN string

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(db.DirectionUp), string(db.DirectionDown)},
	RunE:      runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateDSN, "dsn", "", "Database URL (defaults to the configured one)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dsn := migrateDSN
	if dsn == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		dsn = cfg.Database.DSN
	}

	direction := db.Direction(args[0])
	if err := db.Migrate(dsn, direction); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "migrations applied: %s\n", direction)
	return nil
}
