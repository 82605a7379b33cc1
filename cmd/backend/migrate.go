package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"projectdesk/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply, revert or inspect the embedded schema migrations.

Available subcommands:
  up      - Apply every pending migration
  down    - Revert the most recent migration
  version - Print the applied schema version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		logger.Info("migrations_complete")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if err := db.MigrateDown(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		logger.Info("migration_reverted")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		version, dirty, ok, err := db.MigrationVersion(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("migrate version: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatVersion(version, dirty, ok))
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func formatVersion(version uint, dirty, ok bool) string {
	switch {
	case !ok:
		return "no migrations applied"
	case dirty:
		return fmt.Sprintf("%d (dirty)", version)
	default:
		return fmt.Sprintf("%d", version)
	}
}
