package main

import (
	"fmt"

	"github.com/Veraticus/safe-to-spend/internal/cli"
	"github.com/Veraticus/safe-to-spend/internal/common"
	"github.com/Veraticus/safe-to-spend/internal/config"
	"github.com/Veraticus/safe-to-spend/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.
Every other command migrates automatically; use --status to inspect.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("status", false, "show the current schema version without applying changes")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath, config.User(viper.GetViper()))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if !status {
		common.Logger("migrate").Info("Running database migrations", "database", dbPath)
		if err := store.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	version, err := store.SchemaVersion()
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Database %s at schema version %d", dbPath, version)
	if status {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(msg))
	} else {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
	}
	return err
}
