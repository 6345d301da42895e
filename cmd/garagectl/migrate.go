package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samirrijal/garagehub/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:     "up",
	Short:   "Apply pending migrations",
	Example: "  garagectl migrate up",
	Args:    cobra.NoArgs,
	PreRunE: loadConfig,
	RunE:    runMigrateUp,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.Migrate(cmd.Context(), migrations.FS)
	for _, name := range applied {
		fmt.Fprintf(cmd.OutOrStdout(), "OK  %s\n", name)
	}
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
	}
	return nil
}
