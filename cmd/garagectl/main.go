package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/garagehub/internal/adapters/postgres"
	"github.com/samirrijal/garagehub/internal/pkg/config"
	"github.com/samirrijal/garagehub/internal/pkg/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "garagectl",
	Short: "GarageHub operations CLI",
	Long: `Operational commands for GarageHub: apply database migrations, seed the
garage and service catalogue, and compute great-circle distances.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration and installs a text logger; commands that
// touch the database or broker call it from PreRunE.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load("garagectl")
	if err != nil {
		return err
	}
	logging.Setup("garagectl", cfg.Log.Level, "text")
	return nil
}

func openDB(ctx context.Context) (*postgres.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	slog.Debug("connected to database", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	return db, nil
}
