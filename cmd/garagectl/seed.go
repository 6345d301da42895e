package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/garagehub/internal/adapters/nats"
	"github.com/samirrijal/garagehub/internal/adapters/postgres"
	"github.com/samirrijal/garagehub/internal/core/domain"
	"github.com/samirrijal/garagehub/internal/core/seed"
)

var (
	seedFile   string
	seedDryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert services and garages from a catalogue file",
	Long: `Validate a JSON catalogue and upsert its services and garages. Ids are
derived from entry keys, so seeding the same file twice updates in place.
Running API instances are told to drop cached catalogue reads.`,
	Example: `  garagectl seed --file configs/catalog.example.json
  garagectl seed --file configs/catalog.example.json --dry-run`,
	Args:    cobra.NoArgs,
	PreRunE: loadConfig,
	RunE:    runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "catalogue JSON file")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "validate only")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := os.Open(seedFile)
	if err != nil {
		return err
	}
	defer f.Close()

	file, err := seed.Decode(f)
	if err != nil {
		return err
	}
	plan, err := seed.Build(file)
	if err != nil {
		return fmt.Errorf("invalid catalogue:\n%w", err)
	}

	placed := 0
	for _, g := range plan.Garages {
		if g.Coordinates != nil {
			placed++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d services, %d garages (%d with coordinates)\n",
		len(plan.Services), len(plan.Garages), placed)
	if seedDryRun {
		return nil
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.NewServiceRepo(db).UpsertBatch(ctx, plan.Services); err != nil {
		return fmt.Errorf("upsert services: %w", err)
	}
	if err := postgres.NewGarageRepo(db).UpsertBatch(ctx, plan.Garages, plan.Links); err != nil {
		return fmt.Errorf("upsert garages: %w", err)
	}

	now := time.Now()
	event := &domain.CatalogEvent{
		Version:   now.UnixNano(),
		Garages:   len(plan.Garages),
		Services:  len(plan.Services),
		Source:    "garagectl seed",
		Timestamp: now,
	}
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, API caches will only expire", "error", err)
		return nil
	}
	defer pub.Close()

	if err := pub.PublishCatalogUpdated(ctx, event); err != nil {
		slog.Warn("publish catalog update failed", "error", err)
		return nil
	}
	slog.Info("catalogue seeded", "services", event.Services, "garages", event.Garages, "version", event.Version)
	return nil
}
