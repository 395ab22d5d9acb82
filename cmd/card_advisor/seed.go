package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/card-advisor/internal/catalog"
	"github.com/jonathan/card-advisor/internal/config"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the card catalog into Postgres",
	Long:  `Validate a catalog seed file against the card schema and insert its cards into the configured Postgres database, creating the table if needed. Existing cards are left in place.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Seed JSON file (defaults to the embedded catalog)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for seeding")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	path := seedFile
	if path == "" {
		path = cfg.CatalogSeedPath
	}
	cards, err := loadSeed(path)
	if err != nil {
		return err
	}

	store, err := catalog.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	for _, card := range cards {
		if err := store.Insert(ctx, card); err != nil {
			return fmt.Errorf("failed to insert %q: %w", card.Name, err)
		}
	}

	log.Printf("Seeded %d cards", len(cards))
	return nil
}
