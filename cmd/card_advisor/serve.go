package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/card-advisor/internal/advisor"
	"github.com/jonathan/card-advisor/internal/catalog"
	"github.com/jonathan/card-advisor/internal/config"
	"github.com/jonathan/card-advisor/internal/llm"
	"github.com/jonathan/card-advisor/internal/recommend"
	"github.com/jonathan/card-advisor/internal/server"
	"github.com/jonathan/card-advisor/internal/session"
	"github.com/jonathan/card-advisor/internal/types"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes session, profile, and recommendation endpoints, plus a chat endpoint when a Gemini API key is configured.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cards, err := newCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	sessions := newSessionStore(cfg)

	engine := recommend.New(recommend.Config{
		FeeExemptionThreshold: cfg.FeeExemptionThreshold,
		MaxResults:            cfg.MaxResults,
	})
	tools := advisor.NewToolset(sessions, cards, engine)

	var adv *advisor.Advisor
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		defer client.Close()
		adv = advisor.New(client, tools)
	} else {
		log.Println("GEMINI_API_KEY not set, chat endpoint disabled")
	}

	return server.New(server.Config{Port: cfg.Port}, tools, adv).Start()
}

// newCatalog picks the card source: Postgres when a database URL is
// configured, otherwise the embedded seed (or a seed file) served from
// memory.
func newCatalog(ctx context.Context, cfg *config.Config) (catalog.Reader, error) {
	if cfg.DatabaseURL != "" {
		store, err := catalog.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return store, nil
	}

	cards, err := loadSeed(cfg.CatalogSeedPath)
	if err != nil {
		return nil, err
	}
	log.Printf("Serving %d cards from the static catalog", len(cards))
	return catalog.NewStaticStore(cards), nil
}

func newSessionStore(cfg *config.Config) session.Store {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore()
	}
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	log.Printf("Using Redis session store at %s", cfg.RedisAddr)
	return session.NewRedisStore(cfg.RedisAddr, ttl)
}

func loadSeed(path string) ([]types.CardRecord, error) {
	if path != "" {
		cards, err := catalog.LoadSeedFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog seed: %w", err)
		}
		return cards, nil
	}
	return catalog.DefaultSeed()
}
