// Package config provides configuration loading and validation for the
// advisor service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds everything the serve and seed commands need. Values come from
// an optional JSON file, with environment variables taking precedence.
type Config struct {
	Port        int    `json:"port,omitempty" validate:"gte=0,lte=65535"`
	DatabaseURL string `json:"database_url,omitempty"`
	RedisAddr   string `json:"redis_addr,omitempty"`

	// Conversational layer; empty key disables the chat endpoint.
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	GeminiModel  string `json:"gemini_model,omitempty"`

	// Engine tuning. The fee threshold is in the catalog's currency unit.
	FeeExemptionThreshold float64 `json:"fee_exemption_threshold,omitempty" validate:"gte=0"`
	MaxResults            int     `json:"max_results,omitempty" validate:"gte=0,lte=50"`

	CatalogSeedPath   string `json:"catalog_seed_path,omitempty"`
	SessionTTLMinutes int    `json:"session_ttl_minutes,omitempty" validate:"gte=0"`
}

// Default values applied by Load when neither file nor env set a field.
const (
	DefaultPort = 8080
)

// Load reads the optional JSON config file at path (empty path skips the
// file), overlays environment variables, fills defaults, and validates.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if v := os.Getenv("FEE_EXEMPTION_THRESHOLD"); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			c.FeeExemptionThreshold = threshold
		}
	}
	if v := os.Getenv("MAX_RESULTS"); v != "" {
		if max, err := strconv.Atoi(v); err == nil {
			c.MaxResults = max
		}
	}
	if v := os.Getenv("CATALOG_SEED_PATH"); v != "" {
		c.CatalogSeedPath = v
	}
	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil {
			c.SessionTTLMinutes = ttl
		}
	}
}

// Validate checks the configuration's value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
