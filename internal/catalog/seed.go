package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/card-advisor/internal/types"
)

//go:embed seed.json
var defaultSeed []byte

// DefaultSeed returns the built-in card catalog. It backs demo mode and the
// one-shot CLI when no database is configured.
func DefaultSeed() ([]types.CardRecord, error) {
	return decodeSeed(defaultSeed)
}

// LoadSeedFile reads a catalog seed file, validates it against the card
// catalog schema, and decodes it into records.
func LoadSeedFile(path string) ([]types.CardRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return decodeSeed(data)
}

func decodeSeed(data []byte) ([]types.CardRecord, error) {
	if err := ValidateSeed(data); err != nil {
		return nil, err
	}

	var cards []types.CardRecord
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}

	for i := range cards {
		cards[i].RewardType = types.NormalizeRewardType(string(cards[i].RewardType))
	}
	return cards, nil
}
