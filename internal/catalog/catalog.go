// Package catalog supplies candidate card records, pre-filtered for basic
// eligibility before they ever reach the recommendation engine.
package catalog

import (
	"context"
	"strings"

	"github.com/jonathan/card-advisor/internal/types"
)

// Reader is the storage boundary of the recommendation flow. ByEligibility
// returns cards whose minimum income and credit score requirements the user
// meets, optionally narrowed to cards whose perks or reward type mention one
// of the given benefit tags. A creditScore <= 0 means the user's score is
// unknown and the score requirement is not applied.
type Reader interface {
	All(ctx context.Context) ([]types.CardRecord, error)
	ByEligibility(ctx context.Context, income float64, creditScore int, benefits []string) ([]types.CardRecord, error)
}

// StaticStore serves an immutable, already-loaded card list. It backs tests,
// the one-shot CLI, and demo deployments without a database.
type StaticStore struct {
	cards []types.CardRecord
}

// NewStaticStore wraps a card list. The slice is copied; later mutation of
// the caller's slice does not affect the store.
func NewStaticStore(cards []types.CardRecord) *StaticStore {
	return &StaticStore{cards: append([]types.CardRecord{}, cards...)}
}

// All returns every card in catalog order.
func (s *StaticStore) All(_ context.Context) ([]types.CardRecord, error) {
	return append([]types.CardRecord{}, s.cards...), nil
}

// ByEligibility filters the static list with the same semantics as the
// Postgres store.
func (s *StaticStore) ByEligibility(_ context.Context, income float64, creditScore int, benefits []string) ([]types.CardRecord, error) {
	matches := []types.CardRecord{}
	for _, card := range s.cards {
		if card.EligibilityIncome > income {
			continue
		}
		if creditScore > 0 && card.EligibilityCreditScore > creditScore {
			continue
		}
		if len(benefits) > 0 && !matchesBenefit(&card, benefits) {
			continue
		}
		matches = append(matches, card)
	}
	return matches, nil
}

func matchesBenefit(card *types.CardRecord, benefits []string) bool {
	rewardType := strings.ToLower(string(card.RewardType))
	for _, benefit := range benefits {
		benefit = strings.ToLower(strings.TrimSpace(benefit))
		if benefit == "" {
			continue
		}
		if strings.Contains(rewardType, benefit) || card.HasPerk(benefit) {
			return true
		}
	}
	return false
}
