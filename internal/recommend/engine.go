// Package recommend converts a completed user profile and a catalog of card
// records into a deterministic, explainable, ranked shortlist.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/card-advisor/internal/types"
)

// Default scoring parameters. Travel point and generic reward programs
// redeem below face value, so their estimated annual reward is discounted
// relative to cashback.
const (
	defaultFeeExemptionThreshold = 750.0
	defaultMaxResults            = 5
	defaultTravelPointsValue     = 0.5
	defaultRewardPointsValue     = 0.35
)

// Config holds the tunable parameters of the engine. The fee exemption
// threshold is expressed in the same currency unit as the catalog fees and
// profile amounts; it carries no currency assumption of its own.
type Config struct {
	FeeExemptionThreshold float64
	MaxResults            int
	TravelPointsValue     float64
	RewardPointsValue     float64
}

// DefaultConfig returns the standard engine parameters.
func DefaultConfig() Config {
	return Config{
		FeeExemptionThreshold: defaultFeeExemptionThreshold,
		MaxResults:            defaultMaxResults,
		TravelPointsValue:     defaultTravelPointsValue,
		RewardPointsValue:     defaultRewardPointsValue,
	}
}

// Engine scores, filters, deduplicates, and ranks candidate cards. It is
// stateless apart from its config and safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an engine, filling zero config values with defaults.
func New(cfg Config) *Engine {
	if cfg.FeeExemptionThreshold == 0 {
		cfg.FeeExemptionThreshold = defaultFeeExemptionThreshold
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.TravelPointsValue == 0 {
		cfg.TravelPointsValue = defaultTravelPointsValue
	}
	if cfg.RewardPointsValue == 0 {
		cfg.RewardPointsValue = defaultRewardPointsValue
	}
	return &Engine{cfg: cfg}
}

// scored pairs a recommendation with its catalog position so ties keep
// insertion order.
type scored struct {
	rec   types.Recommendation
	index int
}

// Recommend computes the ranked shortlist for a profile against candidate
// cards. The function is total: an incomplete profile is scored with absent
// numeric fields as zero and absent sets as empty, and an empty catalog
// yields an empty result. Catalog records are never mutated. Output is
// deterministic for a given profile and catalog, including tie order.
func (e *Engine) Recommend(profile *types.UserProfile, cards []types.CardRecord) []types.Recommendation {
	totalMonthlySpend := profile.TotalMonthlySpend()

	survivors := make([]scored, 0, len(cards))
	for i := range cards {
		card := &cards[i]
		reward := e.estimateAnnualReward(profile, card, totalMonthlySpend)
		netBenefit := reward - card.TotalFees()

		// Keep the card if it pays for itself, or its fees are low enough
		// that soft benefits can justify it.
		if netBenefit <= 0 && card.TotalFees() > e.cfg.FeeExemptionThreshold {
			continue
		}

		survivors = append(survivors, scored{
			rec: types.Recommendation{
				CardName:         card.Name,
				ImageURL:         card.ImageURL,
				KeyReasons:       e.buildReasons(profile, card),
				RewardSimulation: fmt.Sprintf("You could potentially save/earn up to %.2f per year!", reward),
				NetBenefit:       netBenefit,
				AffiliateLink:    card.AffiliateLink,
			},
			index: i,
		})
	}

	survivors = dedupeByName(survivors)

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].rec.NetBenefit > survivors[j].rec.NetBenefit
	})

	limit := e.cfg.MaxResults
	if len(survivors) < limit {
		limit = len(survivors)
	}
	recommendations := make([]types.Recommendation, 0, limit)
	for _, s := range survivors[:limit] {
		recommendations = append(recommendations, s.rec)
	}
	return recommendations
}

// estimateAnnualReward applies the reward formula for the card's type.
// Unrecognized types earn zero rather than failing.
func (e *Engine) estimateAnnualReward(profile *types.UserProfile, card *types.CardRecord, totalMonthlySpend float64) float64 {
	switch types.NormalizeRewardType(string(card.RewardType)) {
	case types.RewardCashback:
		return totalMonthlySpend * 12 * card.RewardRate
	case types.RewardTravelPoints:
		return totalMonthlySpend * 12 * card.RewardRate * e.cfg.TravelPointsValue
	case types.RewardRewards:
		return totalMonthlySpend * 12 * card.RewardRate * e.cfg.RewardPointsValue
	case types.RewardCoBranded:
		return affiliatedSpend(profile, card) * 12 * card.RewardRate
	case types.RewardFuel:
		return profile.SpendingHabits["fuel"] * 12 * card.RewardRate
	}
	return 0
}

// affiliatedSpend sums the spending categories a co-branded card is tied to:
// the categories named in the card's own name or perk text. A fuel co-branded
// card earns only on the fuel category, a grocery partnership card only on
// groceries, and so on.
func affiliatedSpend(profile *types.UserProfile, card *types.CardRecord) float64 {
	nameLower := strings.ToLower(card.Name)
	spend := 0.0
	for category, amount := range profile.SpendingHabits {
		if strings.Contains(nameLower, category) || card.HasPerk(category) {
			spend += amount
		}
	}
	return spend
}

// baseReason describes why the card's reward program itself fits.
func baseReason(card *types.CardRecord) string {
	switch types.NormalizeRewardType(string(card.RewardType)) {
	case types.RewardCashback:
		return fmt.Sprintf("Offers a solid base cashback of %.2f%% on general spends.", card.RewardRate*100)
	case types.RewardTravelPoints:
		return "Earns valuable travel points on your spends."
	case types.RewardRewards:
		return "Offers versatile reward points with flexible redemption options."
	case types.RewardCoBranded:
		return "Provides specialized co-branded benefits on its partner categories."
	case types.RewardFuel:
		return fmt.Sprintf("Offers substantial savings on fuel (approx. %.2f%% value back).", card.RewardRate*100)
	}
	return ""
}

// buildReasons assembles the ordered, deduplicated justification list: the
// reward-program reason first, then one reason per perk the user cares about.
// With the any-sentinel every perk counts.
func (e *Engine) buildReasons(profile *types.UserProfile, card *types.CardRecord) []string {
	reasons := []string{}
	seen := make(map[string]bool)
	add := func(reason string) {
		if reason == "" || seen[reason] {
			return
		}
		seen[reason] = true
		reasons = append(reasons, reason)
	}

	add(baseReason(card))

	if profile.WantsAnyBenefit() {
		for _, perk := range card.SpecialPerks {
			add(fmt.Sprintf("Includes %s.", perk))
		}
	} else {
		for _, tag := range profile.PreferredBenefits {
			if card.HasPerk(tag) || strings.Contains(strings.ToLower(string(card.RewardType)), tag) {
				add(fmt.Sprintf("Matches your %s preference.", tag))
			}
		}
	}

	if len(reasons) == 0 {
		add("A strong all-around card based on your overall financial profile.")
	}
	return reasons
}

// dedupeByName keeps one entry per card name: the one with the higher net
// benefit, or the earlier catalog entry on exact ties.
func dedupeByName(cards []scored) []scored {
	best := make(map[string]int, len(cards))
	out := make([]scored, 0, len(cards))
	for _, card := range cards {
		at, exists := best[card.rec.CardName]
		if !exists {
			best[card.rec.CardName] = len(out)
			out = append(out, card)
			continue
		}
		if card.rec.NetBenefit > out[at].rec.NetBenefit {
			out[at] = card
		}
	}
	return out
}
