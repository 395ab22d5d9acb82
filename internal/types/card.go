package types

import "strings"

// RewardType determines which reward formula applies to a card.
type RewardType string

const (
	RewardCashback     RewardType = "cashback"
	RewardTravelPoints RewardType = "travel points"
	RewardRewards      RewardType = "rewards"
	RewardCoBranded    RewardType = "co-branded"
	RewardFuel         RewardType = "fuel"
)

// NormalizeRewardType maps catalog reward type strings onto the closed
// RewardType set. Catalog sources are inconsistent about casing and
// hyphenation ("Travel Points" vs "travel-points"), so both forms are
// accepted. Unrecognized strings pass through lowercased; the engine treats
// them as zero-reward rather than failing.
func NormalizeRewardType(s string) RewardType {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", " ")
	switch normalized {
	case "cashback":
		return RewardCashback
	case "travel points", "travel":
		return RewardTravelPoints
	case "rewards":
		return RewardRewards
	case "co branded", "cobranded":
		return RewardCoBranded
	case "fuel":
		return RewardFuel
	}
	return RewardType(normalized)
}

// CardRecord is one catalog entry. Records are read-only once loaded; the
// recommendation engine never mutates them.
type CardRecord struct {
	Name                   string     `json:"name"`
	Issuer                 string     `json:"issuer"`
	JoiningFee             float64    `json:"joining_fee"`
	AnnualFee              float64    `json:"annual_fee"`
	RewardType             RewardType `json:"reward_type"`
	RewardRate             float64    `json:"reward_rate"`
	EligibilityIncome      float64    `json:"eligibility_income"`
	EligibilityCreditScore int        `json:"eligibility_credit_score"`
	SpecialPerks           []string   `json:"special_perks"`
	AffiliateLink          string     `json:"affiliate_link"`
	ImageURL               string     `json:"image_url"`
}

// TotalFees is the first-year cost of holding the card.
func (c *CardRecord) TotalFees() float64 {
	return c.JoiningFee + c.AnnualFee
}

// HasPerk reports whether any of the card's perks mentions the given tag.
// Matching is case-insensitive substring matching: catalog perk text is
// free-form ("Unlimited airport lounge access via Priority Pass") while user
// tags are short ("lounge access").
func (c *CardRecord) HasPerk(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	for _, perk := range c.SpecialPerks {
		if strings.Contains(strings.ToLower(perk), tag) {
			return true
		}
	}
	return false
}
