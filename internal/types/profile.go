// Package types provides type definitions for structured data used throughout the card-advisor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// BenefitAny is the sentinel benefit tag meaning "no preference": perk
// filtering is disabled and every card perk counts as a match.
const BenefitAny = "any"

// CreditScore distinguishes a score the user reported from one they said
// they don't know. A nil *CreditScore on the profile means the slot has not
// been collected yet.
type CreditScore struct {
	Value   int  `json:"value,omitempty"`
	Unknown bool `json:"unknown,omitempty"`
}

// UserProfile holds the financial attributes collected for one conversation
// session. Pointer and nil-slice fields double as "not yet provided" markers:
// a nil field is an unfilled slot, a present-but-empty value (e.g. no existing
// cards) is a filled slot.
type UserProfile struct {
	// No omitempty on the slice and map fields: an empty-but-present value
	// (user holds no cards) must round-trip through storage as distinct
	// from null (slot not collected yet).
	MonthlyIncome     *float64           `json:"monthly_income"`
	SpendingHabits    map[string]float64 `json:"spending_habits"`
	PreferredBenefits []string           `json:"preferred_benefits"`
	ExistingCards     []string           `json:"existing_cards"`
	CreditScore       *CreditScore       `json:"credit_score"`
}

// TotalMonthlySpend sums all spending habit categories.
func (p *UserProfile) TotalMonthlySpend() float64 {
	total := 0.0
	for _, amount := range p.SpendingHabits {
		total += amount
	}
	return total
}

// WantsAnyBenefit reports whether the user declined to filter by benefit.
func (p *UserProfile) WantsAnyBenefit() bool {
	for _, tag := range p.PreferredBenefits {
		if tag == BenefitAny {
			return true
		}
	}
	return false
}

// PrefersBenefit reports whether the given normalized tag is among the user's
// preferred benefits. It does not apply the any-sentinel; callers that want
// "any matches everything" semantics should check WantsAnyBenefit first.
func (p *UserProfile) PrefersBenefit(tag string) bool {
	for _, t := range p.PreferredBenefits {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the profile. Updates are validated against a
// copy so a failed update never leaves a half-mutated profile behind.
func (p *UserProfile) Clone() *UserProfile {
	clone := &UserProfile{}
	if p.MonthlyIncome != nil {
		income := *p.MonthlyIncome
		clone.MonthlyIncome = &income
	}
	if p.SpendingHabits != nil {
		clone.SpendingHabits = make(map[string]float64, len(p.SpendingHabits))
		for category, amount := range p.SpendingHabits {
			clone.SpendingHabits[category] = amount
		}
	}
	if p.PreferredBenefits != nil {
		clone.PreferredBenefits = append([]string{}, p.PreferredBenefits...)
	}
	if p.ExistingCards != nil {
		clone.ExistingCards = append([]string{}, p.ExistingCards...)
	}
	if p.CreditScore != nil {
		score := *p.CreditScore
		clone.CreditScore = &score
	}
	return clone
}
