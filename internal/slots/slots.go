// Package slots tracks which required profile fields are still missing and
// validates incoming field updates. It is the only component allowed to write
// to a UserProfile.
package slots

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jonathan/card-advisor/internal/normalize"
	"github.com/jonathan/card-advisor/internal/types"
)

// Recognized slot field names, in canonical collection order.
const (
	FieldMonthlyIncome     = "monthly_income"
	FieldSpendingHabits    = "spending_habits"
	FieldPreferredBenefits = "preferred_benefits"
	FieldExistingCards     = "existing_cards"
	FieldCreditScore       = "credit_score"
)

// Order is the canonical slot sequence. Missing reports unset slots in this
// order so the conversational layer always asks for the earliest gap next.
var Order = []string{
	FieldMonthlyIncome,
	FieldSpendingHabits,
	FieldPreferredBenefits,
	FieldExistingCards,
	FieldCreditScore,
}

const (
	minCreditScore = 300
	maxCreditScore = 900
)

// Recognized reports whether field names a known slot.
func Recognized(field string) bool {
	for _, name := range Order {
		if name == field {
			return true
		}
	}
	return false
}

// Missing returns the slots not yet filled, in canonical order. An empty
// result signals the profile is complete.
func Missing(profile *types.UserProfile) []string {
	missing := []string{}
	for _, field := range Order {
		if !filled(profile, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// Complete reports whether every required slot is filled.
func Complete(profile *types.UserProfile) bool {
	return len(Missing(profile)) == 0
}

func filled(profile *types.UserProfile, field string) bool {
	switch field {
	case FieldMonthlyIncome:
		return profile.MonthlyIncome != nil
	case FieldSpendingHabits:
		return profile.SpendingHabits != nil
	case FieldPreferredBenefits:
		return profile.PreferredBenefits != nil
	case FieldExistingCards:
		return profile.ExistingCards != nil
	case FieldCreditScore:
		return profile.CreditScore != nil
	}
	return false
}

// Apply validates raw against field's domain rule and, on success, sets that
// one field on the profile. On any failure the profile is left untouched.
// Unknown fields return *UnknownFieldError, which callers should treat as
// upstream noise rather than a hard failure.
func Apply(profile *types.UserProfile, field string, raw json.RawMessage) error {
	switch field {
	case FieldMonthlyIncome:
		income, err := parseMonthlyIncome(raw)
		if err != nil {
			return err
		}
		profile.MonthlyIncome = &income
	case FieldSpendingHabits:
		habits, err := parseSpendingHabits(raw)
		if err != nil {
			return err
		}
		profile.SpendingHabits = habits
	case FieldPreferredBenefits:
		benefits, err := parsePreferredBenefits(raw)
		if err != nil {
			return err
		}
		profile.PreferredBenefits = benefits
	case FieldExistingCards:
		cards, err := parseExistingCards(raw)
		if err != nil {
			return err
		}
		profile.ExistingCards = cards
	case FieldCreditScore:
		score, err := parseCreditScore(raw)
		if err != nil {
			return err
		}
		profile.CreditScore = score
	default:
		return &UnknownFieldError{Field: field}
	}
	return nil
}

func parseMonthlyIncome(raw json.RawMessage) (float64, error) {
	income, err := normalize.Number(FieldMonthlyIncome, raw)
	if err != nil {
		return 0, err
	}
	if income <= 0 {
		return 0, &ValidationError{Field: FieldMonthlyIncome, Message: "must be a positive number"}
	}
	return income, nil
}

// parseSpendingHabits accepts either a category→amount object or a single
// "category: amount, category: amount" string, which it decomposes itself.
// Unparseable or negative entries are dropped individually; an update that
// yields no usable entry at all is rejected.
func parseSpendingHabits(raw json.RawMessage) (map[string]float64, error) {
	habits, err := normalize.NumberMap(FieldSpendingHabits, raw)
	if err != nil {
		s, serr := normalize.String(FieldSpendingHabits, raw)
		if serr != nil {
			return nil, err
		}
		habits = decomposeSpendingString(s)
	}

	for category, amount := range habits {
		if amount < 0 {
			delete(habits, category)
		}
	}
	if len(habits) == 0 {
		return nil, &ValidationError{Field: FieldSpendingHabits, Message: "no usable category amounts"}
	}
	return habits, nil
}

// decomposeSpendingString parses "fuel: 2000, groceries: 5000" style input.
func decomposeSpendingString(s string) map[string]float64 {
	habits := make(map[string]float64)
	for _, entry := range strings.Split(s, ",") {
		category, amountText, found := strings.Cut(entry, ":")
		if !found {
			continue
		}
		category = strings.ToLower(strings.TrimSpace(category))
		amount, err := strconv.ParseFloat(strings.TrimSpace(amountText), 64)
		if err != nil || category == "" {
			continue
		}
		habits[category] = amount
	}
	return habits
}

func parsePreferredBenefits(raw json.RawMessage) ([]string, error) {
	list, err := normalize.StringList(FieldPreferredBenefits, raw)
	if err != nil {
		return nil, err
	}

	benefits := []string{}
	seen := make(map[string]bool)
	for _, tag := range list {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		// "any" overrides every other tag: no preference filter at all.
		if tag == types.BenefitAny {
			return []string{types.BenefitAny}, nil
		}
		seen[tag] = true
		benefits = append(benefits, tag)
	}

	if len(benefits) == 0 {
		return nil, &ValidationError{Field: FieldPreferredBenefits, Message: "no benefit tags provided"}
	}
	return benefits, nil
}

func parseExistingCards(raw json.RawMessage) ([]string, error) {
	list, err := normalize.StringList(FieldExistingCards, raw)
	if err != nil {
		return nil, err
	}

	cards := []string{}
	for _, name := range list {
		switch strings.ToLower(name) {
		case "no", "none":
			// "no" means the user holds no cards; normalizes to the empty
			// set, which still marks the slot as answered.
			continue
		default:
			cards = append(cards, name)
		}
	}
	return cards, nil
}

func parseCreditScore(raw json.RawMessage) (*types.CreditScore, error) {
	if value, err := normalize.Integer(FieldCreditScore, raw); err == nil {
		if value < minCreditScore || value > maxCreditScore {
			return nil, &ValidationError{Field: FieldCreditScore, Message: "must be between 300 and 900"}
		}
		return &types.CreditScore{Value: value}, nil
	}

	s, err := normalize.String(FieldCreditScore, raw)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(s) == "unknown" {
		return &types.CreditScore{Unknown: true}, nil
	}
	return nil, &ValidationError{Field: FieldCreditScore, Message: "must be an integer or the literal \"unknown\""}
}
