package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/card-advisor/internal/catalog"
	"github.com/jonathan/card-advisor/internal/config"
	"github.com/jonathan/card-advisor/internal/recommend"
	"github.com/jonathan/card-advisor/internal/types"
)

var (
	recommendIncome   float64
	recommendScore    string
	recommendBenefits []string
	recommendSpending []string
	recommendCards    []string
	recommendSeedFile string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Run the recommendation engine once",
	Long:  `Build a profile from flags, run it against the catalog seed, and print the ranked recommendations as JSON. Useful for trying out catalog or engine changes without a server.`,
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().Float64Var(&recommendIncome, "income", 0, "Monthly income")
	recommendCmd.Flags().StringVar(&recommendScore, "credit-score", "", "Credit score (300-900) or \"unknown\"")
	recommendCmd.Flags().StringSliceVar(&recommendBenefits, "benefit", nil, "Preferred benefit tag (repeatable; \"any\" for no preference)")
	recommendCmd.Flags().StringSliceVar(&recommendSpending, "spend", nil, "Monthly spending as category=amount (repeatable)")
	recommendCmd.Flags().StringSliceVar(&recommendCards, "card", nil, "Card already held (repeatable)")
	recommendCmd.Flags().StringVar(&recommendSeedFile, "file", "", "Seed JSON file (defaults to the embedded catalog)")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	profile, err := profileFromFlags()
	if err != nil {
		return err
	}

	path := recommendSeedFile
	if path == "" {
		path = cfg.CatalogSeedPath
	}
	cards, err := loadSeed(path)
	if err != nil {
		return err
	}

	income := 0.0
	if profile.MonthlyIncome != nil {
		income = *profile.MonthlyIncome
	}
	score := 0
	if profile.CreditScore != nil && !profile.CreditScore.Unknown {
		score = profile.CreditScore.Value
	}
	var benefitFilter []string
	if !profile.WantsAnyBenefit() {
		benefitFilter = profile.PreferredBenefits
	}
	candidates, err := catalog.NewStaticStore(cards).ByEligibility(cmd.Context(), income, score, benefitFilter)
	if err != nil {
		return err
	}

	engine := recommend.New(recommend.Config{
		FeeExemptionThreshold: cfg.FeeExemptionThreshold,
		MaxResults:            cfg.MaxResults,
	})
	recommendations := engine.Recommend(profile, candidates)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(recommendations)
}

func profileFromFlags() (*types.UserProfile, error) {
	profile := &types.UserProfile{}

	if recommendIncome > 0 {
		income := recommendIncome
		profile.MonthlyIncome = &income
	}
	if recommendScore != "" {
		if strings.EqualFold(recommendScore, "unknown") {
			profile.CreditScore = &types.CreditScore{Unknown: true}
		} else {
			value, err := strconv.Atoi(recommendScore)
			if err != nil {
				return nil, fmt.Errorf("invalid credit score %q", recommendScore)
			}
			profile.CreditScore = &types.CreditScore{Value: value}
		}
	}
	if len(recommendBenefits) > 0 {
		for _, tag := range recommendBenefits {
			profile.PreferredBenefits = append(profile.PreferredBenefits, strings.ToLower(strings.TrimSpace(tag)))
		}
	}
	if len(recommendSpending) > 0 {
		profile.SpendingHabits = map[string]float64{}
		for _, pair := range recommendSpending {
			category, amount, found := strings.Cut(pair, "=")
			if !found {
				return nil, fmt.Errorf("invalid spend %q, want category=amount", pair)
			}
			value, err := strconv.ParseFloat(amount, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid spend amount %q", amount)
			}
			profile.SpendingHabits[strings.ToLower(strings.TrimSpace(category))] = value
		}
	}
	if len(recommendCards) > 0 {
		profile.ExistingCards = recommendCards
	}

	return profile, nil
}
