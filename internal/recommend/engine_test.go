package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/card-advisor/internal/types"
)

func completeProfile() *types.UserProfile {
	income := 50000.0
	return &types.UserProfile{
		MonthlyIncome: &income,
		SpendingHabits: map[string]float64{
			"fuel":   2000,
			"dining": 1000,
		},
		PreferredBenefits: []string{"cashback"},
		ExistingCards:     []string{},
		CreditScore:       &types.CreditScore{Value: 750},
	}
}

func TestRecommend_CashbackScenario(t *testing.T) {
	// income=50000, spend fuel:2000 + dining:1000, one cashback card at 2%
	// with 500 annual fee: reward = 3000*12*0.02 = 720, net benefit 220.
	cards := []types.CardRecord{
		{
			Name:       "Everyday Cashback Card",
			RewardType: types.RewardCashback,
			RewardRate: 0.02,
			AnnualFee:  500,
			JoiningFee: 0,
		},
	}

	recs := New(DefaultConfig()).Recommend(completeProfile(), cards)
	require.Len(t, recs, 1)
	assert.Equal(t, "Everyday Cashback Card", recs[0].CardName)
	assert.InDelta(t, 220.0, recs[0].NetBenefit, 0.001)
	assert.Contains(t, recs[0].RewardSimulation, "720.00")

	foundCashbackReason := false
	for _, reason := range recs[0].KeyReasons {
		if strings.Contains(strings.ToLower(reason), "cashback") {
			foundCashbackReason = true
		}
	}
	assert.True(t, foundCashbackReason, "expected a cashback-related reason, got %v", recs[0].KeyReasons)
}

func TestRecommend_AnySentinelAddsEveryPerk(t *testing.T) {
	profile := completeProfile()
	profile.PreferredBenefits = []string{types.BenefitAny}

	cards := []types.CardRecord{
		{
			Name:         "Perky Card",
			RewardType:   types.RewardCashback,
			RewardRate:   0.02,
			SpecialPerks: []string{"airport lounge access", "fuel surcharge waiver"},
		},
	}

	recs := New(DefaultConfig()).Recommend(profile, cards)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].KeyReasons, "Includes airport lounge access.")
	assert.Contains(t, recs[0].KeyReasons, "Includes fuel surcharge waiver.")
}

func TestRecommend_FuelCardRewardsOnlyFuelSpend(t *testing.T) {
	cards := []types.CardRecord{
		{Name: "Pump Saver", RewardType: types.RewardFuel, RewardRate: 0.05},
	}

	recs := New(DefaultConfig()).Recommend(completeProfile(), cards)
	require.Len(t, recs, 1)
	// 2000 fuel * 12 * 0.05 = 1200; dining spend must not count.
	assert.InDelta(t, 1200.0, recs[0].NetBenefit, 0.001)
}

func TestRecommend_CoBrandedRewardsAffiliatedCategoryOnly(t *testing.T) {
	cards := []types.CardRecord{
		{
			Name:       "MegaFuel Co-branded Card",
			RewardType: types.RewardCoBranded,
			RewardRate: 0.04,
		},
	}

	recs := New(DefaultConfig()).Recommend(completeProfile(), cards)
	require.Len(t, recs, 1)
	// Card name mentions "fuel": 2000 * 12 * 0.04 = 960.
	assert.InDelta(t, 960.0, recs[0].NetBenefit, 0.001)
}

func TestRecommend_TravelAndRewardPointsDiscounted(t *testing.T) {
	profile := completeProfile()
	engine := New(DefaultConfig())

	travel := engine.Recommend(profile, []types.CardRecord{
		{Name: "Miles Card", RewardType: types.RewardTravelPoints, RewardRate: 0.02},
	})
	require.Len(t, travel, 1)
	assert.InDelta(t, 3000*12*0.02*0.5, travel[0].NetBenefit, 0.001)

	rewards := engine.Recommend(profile, []types.CardRecord{
		{Name: "Points Card", RewardType: types.RewardRewards, RewardRate: 0.02},
	})
	require.Len(t, rewards, 1)
	assert.InDelta(t, 3000*12*0.02*0.35, rewards[0].NetBenefit, 0.001)
}

func TestRecommend_UnrecognizedRewardTypeEarnsZero(t *testing.T) {
	cards := []types.CardRecord{
		{Name: "Mystery Card", RewardType: "premium", RewardRate: 0.1, AnnualFee: 100},
	}

	recs := New(DefaultConfig()).Recommend(completeProfile(), cards)
	// Zero reward, but fees are under the exemption threshold.
	require.Len(t, recs, 1)
	assert.InDelta(t, -100.0, recs[0].NetBenefit, 0.001)
}

func TestRecommend_EligibilityFilter(t *testing.T) {
	cards := []types.CardRecord{
		// Negative net benefit, fees above threshold: dropped.
		{Name: "Pricey Card", RewardType: types.RewardCashback, RewardRate: 0.001, JoiningFee: 5000, AnnualFee: 5000},
		// Negative net benefit, fees within threshold: kept.
		{Name: "Cheap Card", RewardType: types.RewardCashback, RewardRate: 0.001, JoiningFee: 0, AnnualFee: 500},
	}

	recs := New(DefaultConfig()).Recommend(completeProfile(), cards)
	require.Len(t, recs, 1)
	assert.Equal(t, "Cheap Card", recs[0].CardName)
}

func TestRecommend_FeeThresholdConfigurable(t *testing.T) {
	cards := []types.CardRecord{
		{Name: "Mid Fee Card", RewardType: types.RewardCashback, RewardRate: 0.001, AnnualFee: 2000},
	}

	strict := New(Config{FeeExemptionThreshold: 100})
	assert.Empty(t, strict.Recommend(completeProfile(), cards))

	lenient := New(Config{FeeExemptionThreshold: 5000})
	assert.Len(t, lenient.Recommend(completeProfile(), cards), 1)
}

func TestRecommend_DuplicateNamesKeepHigherNetBenefit(t *testing.T) {
	cards := []types.CardRecord{
		{Name: "X", RewardType: types.RewardCashback, RewardRate: 0.01},
		{Name: "X", RewardType: types.RewardCashback, RewardRate: 0.03},
	}

	recs := New(DefaultConfig()).Recommend(completeProfile(), cards)
	require.Len(t, recs, 1)
	assert.Equal(t, "X", recs[0].CardName)
	assert.InDelta(t, 3000*12*0.03, recs[0].NetBenefit, 0.001)
}

func TestRecommend_TruncatesToMaxResults(t *testing.T) {
	cards := make([]types.CardRecord, 0, 8)
	rates := []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08}
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for i, rate := range rates {
		cards = append(cards, types.CardRecord{
			Name:       names[i],
			RewardType: types.RewardCashback,
			RewardRate: rate,
		})
	}

	recs := New(DefaultConfig()).Recommend(completeProfile(), cards)
	require.Len(t, recs, 5)
	assert.Equal(t, "H", recs[0].CardName)
}

func TestRecommend_RankingNonIncreasing(t *testing.T) {
	cards := []types.CardRecord{
		{Name: "Low", RewardType: types.RewardCashback, RewardRate: 0.01},
		{Name: "High", RewardType: types.RewardCashback, RewardRate: 0.05},
		{Name: "Mid", RewardType: types.RewardCashback, RewardRate: 0.03},
	}

	recs := New(DefaultConfig()).Recommend(completeProfile(), cards)
	require.Len(t, recs, 3)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].NetBenefit, recs[i].NetBenefit)
	}
}

func TestRecommend_TiesKeepCatalogOrder(t *testing.T) {
	cards := []types.CardRecord{
		{Name: "First", RewardType: types.RewardCashback, RewardRate: 0.02},
		{Name: "Second", RewardType: types.RewardCashback, RewardRate: 0.02},
	}

	engine := New(DefaultConfig())
	recs := engine.Recommend(completeProfile(), cards)
	require.Len(t, recs, 2)
	assert.Equal(t, "First", recs[0].CardName)
	assert.Equal(t, "Second", recs[1].CardName)
}

func TestRecommend_Deterministic(t *testing.T) {
	cards := []types.CardRecord{
		{Name: "A", RewardType: types.RewardCashback, RewardRate: 0.02, SpecialPerks: []string{"lounge access"}},
		{Name: "B", RewardType: types.RewardTravelPoints, RewardRate: 0.04},
		{Name: "C", RewardType: types.RewardFuel, RewardRate: 0.05},
	}
	profile := completeProfile()
	profile.PreferredBenefits = []string{types.BenefitAny}

	engine := New(DefaultConfig())
	first := engine.Recommend(profile, cards)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, engine.Recommend(profile, cards))
	}
}

func TestRecommend_IncompleteProfileTotal(t *testing.T) {
	// Missing fields are treated as zero/empty rather than failing.
	cards := []types.CardRecord{
		{Name: "Any Card", RewardType: types.RewardCashback, RewardRate: 0.02, AnnualFee: 100},
	}

	recs := New(DefaultConfig()).Recommend(&types.UserProfile{}, cards)
	require.Len(t, recs, 1)
	assert.InDelta(t, -100.0, recs[0].NetBenefit, 0.001)
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	recs := New(DefaultConfig()).Recommend(completeProfile(), nil)
	assert.Empty(t, recs)
}

func TestRecommend_DoesNotMutateCatalog(t *testing.T) {
	cards := []types.CardRecord{
		{Name: "A", RewardType: types.RewardCashback, RewardRate: 0.02, SpecialPerks: []string{"lounge access"}},
	}
	before := cards[0]

	New(DefaultConfig()).Recommend(completeProfile(), cards)
	assert.Equal(t, before, cards[0])
}
