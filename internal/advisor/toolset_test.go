package advisor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/card-advisor/internal/catalog"
	"github.com/jonathan/card-advisor/internal/normalize"
	"github.com/jonathan/card-advisor/internal/recommend"
	"github.com/jonathan/card-advisor/internal/session"
	"github.com/jonathan/card-advisor/internal/slots"
	"github.com/jonathan/card-advisor/internal/types"
)

func newTestToolset(t *testing.T, cards []types.CardRecord) (*Toolset, string) {
	t.Helper()
	tools := NewToolset(
		session.NewMemoryStore(),
		catalog.NewStaticStore(cards),
		recommend.New(recommend.DefaultConfig()),
	)
	id, err := tools.CreateSession(context.Background())
	require.NoError(t, err)
	return tools, id
}

func TestApplyUpdate_SingleField(t *testing.T) {
	tools, id := newTestToolset(t, nil)
	ctx := context.Background()

	applied, err := tools.ApplyUpdate(ctx, id, `{"monthly_income": 50000}`)
	require.NoError(t, err)
	assert.Equal(t, []string{slots.FieldMonthlyIncome}, applied)

	missing, err := tools.MissingFields(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, missing, slots.FieldMonthlyIncome)
}

func TestApplyUpdate_MalformedPayloadLeavesProfileUnchanged(t *testing.T) {
	tools, id := newTestToolset(t, nil)
	ctx := context.Background()

	_, err := tools.ApplyUpdate(ctx, id, "not a json string")
	var malformed *normalize.MalformedError
	require.ErrorAs(t, err, &malformed)

	missing, err := tools.MissingFields(ctx, id)
	require.NoError(t, err)
	assert.Len(t, missing, 5)
}

func TestApplyUpdate_FencedPayload(t *testing.T) {
	tools, id := newTestToolset(t, nil)

	applied, err := tools.ApplyUpdate(context.Background(), id, "```json\n{\"credit_score\": 750}\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{slots.FieldCreditScore}, applied)
}

func TestApplyUpdate_ValidationFailureAtomic(t *testing.T) {
	tools, id := newTestToolset(t, nil)
	ctx := context.Background()

	// Two fields in one payload, the second invalid: neither may land.
	_, err := tools.ApplyUpdate(ctx, id, `{"monthly_income": 50000, "credit_score": 99}`)
	var validation *slots.ValidationError
	require.ErrorAs(t, err, &validation)

	missing, err := tools.MissingFields(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, missing, slots.FieldMonthlyIncome)
	assert.Contains(t, missing, slots.FieldCreditScore)
}

func TestApplyUpdate_UnknownFieldsSkipped(t *testing.T) {
	tools, id := newTestToolset(t, nil)

	applied, err := tools.ApplyUpdate(context.Background(), id, `{"monthly_income": 50000, "mood": "great"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{slots.FieldMonthlyIncome}, applied)
}

func TestApplyUpdate_OnlyUnknownFields(t *testing.T) {
	tools, id := newTestToolset(t, nil)

	_, err := tools.ApplyUpdate(context.Background(), id, `{"mood": "great"}`)
	var validation *slots.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestUpdateProfileField_AlwaysReturnsText(t *testing.T) {
	tools, id := newTestToolset(t, nil)
	ctx := context.Background()

	ok := tools.UpdateProfileField(ctx, id, `{"monthly_income": 50000}`)
	assert.Contains(t, ok, "updated successfully")

	bad := tools.UpdateProfileField(ctx, id, "not a json string")
	assert.Contains(t, bad, "Error:")
}

func eligibleCashbackCard() types.CardRecord {
	return types.CardRecord{
		Name:                   "Everyday Cashback Card",
		RewardType:             types.RewardCashback,
		RewardRate:             0.02,
		AnnualFee:              500,
		EligibilityIncome:      20000,
		EligibilityCreditScore: 650,
		SpecialPerks:           []string{"5% cashback on online spends"},
		ImageURL:               "https://cards.example/everyday.png",
		AffiliateLink:          "#",
	}
}

func fillProfile(t *testing.T, tools *Toolset, id string) {
	t.Helper()
	ctx := context.Background()
	for _, payload := range []string{
		`{"monthly_income": 50000}`,
		`{"spending_habits": {"fuel": 2000, "dining": 1000}}`,
		`{"preferred_benefits": "cashback"}`,
		`{"existing_cards": "no"}`,
		`{"credit_score": 750}`,
	} {
		_, err := tools.ApplyUpdate(ctx, id, payload)
		require.NoError(t, err)
	}
}

func TestRecommendations_EndToEnd(t *testing.T) {
	tools, id := newTestToolset(t, []types.CardRecord{eligibleCashbackCard()})
	fillProfile(t, tools, id)

	recs, err := tools.Recommendations(context.Background(), id,
		`{"user_income": 50000, "user_credit_score": 750, "preferred_benefits": "cashback"}`)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Everyday Cashback Card", recs[0].CardName)
	assert.InDelta(t, 220.0, recs[0].NetBenefit, 0.001)
}

func TestRecommendations_UnknownCreditScoreWidensFilter(t *testing.T) {
	card := eligibleCashbackCard()
	card.EligibilityCreditScore = 800
	tools, id := newTestToolset(t, []types.CardRecord{card})
	fillProfile(t, tools, id)

	recs, err := tools.Recommendations(context.Background(), id,
		`{"user_income": 50000, "user_credit_score": "unknown", "preferred_benefits": "cashback"}`)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestRecommendations_AnyBenefitSkipsCatalogNarrowing(t *testing.T) {
	card := eligibleCashbackCard()
	card.SpecialPerks = []string{"airport lounge access"}
	tools, id := newTestToolset(t, []types.CardRecord{card})
	fillProfile(t, tools, id)

	recs, err := tools.Recommendations(context.Background(), id,
		`{"user_income": 50000, "user_credit_score": 750, "preferred_benefits": "any"}`)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].KeyReasons, "Includes airport lounge access.")
}

func TestRecommendations_PayloadTypeMismatch(t *testing.T) {
	tools, id := newTestToolset(t, []types.CardRecord{eligibleCashbackCard()})
	fillProfile(t, tools, id)

	_, err := tools.Recommendations(context.Background(), id,
		`{"user_income": "plenty", "user_credit_score": 750}`)
	var mismatch *normalize.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "user_income", mismatch.Field)
}

func TestRecommendations_ReadOnlyOverSession(t *testing.T) {
	tools, id := newTestToolset(t, []types.CardRecord{eligibleCashbackCard()})
	fillProfile(t, tools, id)
	ctx := context.Background()

	before, err := tools.sessions.Get(ctx, id)
	require.NoError(t, err)

	_, err = tools.Recommendations(ctx, id, `{"user_income": 99999, "user_credit_score": 800}`)
	require.NoError(t, err)

	after, err := tools.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGetRecommendations_StableJSONShape(t *testing.T) {
	tools, id := newTestToolset(t, []types.CardRecord{eligibleCashbackCard()})
	fillProfile(t, tools, id)

	out := tools.GetRecommendations(context.Background(), id,
		`{"user_income": 50000, "user_credit_score": 750, "preferred_benefits": "cashback"}`)

	var decoded []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	for _, key := range []string{"card_name", "image_url", "key_reasons", "reward_simulation", "net_benefit", "affiliate_link"} {
		assert.Contains(t, decoded[0], key)
	}
}
