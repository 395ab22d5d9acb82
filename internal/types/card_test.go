package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRewardType(t *testing.T) {
	assert.Equal(t, RewardCashback, NormalizeRewardType("Cashback"))
	assert.Equal(t, RewardTravelPoints, NormalizeRewardType("Travel Points"))
	assert.Equal(t, RewardTravelPoints, NormalizeRewardType("travel-points"))
	assert.Equal(t, RewardCoBranded, NormalizeRewardType("Co-branded"))
	assert.Equal(t, RewardFuel, NormalizeRewardType(" fuel "))
	assert.Equal(t, RewardType("premium"), NormalizeRewardType("Premium"))
}

func TestHasPerk_SubstringMatch(t *testing.T) {
	card := &CardRecord{
		SpecialPerks: []string{
			"Unlimited airport lounge access via Priority Pass",
			"1% fuel surcharge waiver",
		},
	}

	assert.True(t, card.HasPerk("lounge access"))
	assert.True(t, card.HasPerk("Fuel Surcharge"))
	assert.False(t, card.HasPerk("golf"))
	assert.False(t, card.HasPerk(""))
}

func TestTotalFees(t *testing.T) {
	card := &CardRecord{JoiningFee: 500, AnnualFee: 499}
	assert.Equal(t, 999.0, card.TotalFees())
}
