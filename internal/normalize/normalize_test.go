package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean_JSONCodeBlock(t *testing.T) {
	input := "```json\n{\"monthly_income\": 50000}\n```"
	assert.Equal(t, `{"monthly_income": 50000}`, Clean(input))
}

func TestClean_GenericCodeBlock(t *testing.T) {
	input := "```\n{\"monthly_income\": 50000}\n```"
	assert.Equal(t, `{"monthly_income": 50000}`, Clean(input))
}

func TestClean_SingleBackticks(t *testing.T) {
	input := "`{\"credit_score\": 750}`"
	assert.Equal(t, `{"credit_score": 750}`, Clean(input))
}

func TestClean_PlainInput(t *testing.T) {
	input := `  {"credit_score": 750}  `
	assert.Equal(t, `{"credit_score": 750}`, Clean(input))
}

func TestExtractObject_SurroundingProse(t *testing.T) {
	input := `Here is the update: {"monthly_income": 50000} hope that helps!`
	span, err := ExtractObject(input)
	require.NoError(t, err)
	assert.Equal(t, `{"monthly_income": 50000}`, span)
}

func TestExtractObject_NestedObject(t *testing.T) {
	input := `{"spending_habits": {"fuel": 2000, "dining": 1000}}`
	span, err := ExtractObject(input)
	require.NoError(t, err)
	assert.Equal(t, input, span)
}

func TestExtractObject_BracesInsideStrings(t *testing.T) {
	input := `{"name": "weird {card} name"} trailing`
	span, err := ExtractObject(input)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "weird {card} name"}`, span)
}

func TestExtractObject_NoObject(t *testing.T) {
	_, err := ExtractObject("not a json string")
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestExtractObject_Unbalanced(t *testing.T) {
	_, err := ExtractObject(`{"monthly_income": 50000`)
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestDecodeObject_FencedWithProse(t *testing.T) {
	input := "Sure! ```json\n{\"credit_score\": \"750\"}\n```"
	fields, err := DecodeObject(input)
	require.NoError(t, err)
	require.Contains(t, fields, "credit_score")
}

func TestDecodeObject_BrokenStructureRejected(t *testing.T) {
	// Balanced braces but syntactically broken content must not be guessed
	// at.
	_, err := DecodeObject(`{"monthly_income": 50000,}`)
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
}

func TestDecodeObject_Empty(t *testing.T) {
	_, err := DecodeObject("   ")
	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
}
