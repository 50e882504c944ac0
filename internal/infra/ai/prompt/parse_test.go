package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `{
  "score": 72,
  "review": "The function shadows a builtin.",
  "suggestions": ["Rename the variable 'list'"],
  "securityIssues": ["None found"],
  "complexity": {"time": "O(n)", "space": "O(n)"},
  "improvedCode": "def f(items): return sorted(items)",
  "explanation": "Renamed the shadowing variable."
}`

func TestParseReviewWellFormed(t *testing.T) {
	a, err := ParseReview(wellFormed)
	require.NoError(t, err)

	assert.Equal(t, 72, a.Score)
	assert.Equal(t, "The function shadows a builtin.", a.Review)
	assert.Equal(t, []string{"Rename the variable 'list'"}, a.Suggestions)
	assert.Equal(t, "O(n)", a.Complexity.Time)
	assert.Equal(t, "O(n)", a.Complexity.Space)
}

func TestParseReviewFencedOutput(t *testing.T) {
	raw := "Here is the analysis you asked for:\n```json\n" + wellFormed + "\n```\nLet me know if you need more."
	a, err := ParseReview(raw)
	require.NoError(t, err)
	assert.Equal(t, 72, a.Score)
}

func TestParseReviewMissingArraysNormalized(t *testing.T) {
	a, err := ParseReview(`{"score": 90, "review": "Looks fine."}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"None found"}, a.Suggestions)
	assert.Equal(t, []string{"None found"}, a.SecurityIssues)
	assert.Equal(t, "unknown", a.Complexity.Time)
	assert.Equal(t, "unknown", a.Complexity.Space)
}

func TestParseReviewScoreClamped(t *testing.T) {
	a, err := ParseReview(`{"score": 250, "review": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, 100, a.Score)

	a, err = ParseReview(`{"score": -3, "review": "x"}`)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Score)
}

func TestParseReviewMissingReview(t *testing.T) {
	_, err := ParseReview(`{"score": 90}`)
	assert.Error(t, err)
}

func TestParseReviewGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "I cannot analyze this code.", "{broken"} {
		_, err := ParseReview(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}
