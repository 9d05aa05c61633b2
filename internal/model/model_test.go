package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrisisLevelRank(t *testing.T) {
	assert.Equal(t, 0, LevelNone.Rank())
	assert.Equal(t, 1, LevelLow.Rank())
	assert.Equal(t, 2, LevelMedium.Rank())

	// Critical and high share the top tier.
	assert.Equal(t, 3, LevelHigh.Rank())
	assert.Equal(t, 3, LevelCritical.Rank())

	assert.Equal(t, -1, LevelUnknown.Rank())
	assert.Equal(t, -1, CrisisLevel("nonsense").Rank())
}

func TestParseCrisisLevel(t *testing.T) {
	level, err := ParseCrisisLevel("high")
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, level)

	_, err = ParseCrisisLevel("catastrophic")
	require.Error(t, err)

	_, err = ParseCrisisLevel("")
	require.Error(t, err)
}

func TestPhraseAccepts_RankEquivalence(t *testing.T) {
	p := TestPhrase{Expected: []CrisisLevel{LevelHigh}}

	// Critical ranks the same as high, so either detection is acceptable.
	assert.True(t, p.Accepts(LevelHigh))
	assert.True(t, p.Accepts(LevelCritical))
	assert.False(t, p.Accepts(LevelMedium))
	assert.False(t, p.Accepts(LevelUnknown))
}

func TestPhraseExpectedRanks(t *testing.T) {
	p := TestPhrase{Expected: []CrisisLevel{LevelLow, LevelMedium, LevelHigh}}
	assert.Equal(t, 1, p.MinExpectedRank())
	assert.Equal(t, 3, p.MaxExpectedRank())
}

func TestPhraseValidate(t *testing.T) {
	valid := TestPhrase{ID: "p1", Message: "m", Category: "definite_high", Expected: []CrisisLevel{LevelHigh}}
	require.NoError(t, valid.Validate())

	assert.Error(t, TestPhrase{ID: "p2", Category: "c", Expected: []CrisisLevel{LevelHigh}}.Validate())
	assert.Error(t, TestPhrase{ID: "p3", Message: "m", Expected: []CrisisLevel{LevelHigh}}.Validate())
	assert.Error(t, TestPhrase{ID: "p4", Message: "m", Category: "c"}.Validate())
	assert.Error(t, TestPhrase{ID: "p5", Message: "m", Category: "c", Expected: []CrisisLevel{"bogus"}}.Validate())
}

func TestEnsembleWeightsNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input EnsembleWeights
	}{
		{"already valid", EnsembleWeights{Depression: 0.5, Sentiment: 0.2, Distress: 0.3}},
		{"negative component", EnsembleWeights{Depression: 0.6, Sentiment: -0.2, Distress: 0.3}},
		{"depression not dominant", EnsembleWeights{Depression: 0.1, Sentiment: 0.2, Distress: 0.7}},
		{"all zero", EnsembleWeights{}},
		{"unscaled", EnsembleWeights{Depression: 5, Sentiment: 2, Distress: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.Normalize()
			require.NoError(t, got.Validate(), "normalized weights %+v", got)

			sum := got.Depression + got.Sentiment + got.Distress
			assert.InDelta(t, 1.0, sum, 1e-9)
			assert.GreaterOrEqual(t, got.Depression, math.Max(got.Sentiment, got.Distress))
		})
	}
}

func TestEnsembleWeightsValidate(t *testing.T) {
	assert.NoError(t, EnsembleWeights{Depression: 0.5, Sentiment: 0.2, Distress: 0.3}.Validate())
	assert.Error(t, EnsembleWeights{Depression: 0.5, Sentiment: 0.2, Distress: 0.2}.Validate())
	assert.Error(t, EnsembleWeights{Depression: 0.2, Sentiment: 0.5, Distress: 0.3}.Validate())
}

func TestIndividualEvaluated(t *testing.T) {
	assert.False(t, Individual{}.Evaluated())
	assert.True(t, Individual{Fitness: 0.5}.Evaluated())
	assert.True(t, Individual{Fitness: -1.0}.Evaluated())

	assert.False(t, LabelSetIndividual{Name: "default"}.Evaluated())
	assert.True(t, LabelSetIndividual{Name: "default", Fitness: 0.5}.Evaluated())
}

func TestDefaultPolicies_CoverAllCategories(t *testing.T) {
	policies := DefaultPolicies()
	require.Len(t, policies, 7)

	for name, p := range policies {
		assert.Equal(t, name, p.Category)
		assert.Greater(t, p.TargetPassRate, 0.0)
		assert.LessOrEqual(t, p.TargetPassRate, 100.0)
	}

	assert.True(t, policies["definite_high"].Critical)
	assert.True(t, policies["maybe_high_medium"].Critical)
	assert.False(t, policies["definite_none"].Critical)
}

func TestRunSummaryAlert(t *testing.T) {
	summary := RunSummary{Categories: map[string]CategoryStats{
		"definite_high": {Critical: true, MetTarget: true},
		"definite_none": {Critical: false, MetTarget: false},
	}}
	assert.False(t, summary.Alert())

	summary.Categories["definite_high"] = CategoryStats{Critical: true, MetTarget: false}
	assert.True(t, summary.Alert())
}
