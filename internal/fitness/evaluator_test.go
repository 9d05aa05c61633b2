package fitness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
)

// stubClassifier returns canned results keyed by message.
type stubClassifier struct {
	results map[string]model.ClassificationResult
	errs    map[string]error
	calls   int
}

func (s *stubClassifier) Health(_ context.Context) service.HealthStatus {
	return service.StatusHealthy
}

func (s *stubClassifier) Analyze(_ context.Context, message, _, _ string) (model.ClassificationResult, error) {
	s.calls++
	if err, ok := s.errs[message]; ok {
		return model.ClassificationResult{}, err
	}
	return s.results[message], nil
}

// stubAdmin records administrative calls and can be told to refuse them.
type stubAdmin struct {
	refuseWeights bool
	refuseSwitch  bool
	log           []string
}

func (s *stubAdmin) ApplyWeights(_ context.Context, w model.EnsembleWeights, mode string) bool {
	s.log = append(s.log, "weights")
	return !s.refuseWeights
}

func (s *stubAdmin) SwitchLabelSet(_ context.Context, name string) bool {
	s.log = append(s.log, "switch:"+name)
	return !s.refuseSwitch
}

func (s *stubAdmin) CurrentLabelSet(_ context.Context) (string, error) { return "default", nil }
func (s *stubAdmin) ListLabelSets(_ context.Context) ([]string, error) {
	return []string{"default"}, nil
}
func (s *stubAdmin) RefreshAfterRestore(_ context.Context) bool {
	s.log = append(s.log, "refresh")
	return true
}

func highPhrase(id, message string) model.TestPhrase {
	return model.TestPhrase{
		ID:       id,
		Message:  message,
		Category: "definite_high",
		Expected: []model.CrisisLevel{model.LevelHigh},
	}
}

func fastConfig() Config {
	return Config{TargetLatencyMS: 500}
}

func TestSweep_ErroredPhraseCountsIncorrect(t *testing.T) {
	dataset := []model.TestPhrase{
		highPhrase("p1", "m1"),
		highPhrase("p2", "m2"),
		highPhrase("p3", "m3"),
		highPhrase("p4", "m4"),
	}

	classifier := &stubClassifier{
		results: map[string]model.ClassificationResult{
			"m1": {Level: model.LevelHigh, Latency: 100 * time.Millisecond},
			"m2": {Level: model.LevelHigh, Latency: 100 * time.Millisecond},
			"m3": {Level: model.LevelHigh, Latency: 100 * time.Millisecond},
		},
		errs: map[string]error{
			"m4": errors.New("connection reset after 3 attempts"),
		},
	}

	eval := New(classifier, &stubAdmin{}, dataset, model.DefaultPolicies(), fastConfig())

	metrics, verdicts, err := eval.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, metrics.Total)
	assert.Equal(t, 3, metrics.Correct)
	assert.Equal(t, 1, metrics.Errors)
	assert.InDelta(t, 0.75, metrics.Accuracy, 1e-9)
	assert.Len(t, verdicts, 4)
	assert.Equal(t, model.DirectionError, verdicts[3].Direction)
}

func TestSweep_Idempotent(t *testing.T) {
	dataset := []model.TestPhrase{
		highPhrase("p1", "m1"),
		highPhrase("p2", "m2"),
	}
	classifier := &stubClassifier{
		results: map[string]model.ClassificationResult{
			"m1": {Level: model.LevelHigh, Latency: 50 * time.Millisecond},
			"m2": {Level: model.LevelMedium, Latency: 70 * time.Millisecond},
		},
	}

	eval := New(classifier, &stubAdmin{}, dataset, model.DefaultPolicies(), fastConfig())

	first, _, err := eval.Sweep(context.Background())
	require.NoError(t, err)
	second, _, err := eval.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSweep_CorpusOrderPreserved(t *testing.T) {
	dataset := []model.TestPhrase{
		highPhrase("p1", "m1"),
		highPhrase("p2", "m2"),
		highPhrase("p3", "m3"),
	}
	classifier := &stubClassifier{
		results: map[string]model.ClassificationResult{
			"m1": {Level: model.LevelHigh},
			"m2": {Level: model.LevelHigh},
			"m3": {Level: model.LevelHigh},
		},
	}

	eval := New(classifier, &stubAdmin{}, dataset, model.DefaultPolicies(), fastConfig())
	_, verdicts, err := eval.Sweep(context.Background())
	require.NoError(t, err)

	require.Len(t, verdicts, 3)
	for i, v := range verdicts {
		assert.Equal(t, dataset[i].ID, v.Phrase.ID)
	}
}

func TestSweep_EmptyDatasetIsInvariantViolation(t *testing.T) {
	eval := New(&stubClassifier{}, &stubAdmin{}, nil, model.DefaultPolicies(), fastConfig())
	_, _, err := eval.Sweep(context.Background())
	require.Error(t, err)
}

func TestFitness_LatencyPenalty(t *testing.T) {
	eval := New(&stubClassifier{}, &stubAdmin{}, nil, model.DefaultPolicies(), Config{TargetLatencyMS: 500})

	within := model.Metrics{F1: 0.9, AvgLatencyMS: 400}
	assert.InDelta(t, 0.9, eval.Fitness(within), 1e-9)

	over := model.Metrics{F1: 0.9, AvgLatencyMS: 700}
	// 200ms over target at 0.001 per ms.
	assert.InDelta(t, 0.7, eval.Fitness(over), 1e-9)
}

func TestEvaluateWeights_AdministrativeFailureFloorsFitness(t *testing.T) {
	dataset := []model.TestPhrase{highPhrase("p1", "m1")}
	admin := &stubAdmin{refuseWeights: true}
	eval := New(&stubClassifier{}, admin, dataset, model.DefaultPolicies(), fastConfig())

	ind := &model.Individual{
		Mode:    "weighted_average",
		Weights: model.EnsembleWeights{Depression: 0.5, Sentiment: 0.2, Distress: 0.3},
	}

	err := eval.EvaluateWeights(context.Background(), ind, false)
	require.Error(t, err)
	assert.InDelta(t, FitnessFloor, ind.Fitness, 1e-9)
}

func TestEvaluateLabelSet_FillsMetrics(t *testing.T) {
	dataset := []model.TestPhrase{highPhrase("p1", "m1")}
	classifier := &stubClassifier{
		results: map[string]model.ClassificationResult{
			"m1": {Level: model.LevelHigh, Latency: 80 * time.Millisecond},
		},
	}
	eval := New(classifier, &stubAdmin{}, dataset, model.DefaultPolicies(), fastConfig())

	ind := &model.LabelSetIndividual{Name: "enhanced_v2"}
	require.NoError(t, eval.EvaluateLabelSet(context.Background(), ind, false))

	require.NotNil(t, ind.Metrics)
	assert.True(t, ind.Evaluated())
	assert.InDelta(t, 1.0, ind.Metrics.Accuracy, 1e-9)
	assert.Greater(t, ind.Fitness, 0.0)
}

func TestReduce_DirectionCounts(t *testing.T) {
	verdicts := []model.Verdict{
		{Pass: true},
		{Pass: false, Direction: model.DirectionFalsePositive, Weight: model.WeightFalsePositive},
		{Pass: false, Direction: model.DirectionFalseNegative, Weight: model.WeightFalseNegative},
		{Pass: false, Direction: model.DirectionError, Weight: model.WeightError},
	}

	m := Reduce(verdicts)
	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 1, m.Correct)
	assert.Equal(t, 1, m.Errors)
	assert.InDelta(t, 0.25, m.Accuracy, 1e-9)
	// tp=1, fp=1, fn=2 under the binary correct/incorrect proxy.
	assert.InDelta(t, 0.5, m.Precision, 1e-9)
	assert.InDelta(t, 1.0/3.0, m.Recall, 1e-9)
}
