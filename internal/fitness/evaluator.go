// Package fitness runs full dataset sweeps against the classifier under a
// candidate configuration and reduces the verdicts to a latency-penalized
// fitness scalar.
package fitness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/common"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/verdict"
)

// FitnessFloor is assigned to a candidate whose configuration the
// classifier rejected. It sorts below every legitimately evaluated
// individual and below the unevaluated sentinel.
const FitnessFloor = -1.0

// penaltyPerMS is the linear fitness penalty per millisecond of average
// latency above the performance target.
const penaltyPerMS = 0.001

// Identity the evaluator presents to the classifier on analyze calls.
const (
	sweepUserID    = "ash_thrash_eval"
	sweepChannelID = "ash_thrash_harness"
)

// Config tunes the evaluator.
type Config struct {
	TargetLatencyMS float64
	// SettleBaseline is waited after applying the baseline configuration;
	// SettleGeneration after each candidate. The baseline settle is longer
	// because weight and label-set propagation inside the classifier may
	// be asynchronous on a cold service.
	SettleBaseline   time.Duration
	SettleGeneration time.Duration
}

// DefaultConfig returns the default evaluator tuning.
func DefaultConfig() Config {
	return Config{
		TargetLatencyMS:  500,
		SettleBaseline:   10 * time.Second,
		SettleGeneration: 3 * time.Second,
	}
}

// Evaluator sweeps the dataset through the classifier and aggregates
// verdicts into metrics.
type Evaluator struct {
	classifier service.Classifier
	admin      service.Admin
	dataset    []model.TestPhrase
	policies   map[string]model.CategoryPolicy
	cfg        Config
	sleep      func(time.Duration)
}

// New creates a fitness evaluator over a fixed dataset.
func New(classifier service.Classifier, admin service.Admin, dataset []model.TestPhrase, policies map[string]model.CategoryPolicy, cfg Config) *Evaluator {
	return &Evaluator{
		classifier: classifier,
		admin:      admin,
		dataset:    dataset,
		policies:   policies,
		cfg:        cfg,
		sleep:      time.Sleep,
	}
}

// EvaluateWeights applies a candidate weight configuration and sweeps the
// dataset, filling in the individual's fitness and metrics. A rejected
// administrative call floors the candidate's fitness and returns
// common.ErrAdministrative; the search engine decides whether to continue.
func (e *Evaluator) EvaluateWeights(ctx context.Context, ind *model.Individual, baseline bool) error {
	if !e.admin.ApplyWeights(ctx, ind.Weights, ind.Mode) {
		ind.Fitness = FitnessFloor
		return fmt.Errorf("%w: set-weights refused", common.ErrAdministrative)
	}

	e.settle(baseline)

	metrics, _, err := e.Sweep(ctx)
	if err != nil {
		return err
	}

	ind.Metrics = &metrics
	ind.AvgLatencyMS = metrics.AvgLatencyMS
	ind.Fitness = e.Fitness(metrics)
	return nil
}

// EvaluateLabelSet switches the classifier to a candidate label set and
// sweeps the dataset, filling in the individual's fitness and metrics.
func (e *Evaluator) EvaluateLabelSet(ctx context.Context, ind *model.LabelSetIndividual, baseline bool) error {
	if !e.admin.SwitchLabelSet(ctx, ind.Name) {
		ind.Fitness = FitnessFloor
		return fmt.Errorf("%w: label set switch refused for %q", common.ErrAdministrative, ind.Name)
	}

	e.settle(baseline)

	metrics, _, err := e.Sweep(ctx)
	if err != nil {
		return err
	}

	ind.Metrics = &metrics
	ind.AvgLatencyMS = metrics.AvgLatencyMS
	ind.Fitness = e.Fitness(metrics)
	return nil
}

// Sweep streams every phrase through the classifier in corpus order and
// aggregates the verdicts. Per-phrase API failures count as incorrect
// classifications rather than being excluded; they can be retried by the
// client but never silently vanish from the aggregate.
func (e *Evaluator) Sweep(ctx context.Context) (model.Metrics, []model.Verdict, error) {
	if len(e.dataset) == 0 {
		return model.Metrics{}, nil, fmt.Errorf("%w: empty dataset", common.ErrInvariant)
	}

	verdicts := make([]model.Verdict, 0, len(e.dataset))
	var latencySum time.Duration
	var timed int

	for i, phrase := range e.dataset {
		select {
		case <-ctx.Done():
			return model.Metrics{}, nil, ctx.Err()
		default:
		}

		result, err := e.classifier.Analyze(ctx, phrase.Message, sweepUserID, sweepChannelID)
		if err != nil {
			slog.Warn("Analyze failed, counting phrase as incorrect",
				"phrase", phrase.ID,
				"error", err)
			result = model.ClassificationResult{Err: err}
		} else {
			latencySum += result.Latency
			timed++
		}

		policy, ok := e.policies[phrase.Category]
		if !ok {
			return model.Metrics{}, nil, fmt.Errorf("%w: no policy for category %q", common.ErrInvariant, phrase.Category)
		}

		verdicts = append(verdicts, verdict.Evaluate(phrase, result, policy))

		if (i+1)%25 == 0 {
			slog.Debug("Sweep progress", "done", i+1, "total", len(e.dataset))
		}
	}

	metrics := Reduce(verdicts)
	if timed > 0 {
		metrics.AvgLatencyMS = float64(latencySum.Milliseconds()) / float64(timed)
	}
	return metrics, verdicts, nil
}

// Reduce aggregates verdicts into metrics (latency excluded; the sweep
// fills that in from observed round trips).
func Reduce(verdicts []model.Verdict) model.Metrics {
	m := model.Metrics{
		Total:       len(verdicts),
		PerCategory: make(map[string]float64),
	}

	var fp, fn int
	catTotal := make(map[string]int)
	catCorrect := make(map[string]int)

	for _, v := range verdicts {
		catTotal[v.Phrase.Category]++
		if v.Pass {
			m.Correct++
			catCorrect[v.Phrase.Category]++
			continue
		}
		switch v.Direction {
		case model.DirectionFalsePositive:
			fp++
		case model.DirectionError:
			m.Errors++
			fn++
		default:
			fn++
		}
	}

	if m.Total > 0 {
		m.Accuracy = float64(m.Correct) / float64(m.Total)
	}
	m.Precision = Precision(m.Correct, fp)
	m.Recall = Recall(m.Correct, fn)
	m.F1 = F1(m.Precision, m.Recall)

	for cat, total := range catTotal {
		m.PerCategory[cat] = float64(catCorrect[cat]) / float64(total)
	}

	return m
}

// Fitness converts metrics into the scalar the search engine maximizes:
// the accuracy-proxy F1 minus a linear latency penalty above the target.
func (e *Evaluator) Fitness(m model.Metrics) float64 {
	f := m.F1
	if e.cfg.TargetLatencyMS > 0 && m.AvgLatencyMS > e.cfg.TargetLatencyMS {
		f -= (m.AvgLatencyMS - e.cfg.TargetLatencyMS) * penaltyPerMS
	}
	return f
}

func (e *Evaluator) settle(baseline bool) {
	d := e.cfg.SettleGeneration
	if baseline {
		d = e.cfg.SettleBaseline
	}
	if d > 0 {
		e.sleep(d)
	}
}
