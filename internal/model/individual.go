package model

import (
	"fmt"
	"math"
)

// FitnessUnevaluated is the sentinel fitness of an individual that has not
// been run through the fitness evaluator this generation.
const FitnessUnevaluated = 0.0

// weightTolerance bounds floating point drift when checking the sum
// invariant.
const weightTolerance = 1e-6

// EnsembleWeights are the three classifier ensemble weights. The domain
// invariant is that they sum to 1.0 and the depression model's weight is
// the maximum of the three.
type EnsembleWeights struct {
	Depression float64 `json:"depression_weight"`
	Sentiment  float64 `json:"sentiment_weight"`
	Distress   float64 `json:"distress_weight"`
}

// Normalize clamps negatives, restores depression dominance and rescales
// the weights to sum to 1.0. Called after every mutation and crossover
// before a child is admitted to the next generation.
func (w EnsembleWeights) Normalize() EnsembleWeights {
	const floor = 0.01

	if w.Depression < floor {
		w.Depression = floor
	}
	if w.Sentiment < floor {
		w.Sentiment = floor
	}
	if w.Distress < floor {
		w.Distress = floor
	}

	// Redistribute so the depression weight dominates before rescaling;
	// scaling preserves the ordering.
	if other := math.Max(w.Sentiment, w.Distress); w.Depression < other {
		w.Depression = other + 0.05
	}

	sum := w.Depression + w.Sentiment + w.Distress
	w.Depression /= sum
	w.Sentiment /= sum
	w.Distress /= sum
	return w
}

// Validate checks the sum and dominance invariants.
func (w EnsembleWeights) Validate() error {
	sum := w.Depression + w.Sentiment + w.Distress
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %.6f", sum)
	}
	if w.Depression < 0 || w.Sentiment < 0 || w.Distress < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	if w.Depression+weightTolerance < w.Sentiment || w.Depression+weightTolerance < w.Distress {
		return fmt.Errorf("depression weight %.4f must dominate sentiment %.4f and distress %.4f",
			w.Depression, w.Sentiment, w.Distress)
	}
	return nil
}

// Individual is one candidate solution in the weight search.
type Individual struct {
	Mode         string          `json:"ensemble_mode"`
	Weights      EnsembleWeights `json:"weights"`
	Fitness      float64         `json:"fitness"`
	AvgLatencyMS float64         `json:"avg_latency_ms"`
	Metrics      *Metrics        `json:"metrics,omitempty"`
}

// Evaluated reports whether this individual carries a fitness from the
// current run.
func (i Individual) Evaluated() bool {
	return i.Fitness != FitnessUnevaluated
}

// LabelSetIndividual is one candidate solution in the label-set search:
// the name of a discrete label-set configuration known to the classifier.
type LabelSetIndividual struct {
	Name         string   `json:"label_set"`
	Fitness      float64  `json:"fitness"`
	AvgLatencyMS float64  `json:"avg_latency_ms"`
	Metrics      *Metrics `json:"metrics,omitempty"`
}

// Evaluated reports whether this individual carries a fitness from the
// current run.
func (i LabelSetIndividual) Evaluated() bool {
	return i.Fitness != FitnessUnevaluated
}
