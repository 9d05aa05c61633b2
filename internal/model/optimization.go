package model

import "time"

// OptimizationKind distinguishes the two search modes.
type OptimizationKind string

// Optimization kinds.
const (
	OptimizeWeights   OptimizationKind = "weights"
	OptimizeLabelSets OptimizationKind = "label_sets"
)

// GenerationStats is one entry in the generation-by-generation history of a
// search run.
type GenerationStats struct {
	Generation   int              `json:"generation"`
	BestFitness  float64          `json:"best_fitness"`
	AvgFitness   float64          `json:"avg_fitness"`
	Diversity    float64          `json:"diversity"`
	BestWeights  *EnsembleWeights `json:"best_weights,omitempty"`
	BestLabelSet string           `json:"best_label_set,omitempty"`
}

// OptimizationResult is the finished-run surface consumed by reporting and
// persistence collaborators. A failed run still carries the best candidate
// found before the failure, with Complete set false, so callers can tell
// "no improvement found" apart from "search could not run".
type OptimizationResult struct {
	RunID           string            `json:"run_id"`
	Kind            OptimizationKind  `json:"kind"`
	StartedAt       time.Time         `json:"started_at"`
	Duration        time.Duration     `json:"duration"`
	Generations     int               `json:"generations"`
	BaselineFitness float64           `json:"baseline_fitness"`
	BaselineMetrics Metrics           `json:"baseline_metrics"`
	BestFitness     float64           `json:"best_fitness"`
	BestMetrics     Metrics           `json:"best_metrics"`
	BestWeights     *EnsembleWeights  `json:"best_weights,omitempty"`
	BestMode        string            `json:"best_mode,omitempty"`
	BestLabelSet    string            `json:"best_label_set,omitempty"`
	ImprovementPct  float64           `json:"improvement_pct"`
	Recommendation  string            `json:"recommendation"`
	History         []GenerationStats `json:"history"`
	Complete        bool              `json:"complete"`
}
