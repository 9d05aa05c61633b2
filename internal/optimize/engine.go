package optimize

import (
	"fmt"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// Stop conditions shared by both search modes.
const (
	// fitnessCeiling stops a run early once fitness is near perfect;
	// further generations cannot buy meaningful improvement.
	fitnessCeiling = 0.97
	// plateauEpsilon is the minimum best-fitness gain over the plateau
	// window for the search to be considered still moving.
	plateauEpsilon = 0.001
)

// plateaued reports whether best fitness has improved by less than
// plateauEpsilon over the last window generations.
func plateaued(history []model.GenerationStats, window int) bool {
	if window <= 0 || len(history) < window {
		return false
	}
	first := history[len(history)-window].BestFitness
	last := history[len(history)-1].BestFitness
	return last-first < plateauEpsilon
}

// finalize computes the improvement percentage and deployment
// recommendation on a finished (or aborted) result.
func finalize(result *model.OptimizationResult, minImprovement float64) {
	if result.BaselineFitness > 0 {
		result.ImprovementPct = (result.BestFitness - result.BaselineFitness) / result.BaselineFitness * 100
	} else if result.BestFitness > 0 {
		result.ImprovementPct = 100
	}

	switch {
	case !result.Complete:
		result.Recommendation = "Search did not complete; best candidate shown is partial. Re-run before deploying."
	case result.ImprovementPct >= minImprovement:
		result.Recommendation = fmt.Sprintf(
			"Deploy the best candidate: %.1f%% fitness improvement over the current configuration (threshold %.1f%%).",
			result.ImprovementPct, minImprovement)
	case result.ImprovementPct > 0:
		result.Recommendation = fmt.Sprintf(
			"Keep the current configuration: %.1f%% improvement is below the %.1f%% deployment threshold.",
			result.ImprovementPct, minImprovement)
	default:
		result.Recommendation = "Keep the current configuration: no candidate beat the baseline."
	}
}
