package model

import "time"

// CategoryStats aggregates verdicts for one category within a run and
// compares the pass rate against the category's policy target.
type CategoryStats struct {
	Category       string  `json:"category"`
	Total          int     `json:"total"`
	Passed         int     `json:"passed"`
	PassRate       float64 `json:"pass_rate"`
	TargetPassRate float64 `json:"target_pass_rate"`
	MetTarget      bool    `json:"met_target"`
	Critical       bool    `json:"critical"`
	FalseNegatives int     `json:"false_negatives"`
	FalsePositives int     `json:"false_positives"`
	Errors         int     `json:"errors"`
	WeightedFails  float64 `json:"weighted_fails"`
}

// RunSummary rolls a full corpus validation run into whole-run statistics.
type RunSummary struct {
	ID               string                   `json:"id"`
	StartedAt        time.Time                `json:"started_at"`
	Duration         time.Duration            `json:"duration"`
	Total            int                      `json:"total"`
	Passed           int                      `json:"passed"`
	Failed           int                      `json:"failed"`
	PassRate         float64                  `json:"pass_rate"`
	AvgLatencyMS     float64                  `json:"avg_latency_ms"`
	CriticalFailures int                      `json:"critical_failures"`
	Grade            string                   `json:"grade"`
	Categories       map[string]CategoryStats `json:"categories"`
}

// Alert reports whether any critical category missed its target.
func (r RunSummary) Alert() bool {
	for _, c := range r.Categories {
		if c.Critical && !c.MetTarget {
			return true
		}
	}
	return false
}
