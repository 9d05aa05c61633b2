package model

// CategoryPolicy describes how verdicts are judged for one test category.
// Policies are static configuration: exactly one per category name, loaded
// once and never mutated during a run.
type CategoryPolicy struct {
	Category          string        `json:"category"`
	TargetPassRate    float64       `json:"target_pass_rate"`
	Critical          bool          `json:"critical"`
	AllowEscalation   bool          `json:"allow_escalation"`
	AllowDeescalation bool          `json:"allow_deescalation"`
	// Acceptable is set only for "maybe" categories: any detected level in
	// this set passes regardless of the phrase's expected labels.
	Acceptable []CrisisLevel `json:"acceptable,omitempty"`
}

// Permits reports whether the policy's explicit acceptable set contains the
// detected level. Always false for definite categories (empty set).
func (p CategoryPolicy) Permits(level CrisisLevel) bool {
	for _, ok := range p.Acceptable {
		if ok.Rank() == level.Rank() {
			return true
		}
	}
	return false
}

// DefaultPolicies returns the per-category policy table for the standard
// corpus. Definite categories tolerate a single step of escalation or
// de-escalation; maybe categories carry explicit acceptable sets, with
// maybe_medium_low deliberately accepting every level as a permissive
// boundary test.
func DefaultPolicies() map[string]CategoryPolicy {
	policies := []CategoryPolicy{
		{
			Category:          "definite_high",
			TargetPassRate:    95.0,
			Critical:          true,
			AllowDeescalation: true,
		},
		{
			Category:        "maybe_high_medium",
			TargetPassRate:  90.0,
			Critical:        true,
			AllowEscalation: true,
			Acceptable:      []CrisisLevel{LevelHigh, LevelMedium},
		},
		{
			Category:          "definite_medium",
			TargetPassRate:    85.0,
			AllowEscalation:   true,
			AllowDeescalation: true,
		},
		{
			Category:        "maybe_medium_low",
			TargetPassRate:  75.0,
			AllowEscalation: true,
			Acceptable:      []CrisisLevel{LevelNone, LevelLow, LevelMedium, LevelHigh},
		},
		{
			Category:          "definite_low",
			TargetPassRate:    80.0,
			AllowEscalation:   true,
			AllowDeescalation: true,
		},
		{
			Category:       "maybe_low_none",
			TargetPassRate: 85.0,
			Acceptable:     []CrisisLevel{LevelNone, LevelLow},
		},
		{
			Category:        "definite_none",
			TargetPassRate:  90.0,
			AllowEscalation: true,
		},
	}

	table := make(map[string]CategoryPolicy, len(policies))
	for _, p := range policies {
		table[p.Category] = p
	}
	return table
}
