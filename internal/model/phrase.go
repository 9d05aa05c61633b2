package model

import "fmt"

// TestPhrase is one labeled corpus entry. Phrases are created at corpus-load
// time and never mutated afterwards.
type TestPhrase struct {
	ID          string        `json:"id"`
	Message     string        `json:"message"`
	Category    string        `json:"category"`
	Description string        `json:"description,omitempty"`
	Expected    []CrisisLevel `json:"expected"`
}

// Accepts reports whether the detected level is one of the phrase's
// acceptable expected labels.
func (p TestPhrase) Accepts(level CrisisLevel) bool {
	for _, want := range p.Expected {
		if want.Rank() == level.Rank() {
			return true
		}
	}
	return false
}

// MinExpectedRank returns the rank of the least severe acceptable label.
func (p TestPhrase) MinExpectedRank() int {
	minRank := -1
	for _, want := range p.Expected {
		if r := want.Rank(); minRank == -1 || r < minRank {
			minRank = r
		}
	}
	return minRank
}

// MaxExpectedRank returns the rank of the most severe acceptable label.
func (p TestPhrase) MaxExpectedRank() int {
	maxRank := -1
	for _, want := range p.Expected {
		if r := want.Rank(); r > maxRank {
			maxRank = r
		}
	}
	return maxRank
}

// Validate checks that the phrase is usable as a test input.
func (p TestPhrase) Validate() error {
	if p.Message == "" {
		return fmt.Errorf("phrase %s: message is required", p.ID)
	}
	if p.Category == "" {
		return fmt.Errorf("phrase %s: category is required", p.ID)
	}
	if len(p.Expected) == 0 {
		return fmt.Errorf("phrase %s: at least one expected level is required", p.ID)
	}
	for _, level := range p.Expected {
		if !level.IsValid() {
			return fmt.Errorf("phrase %s: invalid expected level %q", p.ID, level)
		}
	}
	return nil
}
