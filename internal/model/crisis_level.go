// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// CrisisLevel is the severity label assigned to a message by the classifier.
type CrisisLevel string

// Crisis level constants, ordered from least to most severe.
const (
	LevelUnknown  CrisisLevel = "unknown"
	LevelNone     CrisisLevel = "none"
	LevelLow      CrisisLevel = "low"
	LevelMedium   CrisisLevel = "medium"
	LevelHigh     CrisisLevel = "high"
	LevelCritical CrisisLevel = "critical"
)

// Rank returns the numeric severity of a level. Critical shares the top
// rank with high: the classifier treats both as its most severe tier.
// Unknown levels rank -1 so they never satisfy a tolerance comparison.
func (l CrisisLevel) Rank() int {
	switch l {
	case LevelNone:
		return 0
	case LevelLow:
		return 1
	case LevelMedium:
		return 2
	case LevelHigh, LevelCritical:
		return 3
	default:
		return -1
	}
}

// IsValid reports whether the level is a known severity label.
func (l CrisisLevel) IsValid() bool {
	return l.Rank() >= 0
}

// ParseCrisisLevel converts a wire-format string into a CrisisLevel.
func ParseCrisisLevel(s string) (CrisisLevel, error) {
	level := CrisisLevel(s)
	if !level.IsValid() {
		return LevelUnknown, fmt.Errorf("unknown crisis level %q", s)
	}
	return level, nil
}

// MoreSevere reports whether l is strictly more severe than other.
func (l CrisisLevel) MoreSevere(other CrisisLevel) bool {
	return l.Rank() > other.Rank()
}

// LessSevere reports whether l is strictly less severe than other.
func (l CrisisLevel) LessSevere(other CrisisLevel) bool {
	return l.Rank() < other.Rank()
}
