// Package service defines the interfaces shared between application services.
package service

import (
	"context"
	"time"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// HealthStatus is the classifier service's reachability state.
type HealthStatus string

// Health statuses.
const (
	StatusHealthy     HealthStatus = "healthy"
	StatusUnhealthy   HealthStatus = "unhealthy"
	StatusUnreachable HealthStatus = "unreachable"
)

// Classifier is the read-side contract of the remote crisis classifier.
type Classifier interface {
	// Health probes the service with a single GET. Non-200 or malformed
	// bodies map to unhealthy; connection failures map to unreachable.
	Health(ctx context.Context) HealthStatus

	// Analyze classifies one message. Retries internally; after retries
	// are exhausted it returns an error value, never a panic.
	Analyze(ctx context.Context, message, userID, channelID string) (model.ClassificationResult, error)
}

// Admin is the administrative contract used only during optimization runs.
// Mutating calls report failure by returning false; they log and never
// propagate an error across the boundary.
type Admin interface {
	ApplyWeights(ctx context.Context, weights model.EnsembleWeights, mode string) bool
	SwitchLabelSet(ctx context.Context, name string) bool
	CurrentLabelSet(ctx context.Context) (string, error)
	ListLabelSets(ctx context.Context) ([]string, error)
	// RefreshAfterRestore invalidates server-side configuration caches
	// after the original configuration has been reinstated. Best effort.
	RefreshAfterRestore(ctx context.Context) bool
}

// ResultStore is the persistence contract for run summaries and
// optimization outcomes.
type ResultStore interface {
	SaveRun(ctx context.Context, run *model.RunSummary) error
	RecentRuns(ctx context.Context, limit int) ([]model.RunSummary, error)
	SaveOptimization(ctx context.Context, result *model.OptimizationResult) error
	RecentOptimizations(ctx context.Context, limit int) ([]model.OptimizationResult, error)
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for network operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
