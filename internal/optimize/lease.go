// Package optimize implements the population-based evolutionary search that
// tunes the classifier's ensemble weights or selects among its discrete
// label-set configurations.
package optimize

import (
	"context"
	"log/slog"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
)

// OriginalConfiguration is the classifier's pre-run administrative state,
// captured once at Init and never mutated afterwards.
type OriginalConfiguration struct {
	Weights  *model.EnsembleWeights
	Mode     string
	LabelSet string
}

// ConfigLease owns the classifier's live configuration for the duration of
// one search run. The search engine is the sole writer while the lease is
// held; Restore reinstates the original configuration and must run on every
// exit path, success or failure.
type ConfigLease struct {
	admin    service.Admin
	original OriginalConfiguration
	restored bool
}

// NewLease captures the original configuration into a lease.
func NewLease(admin service.Admin, original OriginalConfiguration) *ConfigLease {
	return &ConfigLease{admin: admin, original: original}
}

// Restore reinstates the pre-run configuration and refreshes the service's
// caches. Best effort: failures are logged, never raised, so Restore is
// safe to defer around the entire search loop. Subsequent calls are no-ops.
func (l *ConfigLease) Restore(ctx context.Context) {
	if l.restored {
		return
	}
	l.restored = true

	if l.original.Weights != nil {
		if !l.admin.ApplyWeights(ctx, *l.original.Weights, l.original.Mode) {
			slog.Error("Failed to restore original ensemble weights",
				"mode", l.original.Mode)
		} else {
			slog.Info("Restored original ensemble weights", "mode", l.original.Mode)
		}
	}

	if l.original.LabelSet != "" {
		if !l.admin.SwitchLabelSet(ctx, l.original.LabelSet) {
			slog.Error("Failed to restore original label set",
				"label_set", l.original.LabelSet)
		} else {
			slog.Info("Restored original label set", "label_set", l.original.LabelSet)
		}
	}

	l.admin.RefreshAfterRestore(ctx)
}
