package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// SaveRun persists one run summary. Per-category statistics are stored as a
// JSON blob since they are only ever read back whole.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.RunSummary) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}

	categories, err := json.Marshal(run.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal category stats: %w", err)
	}

	const query = `
INSERT INTO runs (id, started_at, duration_ms, total, passed, failed,
	pass_rate, avg_latency_ms, critical_failures, grade, categories)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt.UTC(),
		run.Duration.Milliseconds(),
		run.Total,
		run.Passed,
		run.Failed,
		run.PassRate,
		run.AvgLatencyMS,
		run.CriticalFailures,
		run.Grade,
		string(categories),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit < 1 {
		limit = 10
	}

	const query = `
SELECT id, started_at, duration_ms, total, passed, failed,
	pass_rate, avg_latency_ms, critical_failures, grade, categories
FROM runs
ORDER BY started_at DESC
LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		var durationMS int64
		var categories string

		err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&durationMS,
			&run.Total,
			&run.Passed,
			&run.Failed,
			&run.PassRate,
			&run.AvgLatencyMS,
			&run.CriticalFailures,
			&run.Grade,
			&categories,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(categories), &run.Categories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal category stats for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
