package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
)

// SaveOptimization persists a finished (or partially finished) search run.
// The whole result is serialized into the payload column; the scalar columns
// exist only so history listings don't need to parse every payload.
func (s *SQLiteStore) SaveOptimization(ctx context.Context, result *model.OptimizationResult) error {
	if result == nil {
		return fmt.Errorf("result is required")
	}
	if result.RunID == "" {
		return fmt.Errorf("run ID is required")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal optimization result: %w", err)
	}

	const query = `
INSERT INTO optimizations (run_id, kind, started_at, duration_ms, generations,
	baseline_fitness, best_fitness, improvement_pct, complete, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	complete := 0
	if result.Complete {
		complete = 1
	}

	_, err = s.db.ExecContext(ctx, query,
		result.RunID,
		string(result.Kind),
		result.StartedAt.UTC(),
		result.Duration.Milliseconds(),
		result.Generations,
		result.BaselineFitness,
		result.BestFitness,
		result.ImprovementPct,
		complete,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save optimization: %w", err)
	}
	return nil
}

// RecentOptimizations returns up to limit search runs, newest first.
func (s *SQLiteStore) RecentOptimizations(ctx context.Context, limit int) ([]model.OptimizationResult, error) {
	if limit < 1 {
		limit = 10
	}

	const query = `
SELECT payload, duration_ms
FROM optimizations
ORDER BY started_at DESC
LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query optimizations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.OptimizationResult
	for rows.Next() {
		var payload string
		var durationMS int64
		if err := rows.Scan(&payload, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan optimization: %w", err)
		}

		var result model.OptimizationResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal optimization payload: %w", err)
		}
		result.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate optimizations: %w", err)
	}
	return results, nil
}
