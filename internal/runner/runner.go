// Package runner drives full-corpus validation runs against the classifier
// and rolls per-phrase verdicts into per-category and whole-run statistics.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/common"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/verdict"
)

// Identity the runner presents to the classifier.
const (
	runUserID    = "ash_thrash_runner"
	runChannelID = "ash_thrash_bulk"
)

// Config tunes the bulk runner.
type Config struct {
	// Workers bounds concurrent analyze calls. The optimizer always
	// sweeps sequentially; the bulk runner may fan out because it never
	// interleaves with administrative mutations.
	Workers  int
	Progress bool
}

// Runner executes validation runs over a fixed corpus.
type Runner struct {
	classifier service.Classifier
	policies   map[string]model.CategoryPolicy
	cfg        Config
}

// New creates a bulk runner.
func New(classifier service.Classifier, policies map[string]model.CategoryPolicy, cfg Config) *Runner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Runner{classifier: classifier, policies: policies, cfg: cfg}
}

// Run sweeps the corpus and aggregates a RunSummary. Results are collected
// in corpus order regardless of worker interleaving. Per-phrase failures
// count as failed verdicts, never as dropped phrases.
func (r *Runner) Run(ctx context.Context, phrases []model.TestPhrase) (*model.RunSummary, []model.Verdict, error) {
	if len(phrases) == 0 {
		return nil, nil, fmt.Errorf("%w: empty corpus", common.ErrInvariant)
	}
	for _, p := range phrases {
		if _, ok := r.policies[p.Category]; !ok {
			return nil, nil, fmt.Errorf("%w: no policy for category %q", common.ErrInvariant, p.Category)
		}
	}

	start := time.Now()
	slog.Info("Starting validation run", "phrases", len(phrases), "workers", r.cfg.Workers)

	var bar *progressbar.ProgressBar
	if r.cfg.Progress {
		bar = progressbar.Default(int64(len(phrases)), "thrashing")
	}

	verdicts := make([]model.Verdict, len(phrases))
	latencies := make([]time.Duration, len(phrases))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				verdicts[i], latencies[i] = r.judge(ctx, phrases[i])
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	for i := range phrases {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	summary := r.aggregate(verdicts, latencies)
	summary.ID = uuid.New().String()
	summary.StartedAt = start
	summary.Duration = time.Since(start)

	slog.Info("Validation run complete",
		"run_id", summary.ID,
		"pass_rate", summary.PassRate,
		"grade", summary.Grade,
		"critical_failures", summary.CriticalFailures)

	return summary, verdicts, nil
}

// judge analyzes one phrase and evaluates its verdict.
func (r *Runner) judge(ctx context.Context, phrase model.TestPhrase) (model.Verdict, time.Duration) {
	result, err := r.classifier.Analyze(ctx, phrase.Message, runUserID, runChannelID)
	if err != nil {
		slog.Warn("Analyze failed, counting phrase as failed",
			"phrase", phrase.ID, "error", err)
		result = model.ClassificationResult{Err: err}
	}
	return verdict.Evaluate(phrase, result, r.policies[phrase.Category]), result.Latency
}

// aggregate reduces verdicts into per-category and whole-run statistics.
func (r *Runner) aggregate(verdicts []model.Verdict, latencies []time.Duration) *model.RunSummary {
	summary := &model.RunSummary{
		Total:      len(verdicts),
		Categories: make(map[string]model.CategoryStats),
	}

	var latencySum time.Duration
	var timed int

	for i, v := range verdicts {
		policy := r.policies[v.Phrase.Category]
		stats := summary.Categories[v.Phrase.Category]
		stats.Category = v.Phrase.Category
		stats.Critical = policy.Critical
		stats.TargetPassRate = policy.TargetPassRate
		stats.Total++

		if v.Pass {
			summary.Passed++
			stats.Passed++
		} else {
			summary.Failed++
			stats.WeightedFails += v.Weight
			switch v.Direction {
			case model.DirectionFalseNegative:
				stats.FalseNegatives++
				if policy.Critical {
					summary.CriticalFailures++
				}
			case model.DirectionFalsePositive:
				stats.FalsePositives++
			case model.DirectionError:
				stats.Errors++
			}
		}

		summary.Categories[v.Phrase.Category] = stats

		if latencies[i] > 0 {
			latencySum += latencies[i]
			timed++
		}
	}

	for name, stats := range summary.Categories {
		stats.PassRate = 100 * float64(stats.Passed) / float64(stats.Total)
		stats.MetTarget = stats.PassRate >= stats.TargetPassRate
		summary.Categories[name] = stats
	}

	summary.PassRate = 100 * float64(summary.Passed) / float64(summary.Total)
	if timed > 0 {
		summary.AvgLatencyMS = float64(latencySum.Milliseconds()) / float64(timed)
	}
	summary.Grade = grade(summary.PassRate)

	return summary
}

// grade maps an overall pass rate onto a letter grade.
func grade(passRate float64) string {
	switch {
	case passRate >= 95:
		return "A"
	case passRate >= 90:
		return "B"
	case passRate >= 80:
		return "C"
	case passRate >= 70:
		return "D"
	default:
		return "F"
	}
}
