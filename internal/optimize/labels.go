package optimize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/common"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/config"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
)

// LabelSetOptimizer searches the classifier's discrete label-set
// configurations. There is no meaningful crossover over unordered names, so
// each generation keeps the top half by fitness and refills the rest by
// uniform resampling from the available sets.
type LabelSetOptimizer struct {
	evaluator Evaluator
	admin     service.Admin
	cfg       config.SearchConfig
	rng       *rand.Rand
}

// NewLabelSetOptimizer creates a label-set optimizer with an injected rand
// source.
func NewLabelSetOptimizer(evaluator Evaluator, admin service.Admin, cfg config.SearchConfig, rng *rand.Rand) *LabelSetOptimizer {
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- search stochasticity, not crypto
	}
	return &LabelSetOptimizer{evaluator: evaluator, admin: admin, cfg: cfg, rng: rng}
}

// Run drives the full search. Discovering zero available label sets is an
// invariant violation and aborts before any remote mutation; after the
// first mutation the original set is restored on every exit path.
func (o *LabelSetOptimizer) Run(ctx context.Context) (*model.OptimizationResult, error) {
	result := &model.OptimizationResult{
		RunID:     uuid.New().String(),
		Kind:      model.OptimizeLabelSets,
		StartedAt: time.Now(),
	}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	available, err := o.admin.ListLabelSets(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to discover label sets: %w", err)
	}
	if len(available) == 0 {
		return result, fmt.Errorf("%w: classifier reports zero label sets", common.ErrInvariant)
	}

	original, err := o.admin.CurrentLabelSet(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to capture original label set: %w", err)
	}

	lease := NewLease(o.admin, OriginalConfiguration{LabelSet: original})
	defer lease.Restore(context.WithoutCancel(ctx))

	slog.Info("Starting label set optimization",
		"run_id", result.RunID,
		"available", len(available),
		"original", original,
		"generations", o.cfg.Generations)

	baseline := model.LabelSetIndividual{Name: original}
	if err := o.evaluator.EvaluateLabelSet(ctx, &baseline, true); err != nil {
		return result, fmt.Errorf("baseline evaluation failed: %w", err)
	}
	result.BaselineFitness = baseline.Fitness
	result.BaselineMetrics = *baseline.Metrics
	slog.Info("Baseline established", "label_set", original, "fitness", baseline.Fitness)

	size := o.cfg.PopulationSize
	if size > len(available)*2 {
		size = len(available) * 2
	}
	population := o.samplePopulation(available, size)

	best := baseline
	runErr := o.evolve(ctx, population, available, &best, result)

	result.BestFitness = best.Fitness
	if best.Metrics != nil {
		result.BestMetrics = *best.Metrics
	}
	result.BestLabelSet = best.Name
	result.Complete = runErr == nil
	finalize(result, o.cfg.MinImprovement)

	if runErr != nil {
		return result, runErr
	}

	slog.Info("Label set optimization finished",
		"run_id", result.RunID,
		"best_label_set", result.BestLabelSet,
		"best_fitness", result.BestFitness,
		"improvement_pct", result.ImprovementPct)
	return result, nil
}

func (o *LabelSetOptimizer) evolve(ctx context.Context, population []model.LabelSetIndividual, available []string, best *model.LabelSetIndividual, result *model.OptimizationResult) error {
	for gen := 1; gen <= o.cfg.Generations; gen++ {
		if err := o.evaluatePopulation(ctx, population); err != nil {
			return err
		}

		sort.Slice(population, func(i, j int) bool {
			return population[i].Fitness > population[j].Fitness
		})

		genBest := population[0]
		if genBest.Fitness > best.Fitness {
			*best = genBest
		}

		result.History = append(result.History, model.GenerationStats{
			Generation:   gen,
			BestFitness:  genBest.Fitness,
			AvgFitness:   labelAvgFitness(population),
			Diversity:    labelDiversity(population),
			BestLabelSet: genBest.Name,
		})
		result.Generations = gen

		slog.Info("Generation complete",
			"generation", gen,
			"gen_best", genBest.Fitness,
			"gen_best_set", genBest.Name,
			"global_best", best.Fitness)

		if best.Fitness >= fitnessCeiling {
			slog.Info("Stopping early: fitness ceiling reached", "fitness", best.Fitness)
			return nil
		}
		if plateaued(result.History, o.cfg.PlateauWindow) {
			slog.Info("Stopping early: fitness plateau",
				"window", o.cfg.PlateauWindow, "best", best.Fitness)
			return nil
		}

		if gen < o.cfg.Generations {
			population = o.nextGeneration(population, available)
		}
	}
	return nil
}

func (o *LabelSetOptimizer) evaluatePopulation(ctx context.Context, population []model.LabelSetIndividual) error {
	for i := range population {
		if population[i].Evaluated() {
			continue
		}
		err := o.evaluator.EvaluateLabelSet(ctx, &population[i], false)
		if err == nil {
			continue
		}
		if errors.Is(err, common.ErrAdministrative) {
			slog.Warn("Label set rejected by classifier, assigning floor fitness",
				"label_set", population[i].Name, "error", err)
			continue
		}
		return fmt.Errorf("population evaluation failed: %w", err)
	}
	return nil
}

// nextGeneration keeps the top half of the sorted population unchanged and
// refills the remaining slots with freshly sampled, fitness-reset
// individuals.
func (o *LabelSetOptimizer) nextGeneration(population []model.LabelSetIndividual, available []string) []model.LabelSetIndividual {
	survivors := len(population) / 2
	next := make([]model.LabelSetIndividual, 0, len(population))
	next = append(next, population[:survivors]...)
	next = append(next, o.samplePopulation(available, len(population)-survivors)...)
	return next
}

// samplePopulation draws n fresh individuals uniformly from the available
// sets.
func (o *LabelSetOptimizer) samplePopulation(available []string, n int) []model.LabelSetIndividual {
	population := make([]model.LabelSetIndividual, n)
	for i := range population {
		population[i] = model.LabelSetIndividual{
			Name:    available[o.rng.Intn(len(available))],
			Fitness: model.FitnessUnevaluated,
		}
	}
	return population
}

func labelAvgFitness(pop []model.LabelSetIndividual) float64 {
	if len(pop) == 0 {
		return 0
	}
	var sum float64
	for _, ind := range pop {
		sum += ind.Fitness
	}
	return sum / float64(len(pop))
}
