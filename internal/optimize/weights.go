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

// WeightOptimizer searches the continuous ensemble-weight space with a
// genetic algorithm: tournament selection, blend crossover, Gaussian
// mutation and elitism, with every child renormalized to the sum-and-
// dominance invariant before admission.
type WeightOptimizer struct {
	evaluator Evaluator
	admin     service.Admin
	cfg       config.SearchConfig
	rng       *rand.Rand
}

// NewWeightOptimizer creates a weight optimizer. The rand source is an
// injected dependency; pass a fixed-seed source for deterministic runs.
func NewWeightOptimizer(evaluator Evaluator, admin service.Admin, cfg config.SearchConfig, rng *rand.Rand) *WeightOptimizer {
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- search stochasticity, not crypto
	}
	return &WeightOptimizer{evaluator: evaluator, admin: admin, cfg: cfg, rng: rng}
}

// Run drives the full search. The classifier's original weights are
// restored on every exit path; a failed run still returns the best
// individual found so far, with Complete set false.
func (o *WeightOptimizer) Run(ctx context.Context) (*model.OptimizationResult, error) {
	originalWeights := model.EnsembleWeights{
		Depression: o.cfg.OriginalDepression,
		Sentiment:  o.cfg.OriginalSentiment,
		Distress:   o.cfg.OriginalDistress,
	}.Normalize()

	result := &model.OptimizationResult{
		RunID:     uuid.New().String(),
		Kind:      model.OptimizeWeights,
		StartedAt: time.Now(),
	}

	lease := NewLease(o.admin, OriginalConfiguration{
		Weights: &originalWeights,
		Mode:    o.cfg.OriginalMode,
	})
	// Restoration must survive caller cancellation.
	defer lease.Restore(context.WithoutCancel(ctx))
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	slog.Info("Starting weight optimization",
		"run_id", result.RunID,
		"population", o.cfg.PopulationSize,
		"generations", o.cfg.Generations)

	// Baseline before the population is touched: later improvement claims
	// are relative to what production runs today.
	baseline := model.Individual{Mode: o.cfg.OriginalMode, Weights: originalWeights}
	if err := o.evaluator.EvaluateWeights(ctx, &baseline, true); err != nil {
		return result, fmt.Errorf("baseline evaluation failed: %w", err)
	}
	result.BaselineFitness = baseline.Fitness
	result.BaselineMetrics = *baseline.Metrics
	slog.Info("Baseline established", "fitness", baseline.Fitness, "f1", baseline.Metrics.F1)

	population := make([]model.Individual, o.cfg.PopulationSize)
	for i := range population {
		population[i] = seedIndividual(o.rng, o.cfg.OriginalMode)
	}

	best := baseline
	runErr := o.evolve(ctx, population, &best, result)

	result.BestFitness = best.Fitness
	if best.Metrics != nil {
		result.BestMetrics = *best.Metrics
	}
	weights := best.Weights
	result.BestWeights = &weights
	result.BestMode = best.Mode
	result.Complete = runErr == nil
	finalize(result, o.cfg.MinImprovement)

	if runErr != nil {
		return result, runErr
	}

	slog.Info("Weight optimization finished",
		"run_id", result.RunID,
		"generations", result.Generations,
		"best_fitness", result.BestFitness,
		"improvement_pct", result.ImprovementPct)
	return result, nil
}

// evolve runs the generation loop, mutating best and result.History in
// place. Generations are strictly sequential: generation N+1 never starts
// before N's metrics are fully aggregated.
func (o *WeightOptimizer) evolve(ctx context.Context, population []model.Individual, best *model.Individual, result *model.OptimizationResult) error {
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

		weights := genBest.Weights
		result.History = append(result.History, model.GenerationStats{
			Generation:  gen,
			BestFitness: genBest.Fitness,
			AvgFitness:  avgFitness(population),
			Diversity:   weightDiversity(population),
			BestWeights: &weights,
		})
		result.Generations = gen

		slog.Info("Generation complete",
			"generation", gen,
			"gen_best", genBest.Fitness,
			"global_best", best.Fitness,
			"diversity", result.History[len(result.History)-1].Diversity)

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
			o.nextGeneration(population)
		}
	}
	return nil
}

// evaluatePopulation evaluates every individual still carrying the
// unevaluated sentinel. Elites keep their fitness from the previous
// generation, saving a full dataset sweep each. Administrative rejections
// floor the candidate and let the run continue; anything else aborts.
func (o *WeightOptimizer) evaluatePopulation(ctx context.Context, population []model.Individual) error {
	for i := range population {
		if population[i].Evaluated() {
			continue
		}
		err := o.evaluator.EvaluateWeights(ctx, &population[i], false)
		if err == nil {
			continue
		}
		if errors.Is(err, common.ErrAdministrative) {
			slog.Warn("Candidate rejected by classifier, assigning floor fitness",
				"weights", population[i].Weights, "error", err)
			continue
		}
		return fmt.Errorf("population evaluation failed: %w", err)
	}
	return nil
}

// nextGeneration replaces the sorted population in place: the elite top
// fraction survives unchanged (fitness intact), the rest are children of
// tournament-selected parents via mutation or blend crossover. Slots drawn
// by neither operator receive a random immigrant, which keeps fresh genetic
// material flowing after the population converges.
func (o *WeightOptimizer) nextGeneration(population []model.Individual) {
	elites := int(float64(len(population)) * o.cfg.EliteFraction)
	if elites < 1 {
		elites = 1
	}

	parents := make([]model.Individual, len(population))
	copy(parents, population)

	for i := elites; i < len(population); i++ {
		if o.rng.Float64() < o.cfg.MutationRate {
			population[i] = mutate(tournament(parents, o.rng), o.rng)
		} else if o.rng.Float64() < o.cfg.CrossoverRate {
			population[i] = blendCrossover(tournament(parents, o.rng), tournament(parents, o.rng), o.rng)
		} else {
			population[i] = seedIndividual(o.rng, o.cfg.OriginalMode)
		}
	}
}
