package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/cli"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/config"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/fitness"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/optimize"
)

func optimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search for better classifier configurations",
		Long: `Evolutionary search over the classifier's live configuration. Candidates
are applied to the running service, scored with a full corpus sweep, and
the original production configuration is restored when the search ends,
succeeds, fails, or is interrupted.

Run this against a staging classifier, not one serving real traffic.`,
	}

	cmd.AddCommand(optimizeWeightsCmd())
	cmd.AddCommand(optimizeLabelsCmd())
	return cmd
}

func optimizeWeightsCmd() *cobra.Command {
	var generations int

	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Tune ensemble weights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptimization(cmd.Context(), generations, func(cfg *config.Config, eval *fitness.Evaluator) searchRunner {
				return optimize.NewWeightOptimizer(eval, newClient(cfg), cfg.Search, nil)
			})
		},
	}

	cmd.Flags().IntVar(&generations, "generations", 0, "override configured generation count")
	return cmd
}

func optimizeLabelsCmd() *cobra.Command {
	var generations int

	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Search discrete label set configurations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptimization(cmd.Context(), generations, func(cfg *config.Config, eval *fitness.Evaluator) searchRunner {
				return optimize.NewLabelSetOptimizer(eval, newClient(cfg), cfg.Search, nil)
			})
		},
	}

	cmd.Flags().IntVar(&generations, "generations", 0, "override configured generation count")
	return cmd
}

// searchRunner is what both optimizers expose to the CLI.
type searchRunner interface {
	Run(ctx context.Context) (*model.OptimizationResult, error)
}

func runOptimization(ctx context.Context, generations int, build func(*config.Config, *fitness.Evaluator) searchRunner) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if generations > 0 {
		cfg.Search.Generations = generations
	}

	phrases, err := loadCorpus(cfg, "")
	if err != nil {
		return err
	}

	client := newClient(cfg)
	if err := requireHealthy(ctx, client); err != nil {
		return err
	}

	evalCfg := fitness.DefaultConfig()
	evalCfg.TargetLatencyMS = cfg.Search.TargetLatencyMS
	evaluator := fitness.New(client, client, phrases, model.DefaultPolicies(), evalCfg)

	result, runErr := build(cfg, evaluator).Run(ctx)

	// Persist whatever we have, complete or not, before reporting failure.
	if result != nil && result.RunID != "" {
		store, storeErr := initStorage(ctx, cfg)
		if storeErr != nil {
			slog.Error("Failed to open result store", "error", storeErr)
		} else {
			defer func() { _ = store.Close() }()
			if err := store.SaveOptimization(ctx, result); err != nil {
				slog.Error("Failed to save optimization result", "error", err)
			}
		}
	}

	if runErr != nil {
		if result != nil && result.BestFitness > result.BaselineFitness {
			renderOptimization(result)
		}
		return runErr
	}

	renderOptimization(result)
	return nil
}

func renderOptimization(result *model.OptimizationResult) {
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Optimization %s (%s)", result.RunID[:8], result.Kind)))

	fmt.Printf("  baseline fitness  %.4f\n", result.BaselineFitness)
	fmt.Printf("  best fitness      %s\n", cli.BoldStyle.Render(fmt.Sprintf("%.4f", result.BestFitness)))

	improvement := fmt.Sprintf("%+.2f%%", result.ImprovementPct)
	if result.ImprovementPct > 0 {
		improvement = cli.SuccessStyle.Render(improvement)
	} else {
		improvement = cli.SubtleStyle.Render(improvement)
	}
	fmt.Printf("  improvement       %s over %d generations\n", improvement, result.Generations)

	if result.BestWeights != nil {
		w := result.BestWeights
		fmt.Printf("  best weights      depression=%.4f sentiment=%.4f distress=%.4f (%s)\n",
			w.Depression, w.Sentiment, w.Distress, result.BestMode)
	}
	if result.BestLabelSet != "" {
		fmt.Printf("  best label set    %s\n", result.BestLabelSet)
	}

	fmt.Println()
	fmt.Println(cli.BoxStyle.Render(result.Recommendation))
}
