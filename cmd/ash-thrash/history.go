package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/cli"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs and optimizations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Recent Validation Runs"))
			if len(runs) == 0 {
				fmt.Println(cli.SubtleStyle.Render("  none recorded"))
			}
			for _, run := range runs {
				line := fmt.Sprintf("  %s  %s  %s  %d/%d passed (%.1f%%)",
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.ID[:8],
					cli.GradeStyle(run.Grade).Render(run.Grade),
					run.Passed, run.Total, run.PassRate)
				if run.CriticalFailures > 0 {
					line += cli.ErrorStyle.Render(fmt.Sprintf("  %d critical", run.CriticalFailures))
				}
				fmt.Println(line)
			}

			results, err := store.RecentOptimizations(ctx, limit)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("\nRecent Optimizations"))
			if len(results) == 0 {
				fmt.Println(cli.SubtleStyle.Render("  none recorded"))
			}
			for _, result := range results {
				state := cli.SuccessStyle.Render("complete")
				if !result.Complete {
					state = cli.WarningStyle.Render("aborted")
				}
				fmt.Printf("  %s  %s  %-10s %s  %.4f → %.4f (%+.2f%%)\n",
					result.StartedAt.Local().Format("2006-01-02 15:04"),
					result.RunID[:8],
					result.Kind,
					state,
					result.BaselineFitness, result.BestFitness, result.ImprovementPct)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of entries to show")
	return cmd
}
