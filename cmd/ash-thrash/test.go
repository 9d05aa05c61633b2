package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/cli"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/model"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/runner"
)

func testCmd() *cobra.Command {
	var (
		category string
		noSave   bool
		failures bool
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the validation corpus against the classifier",
		Long: `Sweeps the labeled phrase corpus through the classifier and judges every
response against its category's safety policy. Critical categories missing
their pass-rate target are called out loudly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			phrases, err := loadCorpus(cfg, category)
			if err != nil {
				return err
			}

			client := newClient(cfg)
			if err := requireHealthy(ctx, client); err != nil {
				return err
			}

			r := runner.New(client, model.DefaultPolicies(), runner.Config{
				Workers:  cfg.Runner.Workers,
				Progress: cfg.Runner.Progress,
			})

			summary, verdicts, err := r.Run(ctx, phrases)
			if err != nil {
				return err
			}

			renderSummary(summary)
			if failures {
				renderFailures(verdicts)
			}

			if !noSave {
				store, storeErr := initStorage(ctx, cfg)
				if storeErr != nil {
					return storeErr
				}
				defer func() { _ = store.Close() }()
				if err := store.SaveRun(ctx, summary); err != nil {
					return fmt.Errorf("failed to save run: %w", err)
				}
				slog.Debug("Run saved", "run_id", summary.ID)
			}

			if summary.Alert() {
				return fmt.Errorf("critical category below target pass rate")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "limit the run to one category")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "skip persisting the run summary")
	cmd.Flags().BoolVar(&failures, "failures", false, "print each failing phrase")

	return cmd
}

func renderSummary(summary *model.RunSummary) {
	fmt.Println(cli.TitleStyle.Render("Validation Run " + summary.ID[:8]))

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s   ", cli.BoldStyle.Render("Grade:"), cli.GradeStyle(summary.Grade).Render(summary.Grade))
	fmt.Fprintf(&b, "%d/%d passed (%.1f%%)   ", summary.Passed, summary.Total, summary.PassRate)
	fmt.Fprintf(&b, "avg latency %.0fms   ", summary.AvgLatencyMS)
	fmt.Fprintf(&b, "%s", summary.Duration.Round(100*time.Millisecond))
	fmt.Println(cli.BoxStyle.Render(b.String()))

	names := make([]string, 0, len(summary.Categories))
	for name := range summary.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stats := summary.Categories[name]
		style := cli.PassRateStyle(stats.PassRate, stats.TargetPassRate, stats.Critical)

		line := fmt.Sprintf("  %-20s %s  (target %.0f%%)",
			name,
			style.Render(fmt.Sprintf("%5.1f%%", stats.PassRate)),
			stats.TargetPassRate)
		if stats.Critical {
			line += cli.SubtleStyle.Render("  [critical]")
		}
		if stats.Errors > 0 {
			line += cli.WarningStyle.Render(fmt.Sprintf("  %d errors", stats.Errors))
		}
		fmt.Println(line)
	}

	if summary.CriticalFailures > 0 {
		fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf(
			"\n⚠ %d critical false negatives: high-severity phrases scored too low",
			summary.CriticalFailures)))
	}
}

func renderFailures(verdicts []model.Verdict) {
	fmt.Println(cli.TitleStyle.Render("\nFailures"))
	for _, v := range verdicts {
		if v.Pass {
			continue
		}
		fmt.Printf("  %s %s %s\n",
			cli.ErrorStyle.Render(string(v.Direction)),
			cli.BoldStyle.Render(v.Phrase.ID),
			cli.SubtleStyle.Render(fmt.Sprintf("expected %v, got %s", v.Phrase.Expected, v.Detected)))
	}
}
