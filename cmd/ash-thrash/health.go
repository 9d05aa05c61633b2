package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/cli"
	"github.com/The-Alphabet-Cartel/ash-thrash-sub000/internal/service"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check classifier service health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			client := newClient(cfg)
			status := client.Health(cmd.Context())

			switch status {
			case service.StatusHealthy:
				fmt.Println(cli.SuccessStyle.Render("✓ classifier is healthy") +
					cli.SubtleStyle.Render("  "+cfg.NLP.BaseURL))
				return nil
			case service.StatusUnhealthy:
				fmt.Println(cli.WarningStyle.Render("✗ classifier is unhealthy") +
					cli.SubtleStyle.Render("  "+cfg.NLP.BaseURL))
			case service.StatusUnreachable:
				fmt.Println(cli.ErrorStyle.Render("✗ classifier is unreachable") +
					cli.SubtleStyle.Render("  "+cfg.NLP.BaseURL))
			}
			return fmt.Errorf("classifier is %s", status)
		},
	}
}
