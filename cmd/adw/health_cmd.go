package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adw-sh/adw/internal/health"
)

var healthCmd = &cobra.Command{
	Use:   "health [issue-id]",
	Short: "Verify external collaborators are installed, authenticated, and reachable",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}

		report := health.Run(cmd.Context(), health.Options{
			Runner:       a.runner,
			Client:       a.client,
			FrontendDir:  a.cfg.FrontendDir,
			AgentCommand: a.cfg.Agent.Command,
		})

		for _, c := range report.Checks {
			fmt.Printf("[%s] %s: %s\n", c.Status, c.Name, c.Detail)
		}
		if !report.Success {
			return fmt.Errorf("health: %d error(s)", len(report.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
