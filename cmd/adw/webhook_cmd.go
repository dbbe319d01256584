package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adw-sh/adw/internal/health"
	"github.com/adw-sh/adw/internal/ingest"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Run the HTTP webhook receiver (POST /gh-webhook, GET /health)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}

		receiver := &ingest.Receiver{
			Secret: a.cfg.Webhook.Secret,
			Logger: a.logger,
			HealthCheck: func(ctx context.Context) ingest.HealthSummary {
				r := health.Run(ctx, health.Options{
					Runner:       a.runner,
					Client:       a.client,
					FrontendDir:  a.cfg.FrontendDir,
					AgentCommand: a.cfg.Agent.Command,
				})
				return ingest.HealthSummary{Success: r.Success, Warnings: r.Warnings, Errors: r.Errors}
			},
		}

		sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := fmt.Sprintf(":%d", a.cfg.Webhook.Port)
		return ingest.Serve(sigCtx, addr, receiver.Router(), a.logger)
	},
}

func init() {
	rootCmd.AddCommand(webhookCmd)
}
