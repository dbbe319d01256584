package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adw-sh/adw/internal/agentrun"
	"github.com/adw-sh/adw/internal/config"
	"github.com/adw-sh/adw/internal/phase"
	"github.com/adw-sh/adw/internal/tracker"
	"github.com/adw-sh/adw/internal/vcs"
)

var (
	flagBaseDir string
	flagLogDir  string
	flagVerbose bool
	flagOutput  string
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "adw",
	Short: "Autonomous software-delivery workflow orchestrator",
	Long: `adw drives a tracker issue through classify, plan, build, test, review,
document, and pull-request by invoking a headless coding agent for each
phase, with durable per-workflow state so any phase can be resumed or
rerun independently.

Phase units:
  plan     classify, branch, plan, commit
  build    implement the plan, commit
  test     bounded test -> resolve -> retest loop
  review   bounded review -> fix -> re-review loop
  document generate docs (non-fatal on failure)
  patch    single-shot bug fix bypassing the full pipeline

Composite workflows:
  plan_build, plan_build_test, plan_build_review,
  plan_build_test_review, sdlc

Ingestion front-ends:
  poller   periodic pull, detects new/commented issues
  webhook  HTTP receiver for tracker push events

Also: health (collaborator probe) and hooks (guardrail programs the
agent invokes around tool use).`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseDir, "base-dir", "", "project directory holding agents/<workflow-id>/ state (default: .)")
	rootCmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "", "session hook log directory (default: logs)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (overrides .adw/config.yaml)")
}

// Execute runs the root command with a background context, canceled on
// SIGINT/SIGTERM so long-running commands (poller, webhook) and any
// in-flight agent subprocess get a chance to shut down cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// app bundles every collaborator a subcommand might need, built once
// from resolved configuration.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	runner  *agentrun.Runner
	client  *tracker.Client
	gateway *vcs.Gateway
}

// loadApp resolves configuration and wires the Tracker Gateway, Agent
// Runner, and VCS Gateway. Collaborators that require live network
// access (the tracker client) are still cheap to construct — auth
// failures surface on first real call, not here. Resolving the repo
// identity from the git remote does run here, and its failure aborts
// every command that calls loadApp.
func loadApp(ctx context.Context) (*app, error) {
	if flagConfig != "" {
		os.Setenv("ADW_CONFIG", flagConfig)
	}

	overrides := &config.Config{
		BaseDir: flagBaseDir,
		LogDir:  flagLogDir,
		Output:  flagOutput,
		Verbose: flagVerbose,
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, fmt.Errorf("adw: load config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	repo, err := tracker.ResolveRepoIdentity(ctx)
	if err != nil {
		return nil, fmt.Errorf("adw: resolve repo identity: %w", err)
	}
	client := tracker.NewClient(ctx, repo, tracker.ResolveToken(), cfg.Tracker.DefaultBranch)

	runner := agentrun.NewRunner(cfg.BaseDir, cfg.Agent.Command)
	gateway := vcs.NewGateway(runner)

	return &app{cfg: cfg, logger: logger, runner: runner, client: client, gateway: gateway}, nil
}

// phaseContext builds the phase.Context a phase unit needs for workflowID.
func (a *app) phaseContext(workflowID string) *phase.Context {
	return &phase.Context{
		BaseDir:     a.cfg.BaseDir,
		WorkflowID:  workflowID,
		Runner:      a.runner,
		Tracker:     a.client,
		VCS:         a.gateway,
		Logger:      a.logger,
		FrontendDir: a.cfg.FrontendDir,
	}
}
