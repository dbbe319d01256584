package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/adw-sh/adw/internal/phase"
	"github.com/adw-sh/adw/internal/pipeline"
	"github.com/adw-sh/adw/internal/types"
)

// workflowIDArg returns args[idx] if present, otherwise a freshly
// generated 8-character workflow id — the "if workflow-id is omitted, a
// new 8-char id is generated" rule shared by every first-phase command.
func workflowIDArg(args []string, idx int) string {
	if len(args) > idx && args[idx] != "" {
		return args[idx]
	}
	return pipeline.NewWorkflowID()
}

var planWorkflowKind string

var planCmd = &cobra.Command{
	Use:   "plan <issue-id> [workflow-id]",
	Short: "Classify an issue, branch, build a plan, and commit it",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		issueNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		pc := a.phaseContext(workflowIDArg(args, 1))
		kind := types.WorkflowPlanBuild
		if planWorkflowKind != "" {
			kind = types.WorkflowKind(planWorkflowKind)
		}
		return phase.Plan(cmd.Context(), pc, issueNumber, kind)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <workflow-id>",
	Short: "Implement the recorded plan and commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		pc := a.phaseContext(args[0])
		return phase.Build(cmd.Context(), pc)
	},
}

var testCmd = &cobra.Command{
	Use:   "test <workflow-id>",
	Short: "Run the bounded test -> resolve -> retest loop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		pc := a.phaseContext(args[0])
		return phase.Test(cmd.Context(), pc)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <workflow-id>",
	Short: "Run the bounded review -> fix -> re-review loop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		pc := a.phaseContext(args[0])
		return phase.Review(cmd.Context(), pc)
	},
}

var documentCmd = &cobra.Command{
	Use:   "document <workflow-id>",
	Short: "Generate documentation (non-fatal on failure)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		pc := a.phaseContext(args[0])
		return phase.Document(cmd.Context(), pc)
	},
}

var patchCmd = &cobra.Command{
	Use:   "patch <issue-id> [workflow-id]",
	Short: "Single-shot bug fix: branch, patch, implement, commit, PR",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		issueNumber, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		pc := a.phaseContext(workflowIDArg(args, 1))
		return phase.Patch(cmd.Context(), pc, issueNumber)
	},
}

func init() {
	planCmd.Flags().StringVar(&planWorkflowKind, "workflow-kind", "", "composite workflow kind this plan phase belongs to (internal; defaults to plan_build)")
	_ = planCmd.Flags().MarkHidden("workflow-kind")

	rootCmd.AddCommand(planCmd, buildCmd, testCmd, reviewCmd, documentCmd, patchCmd)
}
