package main

import (
	"github.com/spf13/cobra"

	"github.com/adw-sh/adw/internal/pipeline"
	"github.com/adw-sh/adw/internal/types"
)

// newPipelineCmd builds a composite-workflow command: Use must equal the
// workflow kind's own string value, since the webhook receiver and
// poller both launch a composite workflow by re-exec'ing this binary
// with `<kind> <issue-id>` as arguments (internal/ingest).
func newPipelineCmd(kind types.WorkflowKind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(kind) + " <issue-id> [workflow-id]",
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			pc := a.phaseContext(workflowIDArg(args, 1))
			return pipeline.Run(cmd.Context(), pc, kind, args[0])
		},
	}
}

var (
	planBuildCmd           = newPipelineCmd(types.WorkflowPlanBuild, "Plan then build, no test/review/document")
	planBuildTestCmd       = newPipelineCmd(types.WorkflowPlanBuildTest, "Plan, build, then test")
	planBuildReviewCmd     = newPipelineCmd(types.WorkflowPlanBuildReview, "Plan, build, then review")
	planBuildTestReviewCmd = newPipelineCmd(types.WorkflowPlanBuildTestReview, "Plan, build, test, then review")
	sdlcCmd                = newPipelineCmd(types.WorkflowSDLC, "Full pipeline: plan, build, test, review, document")
)

func init() {
	// patch is deliberately not built via newPipelineCmd: it's
	// registered once in phase_cmds.go as the single-unit `patch`
	// command, which pipeline.Run's own WorkflowPatch branch re-execs
	// under the same name — adding a second "patch" command here would
	// just collide with it.
	rootCmd.AddCommand(planBuildCmd, planBuildTestCmd, planBuildReviewCmd, planBuildTestReviewCmd, sdlcCmd)
}
