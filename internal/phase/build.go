package phase

import (
	"context"
	"fmt"

	"github.com/adw-sh/adw/internal/state"
	"github.com/adw-sh/adw/internal/types"
	"github.com/adw-sh/adw/internal/workflow"
)

// Build implements the planned work and commits it, then advances the
// workflow to whatever phase the workflow kind's declared phase list
// names next after build — test, review, or nothing at all for
// plan_build, which ends here and lets the pipeline executor's final PR
// step carry the workflow from build to pr. It requires a plan file to
// have been recorded by the plan phase.
func Build(ctx context.Context, pc *Context) error {
	rec, err := state.Load(pc.BaseDir, pc.WorkflowID)
	if err != nil {
		return fmt.Errorf("phase: no state found for workflow %s: %w", pc.WorkflowID, err)
	}

	num, err := issueNumberFromState(rec)
	if err != nil {
		return err
	}

	if rec.PlanFile == "" {
		return pc.fail(ctx, rec, num, "ops", "no plan file recorded on workflow state", fmt.Errorf("plan_file is unset"))
	}

	pc.comment(ctx, num, "ops", "✅ Starting build phase")

	implResp, err := workflow.ImplementPlan(ctx, pc.Runner, rec.PlanFile, pc.WorkflowID)
	if err != nil {
		return pc.fail(ctx, rec, num, workflow.AgentImplementor, "error implementing plan", err)
	}
	if !implResp.Success {
		return pc.fail(ctx, rec, num, workflow.AgentImplementor, "error implementing plan", fmt.Errorf("%s", implResp.Text))
	}
	pc.comment(ctx, num, workflow.AgentImplementor, "✅ Implementation complete")

	if _, err := pc.VCS.Commit(ctx, workflow.AgentImplementor, pc.WorkflowID); err != nil {
		return pc.fail(ctx, rec, num, workflow.AgentImplementor, "error committing implementation", err)
	}

	if next, ok := phaseAfter(rec.WorkflowKind, types.PhaseBuild); ok {
		if err := state.Advance(pc.BaseDir, rec, next); err != nil {
			return fmt.Errorf("phase: advance past build: %w", err)
		}
	}
	pc.comment(ctx, num, "ops", "✅ Build phase completed")
	return nil
}
