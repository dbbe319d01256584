package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/adw-sh/adw/internal/phase"
	"github.com/adw-sh/adw/internal/state"
	"github.com/adw-sh/adw/internal/types"
	"github.com/adw-sh/adw/internal/workflow"
)

// Run executes kind's declared phase units in order, stopping at the
// first one that exits non-zero, then — for every composite kind except
// patch, which opens its own PR inline — opens the pull request and
// advances the workflow to PhasePR exactly once.
//
// DESIGN.md decision (source open question #1): the original
// adw_plan_build.py called advance_phase(..., PR) twice in a row (once
// after the build commit, once after PR creation), leaving PhasePR
// duplicated in completed-phases. We judged that a bug, not an
// intentional double-entry, and advance exactly once here. The declared
// phase list is then an ordered prefix of completed-phases (testable
// property #3); entries can follow it, because test, review and document
// advance to fixed next phases (sdlc's document unit already advances to
// PhasePR, so its record ends with "pr" completed).
func Run(ctx context.Context, pc *phase.Context, kind types.WorkflowKind, issueID string) error {
	if pc.WorkflowID == "" {
		pc.WorkflowID = NewWorkflowID()
	}

	if kind == types.WorkflowPatch {
		return runPhaseUnit(ctx, "patch", issueID, pc.WorkflowID)
	}

	phases, ok := types.WorkflowPhases[kind]
	if !ok {
		return fmt.Errorf("pipeline: unknown workflow kind %q", kind)
	}

	for i, ph := range phases {
		var err error
		if i == 0 {
			// The first phase unit both creates the workflow record and
			// is the only one that needs to know kind; it's carried as
			// a flag rather than a third positional argument so the
			// documented `plan <issue-id> [workflow-id]` CLI surface
			// (§6) stays exactly two positional args for a standalone
			// invocation.
			err = runPhaseUnit(ctx, string(ph), issueID, pc.WorkflowID, "--workflow-kind="+string(kind))
		} else {
			err = runPhaseUnit(ctx, string(ph), pc.WorkflowID)
		}
		if err != nil {
			return fmt.Errorf("pipeline: phase %q: %w", ph, err)
		}
	}

	return finishWithPullRequest(ctx, pc)
}

// runPhaseUnit re-executes the current binary with phaseCmd as its first
// argument, exactly mirroring the source's one-subprocess-per-phase
// model: `os.Executable()` rather than a hardcoded path keeps this
// working regardless of install location, and stdio is inherited so a
// phase's own progress output reaches whoever launched the pipeline.
func runPhaseUnit(ctx context.Context, phaseCmd string, args ...string) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve self executable: %w", err)
	}

	cmdArgs := append([]string{phaseCmd}, args...)
	cmd := exec.CommandContext(ctx, self, cmdArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Env = os.Environ()

	return cmd.Run()
}

// finishWithPullRequest loads the final workflow state, opens the pull
// request, and advances to PhasePR — the step every composite workflow
// (other than patch) performs itself after its declared phase units
// finish successfully.
func finishWithPullRequest(ctx context.Context, pc *phase.Context) error {
	rec, err := state.Load(pc.BaseDir, pc.WorkflowID)
	if err != nil {
		return fmt.Errorf("pipeline: no state found for workflow %s: %w", pc.WorkflowID, err)
	}

	num, err := issueNumberFor(rec)
	if err != nil {
		return err
	}

	prURL, err := pc.VCS.OpenPullRequest(ctx, pc.WorkflowID)
	if err != nil {
		msg := workflow.FormatIssueMessage(pc.WorkflowID, "ops", fmt.Sprintf("❌ error opening pull request: %s", err), "")
		if postErr := pc.Tracker.PostComment(ctx, num, msg); postErr != nil {
			pc.Logger.Error("failed to post failure comment", "error", postErr)
		}
		return fmt.Errorf("pipeline: open pull request: %w", err)
	}
	rec.PRURL = prURL

	if err := state.Advance(pc.BaseDir, rec, types.PhasePR); err != nil {
		return fmt.Errorf("pipeline: advance to pr: %w", err)
	}

	msg := workflow.FormatIssueMessage(pc.WorkflowID, "ops", fmt.Sprintf("✅ Pull request opened: %s", prURL), "")
	if err := pc.Tracker.PostComment(ctx, num, msg); err != nil {
		pc.Logger.Warn("failed to post PR comment", "error", err)
	}
	return nil
}

func issueNumberFor(rec *types.WorkflowRecord) (int, error) {
	var n int
	if _, err := fmt.Sscanf(rec.IssueID, "%d", &n); err != nil {
		return 0, fmt.Errorf("pipeline: invalid issue id %q: %w", rec.IssueID, err)
	}
	return n, nil
}
