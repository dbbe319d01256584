package phase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adw-sh/adw/internal/state"
	"github.com/adw-sh/adw/internal/types"
)

const agentPatcher = "patch_agent"

// Patch is the single-unit "quick fix" workflow: create a bug branch,
// run /patch against the issue text, implement its output, commit, and
// open a PR. It bypasses the full plan/build/test/review pipeline.
//
// Per DESIGN.md's decision on the source's plan_file quirk: PlanFile is
// recorded as a free-form descriptive string ("patch plan from issue
// #N"), not a real path, since no downstream phase ever reads it back —
// patch is always a single unit.
func Patch(ctx context.Context, pc *Context, issueNumber int) error {
	rec, err := state.Load(pc.BaseDir, pc.WorkflowID)
	if err != nil {
		rec, err = state.Create(pc.BaseDir, pc.WorkflowID, strconv.Itoa(issueNumber), types.WorkflowPatch)
		if err != nil {
			return fmt.Errorf("phase: create state: %w", err)
		}
	}

	num, err := strconv.Atoi(rec.IssueID)
	if err != nil {
		return fmt.Errorf("phase: invalid issue id %q: %w", rec.IssueID, err)
	}

	issue, err := pc.Tracker.FetchIssue(ctx, num)
	if err != nil {
		return pc.fail(ctx, rec, num, "ops", "error fetching issue", err)
	}

	pc.comment(ctx, num, "ops", "✅ Starting patch workflow")

	branchName, err := pc.VCS.CreateBranch(ctx, issue, types.ClassBug, pc.WorkflowID)
	if err != nil {
		return pc.fail(ctx, rec, num, "ops", "error creating branch", err)
	}
	rec.BranchName = branchName
	rec.IssueClass = types.ClassBug
	if err := state.Save(pc.BaseDir, rec); err != nil {
		return fmt.Errorf("phase: save state: %w", err)
	}
	pc.comment(ctx, num, "ops", fmt.Sprintf("✅ Working on branch: %s", branchName))

	patchResp, err := pc.Runner.Template(ctx, types.TemplateRequest{
		AgentName:    agentPatcher,
		SlashCommand: types.CmdPatch,
		Args:         []string{issue.Title + ": " + issue.Body},
		WorkflowID:   pc.WorkflowID,
	})
	if err != nil {
		return pc.fail(ctx, rec, num, agentPatcher, "error running patch", err)
	}
	if !patchResp.Success {
		return pc.fail(ctx, rec, num, agentPatcher, "error running patch", fmt.Errorf("%s", patchResp.Text))
	}

	rec.PlanFile = fmt.Sprintf("patch plan from issue #%d", num)
	if err := state.Save(pc.BaseDir, rec); err != nil {
		return fmt.Errorf("phase: save state: %w", err)
	}
	pc.comment(ctx, num, agentPatcher, "✅ Patch plan produced")

	implResp, err := pc.Runner.Template(ctx, types.TemplateRequest{
		AgentName:    agentPatcher,
		SlashCommand: types.CmdImplement,
		Args:         []string{patchResp.Text},
		WorkflowID:   pc.WorkflowID,
	})
	if err != nil {
		return pc.fail(ctx, rec, num, agentPatcher, "error implementing patch", err)
	}
	if !implResp.Success {
		return pc.fail(ctx, rec, num, agentPatcher, "error implementing patch", fmt.Errorf("%s", implResp.Text))
	}
	pc.comment(ctx, num, agentPatcher, "✅ Patch implemented")

	if _, err := pc.VCS.Commit(ctx, agentPatcher, pc.WorkflowID); err != nil {
		pc.Logger.Warn("nothing to commit after patch", "error", err)
	}

	prURL, err := pc.VCS.OpenPullRequest(ctx, pc.WorkflowID)
	if err != nil {
		return pc.fail(ctx, rec, num, agentPatcher, "error opening pull request", err)
	}
	rec.PRURL = prURL

	if err := state.Advance(pc.BaseDir, rec, types.PhasePR); err != nil {
		return fmt.Errorf("phase: advance to pr: %w", err)
	}
	pc.comment(ctx, num, "ops", fmt.Sprintf("✅ Patch workflow completed: %s", prURL))
	return nil
}
