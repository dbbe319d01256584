package phase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adw-sh/adw/internal/state"
	"github.com/adw-sh/adw/internal/tracker"
	"github.com/adw-sh/adw/internal/types"
	"github.com/adw-sh/adw/internal/workflow"
)

// Plan runs classify → branch → download images → build plan → find plan
// file → commit, then advances the workflow to the build phase. The
// classify and branch steps are internal bookkeeping within this single
// unit; only the unit's net effect (plan → build) is reflected in the
// workflow's declared phase list, so invariants about completed-phases
// matching that list hold across units rather than within one.
//
// issueNumber is only meaningful on the very first invocation of a
// workflow; once state exists, its issue ID is authoritative.
func Plan(ctx context.Context, pc *Context, issueNumber int, kind types.WorkflowKind) error {
	rec, err := state.Load(pc.BaseDir, pc.WorkflowID)
	if err != nil {
		rec, err = state.Create(pc.BaseDir, pc.WorkflowID, strconv.Itoa(issueNumber), kind)
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

	pc.comment(ctx, num, "ops", "✅ Starting plan phase")

	class, err := workflow.Classify(ctx, pc.Runner, issue, pc.WorkflowID)
	if err != nil {
		return pc.fail(ctx, rec, num, "ops", "error classifying issue", err)
	}
	rec.IssueClass = class
	if err := state.Save(pc.BaseDir, rec); err != nil {
		return fmt.Errorf("phase: save state: %w", err)
	}
	pc.comment(ctx, num, "ops", fmt.Sprintf("✅ Issue classified as: %s", class))

	branchName, err := pc.VCS.CreateBranch(ctx, issue, class, pc.WorkflowID)
	if err != nil {
		return pc.fail(ctx, rec, num, "ops", "error creating branch", err)
	}
	rec.BranchName = branchName
	if err := state.Save(pc.BaseDir, rec); err != nil {
		return fmt.Errorf("phase: save state: %w", err)
	}
	pc.comment(ctx, num, "ops", fmt.Sprintf("✅ Working on branch: %s", branchName))

	imageURLs := tracker.ExtractImageURLs(issue)
	var imagePaths []string
	if len(imageURLs) > 0 {
		pc.Logger.Info("downloading issue images", "count", len(imageURLs))
		imagePaths = downloadImages(ctx, pc, imageURLs)
	}

	pc.comment(ctx, num, workflow.AgentPlanner, "✅ Building implementation plan")
	planResp, err := workflow.BuildPlan(ctx, pc.Runner, issue, class, pc.WorkflowID, imagePaths)
	if err != nil {
		return pc.fail(ctx, rec, num, workflow.AgentPlanner, "error building plan", err)
	}
	if !planResp.Success {
		return pc.fail(ctx, rec, num, workflow.AgentPlanner, "error building plan", fmt.Errorf("%s", planResp.Text))
	}
	pc.comment(ctx, num, workflow.AgentPlanner, "✅ Implementation plan created")

	planFile, err := workflow.FindPlanFile(ctx, pc.Runner, planResp.Text, pc.WorkflowID)
	if err != nil {
		return pc.fail(ctx, rec, num, "ops", "error finding plan file", err)
	}
	rec.PlanFile = planFile
	if err := state.Save(pc.BaseDir, rec); err != nil {
		return fmt.Errorf("phase: save state: %w", err)
	}
	pc.comment(ctx, num, "ops", fmt.Sprintf("✅ Plan file created: %s", planFile))

	if _, err := pc.VCS.Commit(ctx, workflow.AgentPlanner, pc.WorkflowID); err != nil {
		return pc.fail(ctx, rec, num, workflow.AgentPlanner, "error committing plan", err)
	}

	if err := state.Advance(pc.BaseDir, rec, types.PhaseBuild); err != nil {
		return fmt.Errorf("phase: advance to build: %w", err)
	}
	pc.comment(ctx, num, "ops", "✅ Plan phase completed")
	return nil
}

func downloadImages(ctx context.Context, pc *Context, urls []string) []string {
	return downloadIssueImagesVar(ctx, pc.BaseDir, urls, pc.WorkflowID)
}
