package phase

import (
	"context"
	"fmt"

	"github.com/adw-sh/adw/internal/state"
	"github.com/adw-sh/adw/internal/types"
	"github.com/adw-sh/adw/internal/workflow"
)

// Review runs the e2e screenshot capture once, then the bounded
// review->fix->re-review loop (workflow.MaxReviewAttempts attempts),
// merging the captured screenshots into every attempt. On approval it
// posts the review (with screenshots) and advances to document;
// exhausting attempts with blockers still present records a terminal
// error.
func Review(ctx context.Context, pc *Context) error {
	rec, err := state.Load(pc.BaseDir, pc.WorkflowID)
	if err != nil {
		return fmt.Errorf("phase: no state found for workflow %s: %w", pc.WorkflowID, err)
	}

	num, err := issueNumberFromState(rec)
	if err != nil {
		return err
	}

	pc.comment(ctx, num, "ops", "✅ Starting review phase")

	var screenshots []string
	if pc.FrontendDir != "" {
		screenshots = workflow.RunE2EScreenshots(pc.FrontendDir, pc.Logger)
	}

	for attempt := 1; attempt <= workflow.MaxReviewAttempts; attempt++ {
		pc.comment(ctx, num, workflow.AgentReviewer, fmt.Sprintf("Running review (attempt %d/%d)", attempt, workflow.MaxReviewAttempts))

		resp, err := workflow.RunReview(ctx, pc.Runner, pc.WorkflowID, screenshots)
		if err != nil {
			return pc.fail(ctx, rec, num, workflow.AgentReviewer, "error running review", err)
		}

		result := workflow.ParseReviewResult(resp.Text)
		result.AttemptNumber = attempt
		result.ScreenshotPaths = mergeScreenshots(result.ScreenshotPaths, screenshots)

		rec.ReviewAttempts = append(rec.ReviewAttempts, result)
		if err := state.Save(pc.BaseDir, rec); err != nil {
			return fmt.Errorf("phase: save state: %w", err)
		}

		if result.Approved {
			body := workflow.FormatIssueMessage(pc.WorkflowID, workflow.AgentReviewer, "✅ Review approved: "+result.Summary, "")
			if err := pc.Tracker.PostReviewWithScreenshots(ctx, num, body, result.ScreenshotPaths); err != nil {
				pc.Logger.Warn("failed to post review comment with screenshots", "error", err)
			}
			if err := state.Advance(pc.BaseDir, rec, types.PhaseDocument); err != nil {
				return fmt.Errorf("phase: advance to document: %w", err)
			}
			pc.comment(ctx, num, "ops", "✅ Review phase completed")
			return nil
		}

		if !workflow.HasBlockers(result) {
			// Unapproved with no blockers recorded is treated the same as
			// approved-with-warnings for loop purposes: there's nothing
			// actionable to send back to /implement, so don't spin.
			pc.comment(ctx, num, workflow.AgentReviewer, "⚠️ Review unapproved with no blockers recorded, treating as approved")
			if err := state.Advance(pc.BaseDir, rec, types.PhaseDocument); err != nil {
				return fmt.Errorf("phase: advance to document: %w", err)
			}
			return nil
		}

		if attempt == workflow.MaxReviewAttempts {
			break
		}

		digest := workflow.BlockerDigest(result)
		pc.comment(ctx, num, workflow.AgentImplementor, fmt.Sprintf("❌ Review found blockers on attempt %d, fixing", attempt))

		implResp, err := workflow.ImplementPlan(ctx, pc.Runner, digest, pc.WorkflowID)
		if err != nil {
			pc.Logger.Warn("implement-against-blockers invocation failed", "error", err)
			continue
		}
		if !implResp.Success {
			pc.Logger.Warn("implement-against-blockers did not succeed", "detail", implResp.Text)
			continue
		}

		if _, err := pc.VCS.Commit(ctx, workflow.AgentImplementor, pc.WorkflowID); err != nil {
			pc.Logger.Warn("nothing to commit after blocker fix", "error", err)
		}
	}

	return pc.failExact(ctx, rec, num, workflow.AgentReviewer, fmt.Sprintf("Review blockers after %d attempts", workflow.MaxReviewAttempts))
}

// mergeScreenshots set-unions b into a, preserving a's order and
// appending any of b's paths not already present.
func mergeScreenshots(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := append([]string(nil), a...)
	for _, p := range a {
		seen[p] = true
	}
	for _, p := range b {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
