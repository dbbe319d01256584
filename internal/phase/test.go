package phase

import (
	"context"
	"fmt"

	"github.com/adw-sh/adw/internal/state"
	"github.com/adw-sh/adw/internal/types"
	"github.com/adw-sh/adw/internal/workflow"
)

// Test runs the bounded test->resolve->retest loop (workflow.MaxTestAttempts
// attempts) and advances to review on an all-passed result. Exhausting
// attempts records a terminal error on the workflow state and returns a
// non-nil error.
func Test(ctx context.Context, pc *Context) error {
	rec, err := state.Load(pc.BaseDir, pc.WorkflowID)
	if err != nil {
		return fmt.Errorf("phase: no state found for workflow %s: %w", pc.WorkflowID, err)
	}

	num, err := issueNumberFromState(rec)
	if err != nil {
		return err
	}

	pc.comment(ctx, num, "ops", "✅ Starting test phase")

	for attempt := 1; attempt <= workflow.MaxTestAttempts; attempt++ {
		pc.comment(ctx, num, workflow.AgentTester, fmt.Sprintf("Running tests (attempt %d/%d)", attempt, workflow.MaxTestAttempts))

		resp, err := workflow.RunTests(ctx, pc.Runner, pc.WorkflowID)
		if err != nil {
			return pc.fail(ctx, rec, num, workflow.AgentTester, "error running tests", err)
		}

		results := workflow.ParseTestResults(resp.Text)
		allPassed := workflow.AllPassed(results)

		rec.TestAttempts = append(rec.TestAttempts, types.TestAttempt{
			AttemptNumber: attempt,
			AllPassed:     allPassed,
			Results:       results,
		})
		if err := state.Save(pc.BaseDir, rec); err != nil {
			return fmt.Errorf("phase: save state: %w", err)
		}

		if allPassed {
			pc.comment(ctx, num, workflow.AgentTester, fmt.Sprintf("✅ All tests passed on attempt %d", attempt))
			if err := state.Advance(pc.BaseDir, rec, types.PhaseReview); err != nil {
				return fmt.Errorf("phase: advance to review: %w", err)
			}
			pc.comment(ctx, num, "ops", "✅ Test phase completed")
			return nil
		}

		if attempt == workflow.MaxTestAttempts {
			break
		}

		digest := workflow.FailureDigest(results)
		pc.comment(ctx, num, workflow.AgentTestResolver, fmt.Sprintf("❌ Tests failed on attempt %d, attempting auto-resolve", attempt))

		resolveResp, err := workflow.ResolveFailedTest(ctx, pc.Runner, digest, pc.WorkflowID)
		if err != nil {
			pc.Logger.Warn("resolve_failed_test invocation failed, retrying without commit", "error", err)
			continue
		}
		if !resolveResp.Success {
			pc.Logger.Warn("resolve_failed_test did not succeed, retrying without commit", "detail", resolveResp.Text)
			continue
		}

		if _, err := pc.VCS.Commit(ctx, workflow.AgentTestResolver, pc.WorkflowID); err != nil {
			pc.Logger.Warn("nothing to commit after resolve_failed_test", "error", err)
		}
	}

	return pc.failExact(ctx, rec, num, workflow.AgentTester, fmt.Sprintf("Tests failed after %d attempts", workflow.MaxTestAttempts))
}
