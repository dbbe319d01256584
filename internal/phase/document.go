package phase

import (
	"context"
	"fmt"

	"github.com/adw-sh/adw/internal/state"
	"github.com/adw-sh/adw/internal/types"
	"github.com/adw-sh/adw/internal/workflow"
)

// Document runs /document <plan-file> and advances to the PR phase
// regardless of outcome — documentation failure is logged as a warning
// but never blocks the pipeline.
func Document(ctx context.Context, pc *Context) error {
	rec, err := state.Load(pc.BaseDir, pc.WorkflowID)
	if err != nil {
		return fmt.Errorf("phase: no state found for workflow %s: %w", pc.WorkflowID, err)
	}

	num, err := issueNumberFromState(rec)
	if err != nil {
		return err
	}

	pc.comment(ctx, num, "ops", "✅ Starting document phase")

	resp, err := workflow.Document(ctx, pc.Runner, rec.PlanFile, pc.WorkflowID)
	if err != nil || !resp.Success {
		detail := "documentation generation failed"
		if err == nil {
			detail = resp.Text
		}
		pc.Logger.Warn("documentation phase failed, continuing", "detail", detail)
		pc.comment(ctx, num, workflow.AgentDocumenter, "⚠️ Documentation generation failed, continuing anyway")
	} else {
		result := workflow.ParseDocumentationResult(resp.Text)
		rec.DocumentationResult = &result
		if err := state.Save(pc.BaseDir, rec); err != nil {
			return fmt.Errorf("phase: save state: %w", err)
		}
		pc.comment(ctx, num, workflow.AgentDocumenter, fmt.Sprintf("✅ Documentation created: %s", result.Summary))
	}

	if err := state.Advance(pc.BaseDir, rec, types.PhasePR); err != nil {
		return fmt.Errorf("phase: advance to pr: %w", err)
	}
	pc.comment(ctx, num, "ops", "✅ Document phase completed")
	return nil
}
