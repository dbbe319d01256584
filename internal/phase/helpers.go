package phase

import (
	"context"
	"fmt"

	"github.com/adw-sh/adw/internal/agentrun"
	"github.com/adw-sh/adw/internal/state"
	"github.com/adw-sh/adw/internal/types"
	"github.com/adw-sh/adw/internal/workflow"
)

// downloadIssueImagesVar is indirected so tests can stub out the network /
// gh-CLI fallback chain without actually fetching anything.
var downloadIssueImagesVar = agentrun.DownloadIssueImages

// comment posts a formatted progress comment and swallows the post error
// into the logger — a progress update failing to post shouldn't itself
// abort a phase that is otherwise succeeding. CheckError and fail also
// only log a failure to post; the phase still ends in error through the
// error they return.
func (pc *Context) comment(ctx context.Context, issueNumber int, agentName, message string) {
	body := workflow.FormatIssueMessage(pc.WorkflowID, agentName, message, "")
	if err := pc.Tracker.PostComment(ctx, issueNumber, body); err != nil {
		pc.Logger.Warn("failed to post progress comment", "error", err)
	}
}

// fail records err on the workflow record, posts a uniform failure
// comment to the tracked issue, and returns the error so the caller's
// cobra RunE surfaces a non-zero exit — the uniform "post then abort"
// contract workflow.CheckError also implements, inlined here because
// phase units always have a *types.WorkflowRecord at hand to persist
// the error onto as well.
func (pc *Context) fail(ctx context.Context, rec *types.WorkflowRecord, issueNumber int, agentName, prefix string, err error) error {
	pc.Logger.Error(prefix, "error", err)
	if rec != nil {
		if saveErr := state.MarkError(pc.BaseDir, rec, fmt.Errorf("%s: %w", prefix, err)); saveErr != nil {
			pc.Logger.Error("failed to persist error to state", "error", saveErr)
		}
	}
	msg := workflow.FormatIssueMessage(pc.WorkflowID, agentName, fmt.Sprintf("❌ %s: %s", prefix, err), "")
	if postErr := pc.Tracker.PostComment(ctx, issueNumber, msg); postErr != nil {
		pc.Logger.Error("failed to post failure comment", "error", postErr)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

// failExact is like fail but records message on the workflow record
// verbatim (no prefix wrapping), for the retry-exhaustion cases where
// §4.6/§8 name an exact error string ("Tests failed after N attempts",
// "Review blockers after N attempts").
func (pc *Context) failExact(ctx context.Context, rec *types.WorkflowRecord, issueNumber int, agentName, message string) error {
	err := fmt.Errorf("%s", message)
	pc.Logger.Error(message)
	if rec != nil {
		if saveErr := state.MarkError(pc.BaseDir, rec, err); saveErr != nil {
			pc.Logger.Error("failed to persist error to state", "error", saveErr)
		}
	}
	body := workflow.FormatIssueMessage(pc.WorkflowID, agentName, "❌ "+message, "")
	if postErr := pc.Tracker.PostComment(ctx, issueNumber, body); postErr != nil {
		pc.Logger.Error("failed to post failure comment", "error", postErr)
	}
	return err
}

// issueNumberFromState parses rec.IssueID back into an int, for phases
// after the first one in a workflow that only ever receive a workflow-id.
func issueNumberFromState(rec *types.WorkflowRecord) (int, error) {
	var n int
	if _, err := fmt.Sscanf(rec.IssueID, "%d", &n); err != nil {
		return 0, fmt.Errorf("phase: invalid issue id %q: %w", rec.IssueID, err)
	}
	return n, nil
}

// phaseAfter returns the phase declared immediately after current in
// kind's phase list, and false if current is the list's last entry (or
// isn't in it at all) — the composite workflow ends there and it's left
// to the pipeline executor's final PR step to advance further.
func phaseAfter(kind types.WorkflowKind, current types.Phase) (types.Phase, bool) {
	phases := types.WorkflowPhases[kind]
	for i, p := range phases {
		if p == current && i+1 < len(phases) {
			return phases[i+1], true
		}
	}
	return "", false
}
