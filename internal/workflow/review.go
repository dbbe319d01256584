package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adw-sh/adw/internal/agentrun"
	"github.com/adw-sh/adw/internal/types"
)

const (
	AgentReviewer = "code_reviewer"

	// MaxReviewAttempts bounds the review phase's review->fix->re-review loop.
	MaxReviewAttempts = 3
)

// reviewPayload is the JSON shape the /review template is expected to
// produce.
type reviewPayload struct {
	Approved    bool                `json:"approved"`
	Issues      []types.ReviewIssue `json:"issues"`
	Screenshots []string            `json:"screenshots"`
	Summary     string              `json:"summary"`
}

// RunReview invokes the /review template with the current screenshot set
// attached as image references, so the agent can look at what it built.
func RunReview(ctx context.Context, runner *agentrun.Runner, workflowID string, screenshots []string) (types.AgentResponse, error) {
	resp, err := runner.Template(ctx, types.TemplateRequest{
		AgentName:    AgentReviewer,
		SlashCommand: types.CmdReview,
		WorkflowID:   workflowID,
		ImagePaths:   screenshots,
		Model:        types.ModelOpus,
	})
	if err != nil {
		return types.AgentResponse{}, fmt.Errorf("workflow: run review: %w", err)
	}
	return resp, nil
}

// ParseReviewResult parses the /review output as JSON {approved, issues[],
// screenshots[], summary}; on parse failure it falls back to a heuristic:
// the presence of the word "blocker" without the word "approved" is
// treated as unapproved with a single generic blocker issue pointing at
// the summary, everything else is
// treated as approved (conservative parsing would otherwise stall a clean
// review behind a formatting slip).
func ParseReviewResult(text string) types.ReviewAttempt {
	var payload reviewPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err == nil {
		return types.ReviewAttempt{
			Approved:        payload.Approved,
			Issues:          payload.Issues,
			ScreenshotPaths: payload.Screenshots,
			Summary:         payload.Summary,
		}
	}

	lower := strings.ToLower(text)
	hasBlocker := strings.Contains(lower, "blocker")
	hasApproved := strings.Contains(lower, "approved")

	attempt := types.ReviewAttempt{Summary: text}
	if hasBlocker && !hasApproved {
		attempt.Approved = false
		attempt.Issues = []types.ReviewIssue{{
			Severity:    types.SeverityBlocker,
			Description: "unstructured review output flagged a blocker; see summary",
		}}
		return attempt
	}
	attempt.Approved = true
	return attempt
}

// HasBlockers reports whether any issue in attempt is a blocker.
func HasBlockers(attempt types.ReviewAttempt) bool {
	for _, issue := range attempt.Issues {
		if issue.Severity == types.SeverityBlocker {
			return true
		}
	}
	return false
}

// BlockerDigest renders every blocker finding as a single prompt the
// agent can act on with /implement.
func BlockerDigest(attempt types.ReviewAttempt) string {
	var b strings.Builder
	b.WriteString("Fix the following review blockers:\n\n")
	for _, issue := range attempt.Issues {
		if issue.Severity != types.SeverityBlocker {
			continue
		}
		if issue.Line != nil {
			fmt.Fprintf(&b, "- %s:%d: %s\n", issue.File, *issue.Line, issue.Description)
		} else {
			fmt.Fprintf(&b, "- %s: %s\n", issue.File, issue.Description)
		}
	}
	return b.String()
}
