// Package workflow holds the operations shared across phase commands:
// classifying an issue, building and locating a plan, running the
// implementor, and the e2e screenshot capture used ahead of review.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adw-sh/adw/internal/agentrun"
	"github.com/adw-sh/adw/internal/tracker"
	"github.com/adw-sh/adw/internal/types"
)

const (
	AgentPlanner    = "sdlc_planner"
	AgentImplementor = "sdlc_implementor"
	AgentClassifier  = "issue_classifier"
	AgentPlanFinder  = "plan_finder"
)

var validClasses = []types.IssueClass{types.ClassChore, types.ClassBug, types.ClassFeature}

// FormatIssueMessage renders a tracker-comment prefix that ties a message
// back to the workflow, agent, and (when available) agent session that
// produced it: "<workflow-id>_<agent-name>[_<session-id>]: <message>".
func FormatIssueMessage(workflowID, agentName, message, sessionID string) string {
	if sessionID != "" {
		return fmt.Sprintf("%s_%s_%s: %s", workflowID, agentName, sessionID, message)
	}
	return fmt.Sprintf("%s_%s: %s", workflowID, agentName, message)
}

// CheckError posts err (if non-nil) to the tracked issue as a formatted
// comment and returns it wrapped with errorPrefix so callers can
// propagate it upward;
// callers at the cobra command boundary turn a non-nil return into
// os.Exit(1), mirroring the original scripts' "post then exit 1"
// contract without embedding an exit call this deep in the library.
func CheckError(ctx context.Context, client *tracker.Client, issueNumber int, workflowID, agentName, errorPrefix string, err error, logger *slog.Logger) error {
	if err == nil {
		return nil
	}
	logger.Error(errorPrefix, "error", err)
	msg := FormatIssueMessage(workflowID, agentName, fmt.Sprintf("❌ %s: %s", errorPrefix, err), "")
	if postErr := client.PostComment(ctx, issueNumber, msg); postErr != nil {
		logger.Error("failed to post error comment", "error", postErr)
	}
	return fmt.Errorf("%s: %w", errorPrefix, err)
}

// Classify asks the agent to pick /chore, /bug, or /feature for issue.
// The agent's raw answer is parsed tolerantly: surrounding backticks are
// trimmed, a bare "0" means "couldn't decide", an exact match wins
// outright, and otherwise we fall back to a case-insensitive substring
// search so a verbose answer like "I'd classify this as a bug" still
// resolves.
func Classify(ctx context.Context, runner *agentrun.Runner, issue types.Issue, workflowID string) (types.IssueClass, error) {
	body, err := json.MarshalIndent(issue, "", "  ")
	if err != nil {
		return "", fmt.Errorf("workflow: marshal issue: %w", err)
	}

	resp, err := runner.Template(ctx, types.TemplateRequest{
		AgentName:    AgentClassifier,
		SlashCommand: types.CmdClassifyIssue,
		Args:         []string{string(body)},
		WorkflowID:   workflowID,
		Model:        types.ModelSonnet,
	})
	if err != nil {
		return "", fmt.Errorf("workflow: classify issue: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("workflow: classify issue: %s", resp.Text)
	}

	return parseClassification(resp.Text)
}

// parseClassification implements the tolerant parsing described on
// Classify, split out so it can be exercised without spawning an agent.
func parseClassification(text string) (types.IssueClass, error) {
	raw := strings.Trim(strings.TrimSpace(text), "`")
	if raw == "0" {
		return "", fmt.Errorf("workflow: no command selected: %s", text)
	}

	for _, c := range validClasses {
		if raw == string(c) {
			return c, nil
		}
	}

	lower := strings.ToLower(text)
	for _, c := range validClasses {
		if strings.Contains(lower, string(c)) || strings.Contains(lower, strings.TrimPrefix(string(c), "/")) {
			return c, nil
		}
	}

	return "", fmt.Errorf("workflow: invalid command selected: %s", text)
}

// BuildPlan asks the agent to write an implementation plan for issue
// using the slash command its classification selected.
func BuildPlan(ctx context.Context, runner *agentrun.Runner, issue types.Issue, class types.IssueClass, workflowID string, imagePaths []string) (types.AgentResponse, error) {
	resp, err := runner.Template(ctx, types.TemplateRequest{
		AgentName:    AgentPlanner,
		SlashCommand: types.SlashCommand(class),
		Args:         []string{issue.Title + ": " + issue.Body},
		WorkflowID:   workflowID,
		ImagePaths:   imagePaths,
		Model:        types.ModelOpus,
	})
	if err != nil {
		return types.AgentResponse{}, fmt.Errorf("workflow: build plan: %w", err)
	}
	return resp, nil
}

// FindPlanFile asks the agent to locate the plan file path it just wrote,
// from the raw plan output. A bare "0" means none was found; any answer
// without a path separator is rejected as unusable rather than trusted.
func FindPlanFile(ctx context.Context, runner *agentrun.Runner, planOutput, workflowID string) (string, error) {
	resp, err := runner.Template(ctx, types.TemplateRequest{
		AgentName:    AgentPlanFinder,
		SlashCommand: types.CmdFindPlanFile,
		Args:         []string{planOutput},
		WorkflowID:   workflowID,
		Model:        types.ModelSonnet,
	})
	if err != nil {
		return "", fmt.Errorf("workflow: find plan file: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("workflow: find plan file: %s", resp.Text)
	}

	return parsePlanFilePath(resp.Text)
}

// parsePlanFilePath implements the tolerant parsing described on
// FindPlanFile, split out so it can be exercised without spawning an agent.
func parsePlanFilePath(text string) (string, error) {
	path := strings.TrimSpace(text)
	switch {
	case path == "0":
		return "", fmt.Errorf("workflow: no plan file found in output")
	case path != "" && strings.Contains(path, "/"):
		return path, nil
	default:
		return "", fmt.Errorf("workflow: invalid file path response: %s", path)
	}
}

// ImplementPlan asks the agent to implement planFile.
func ImplementPlan(ctx context.Context, runner *agentrun.Runner, planFile, workflowID string) (types.AgentResponse, error) {
	resp, err := runner.Template(ctx, types.TemplateRequest{
		AgentName:    AgentImplementor,
		SlashCommand: types.CmdImplement,
		Args:         []string{planFile},
		WorkflowID:   workflowID,
		Model:        types.ModelOpus,
	})
	if err != nil {
		return types.AgentResponse{}, fmt.Errorf("workflow: implement plan: %w", err)
	}
	return resp, nil
}

// RunE2EScreenshots runs the frontend's Playwright suite (bounded to 300s)
// and collects every *.png it leaves under test-results/, regardless of
// the suite's own exit code — a failing assertion still produces useful
// evidence for review. Failures to even launch Playwright are logged and
// swallowed: e2e capture is best-effort and must never block review.
func RunE2EScreenshots(frontendDir string, logger *slog.Logger) []string {
	resultsDir := filepath.Join(frontendDir, "test-results")

	if entries, err := filepath.Glob(filepath.Join(resultsDir, "**", "*.png")); err == nil {
		for _, old := range entries {
			os.Remove(old)
		}
	}

	logger.Info("running e2e tests for screenshots")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "npx", "playwright", "test", "--reporter=list")
	cmd.Dir = frontendDir
	cmd.Env = safeSubprocessEnv()
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			logger.Warn("playwright timed out after 300s")
		} else {
			logger.Warn("playwright execution failed", "error", err)
		}
	}

	screenshots := collectPNGs(resultsDir)
	logger.Info("collected screenshots from e2e tests", "count", len(screenshots))
	return screenshots
}

func collectPNGs(resultsDir string) []string {
	var out []string
	filepath.Walk(resultsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".png") {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out
}

// safeSubprocessEnv strips CLAUDECODE so Playwright's own subprocesses
// (and anything it shells out to) don't think they're running nested
// inside a Claude Code session.
func safeSubprocessEnv() []string {
	env := os.Environ()
	out := env[:0]
	for _, kv := range env {
		if strings.HasPrefix(kv, "CLAUDECODE=") {
			continue
		}
		out = append(out, kv)
	}
	return out
}
