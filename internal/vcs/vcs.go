// Package vcs drives source-control operations — branch naming, commits,
// and pull requests — through the coding agent's slash-command templates
// rather than scripting git directly, so the agent's own judgment about
// commit message style and PR descriptions stays in the loop.
package vcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/adw-sh/adw/internal/agentrun"
	"github.com/adw-sh/adw/internal/types"
)

const (
	agentBranchGenerator = "branch_generator"
	agentPRCreator       = "pr_creator"
)

// Gateway issues VCS operations via an agent Runner.
type Gateway struct {
	Runner *agentrun.Runner
}

// NewGateway builds a Gateway over runner.
func NewGateway(runner *agentrun.Runner) *Gateway {
	return &Gateway{Runner: runner}
}

// CreateBranch asks the agent to name and create a branch for the issue,
// returning the branch name it settled on.
func (g *Gateway) CreateBranch(ctx context.Context, issue types.Issue, class types.IssueClass, workflowID string) (string, error) {
	issueType := string(class)
	if len(issueType) > 0 && issueType[0] == '/' {
		issueType = issueType[1:]
	}
	description := fmt.Sprintf("%s: %s", issue.Title, issue.Body)

	resp, err := g.Runner.Template(ctx, types.TemplateRequest{
		AgentName:    agentBranchGenerator,
		SlashCommand: types.CmdGenerateBranchName,
		Args:         []string{issueType, description},
		WorkflowID:   workflowID,
		Model:        types.ModelSonnet,
	})
	if err != nil {
		return "", fmt.Errorf("vcs: generate branch name: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("vcs: generate branch name: %s", resp.Text)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Commit asks the agent to stage and commit the working tree changes,
// returning the commit message it wrote. agentName is suffixed with
// "_committer" so each phase's commit shows up under its own log
// directory rather than colliding with a previous phase's.
func (g *Gateway) Commit(ctx context.Context, agentName, workflowID string) (string, error) {
	resp, err := g.Runner.Template(ctx, types.TemplateRequest{
		AgentName:    agentName + "_committer",
		SlashCommand: types.CmdCommit,
		WorkflowID:   workflowID,
		Model:        types.ModelSonnet,
	})
	if err != nil {
		return "", fmt.Errorf("vcs: commit: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("vcs: commit: %s", resp.Text)
	}
	return strings.TrimSpace(resp.Text), nil
}

// OpenPullRequest asks the agent to open a pull request for the current
// branch, returning its URL.
func (g *Gateway) OpenPullRequest(ctx context.Context, workflowID string) (string, error) {
	resp, err := g.Runner.Template(ctx, types.TemplateRequest{
		AgentName:    agentPRCreator,
		SlashCommand: types.CmdPullRequest,
		WorkflowID:   workflowID,
		Model:        types.ModelSonnet,
	})
	if err != nil {
		return "", fmt.Errorf("vcs: pull request: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("vcs: pull request: %s", resp.Text)
	}
	return strings.TrimSpace(resp.Text), nil
}

