// Package health implements the orchestrator's health probe: a series
// of environment and collaborator checks an operator (or a deploy
// script) runs before trusting the orchestrator to pick up issues.
package health

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/adw-sh/adw/internal/agentrun"
	"github.com/adw-sh/adw/internal/tracker"
	"github.com/adw-sh/adw/internal/types"
)

// Status mirrors the teacher's doctor command's three-tier result, kept
// rather than collapsed to a bool so a missing optional collaborator
// (e.g. no tracker token, falling back to gh's own auth) can be reported
// without failing the whole probe.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Check is one health probe result.
type Check struct {
	Name     string `json:"name"`
	Status   Status `json:"status"`
	Detail   string `json:"detail"`
	Required bool   `json:"required"`
}

// Report is the full probe result, shaped to answer both the CLI `adw
// health` command and the webhook receiver's GET /health.
type Report struct {
	Checks   []Check  `json:"checks"`
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Options carries what the probe needs to exercise live collaborators.
// Runner and Client are optional: a nil Runner skips the agent
// liveliness check, a nil Client skips the tracker auth check — useful
// for running the probe before those collaborators can be constructed.
type Options struct {
	Runner       *agentrun.Runner
	Client       *tracker.Client
	FrontendDir  string
	AgentCommand string
}

// Run executes every check and aggregates them into a Report.
func Run(ctx context.Context, opts Options) Report {
	var checks []Check
	checks = append(checks, checkEnvVars()...)
	checks = append(checks, checkAgentBinary(opts.AgentCommand))
	checks = append(checks, checkVCSRemote())
	checks = append(checks, checkTrackerAuth(ctx, opts.Client))
	checks = append(checks, checkAgentLiveness(ctx, opts.Runner))
	if opts.FrontendDir != "" {
		checks = append(checks, checkPlaywright(opts.FrontendDir))
	}

	return aggregate(checks)
}

func aggregate(checks []Check) Report {
	r := Report{Checks: checks, Success: true}
	for _, c := range checks {
		switch c.Status {
		case StatusFail:
			r.Errors = append(r.Errors, fmt.Sprintf("%s: %s", c.Name, c.Detail))
			if c.Required {
				r.Success = false
			}
		case StatusWarn:
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %s", c.Name, c.Detail))
		}
	}
	return r
}

// checkEnvVars verifies the tracker token and the conventional shell
// passthrough vars. The token is optional (a missing one only warns,
// since the tracker CLI may carry its own authentication); HOME, USER
// and PATH are required and fail the check when unset.
func checkEnvVars() []Check {
	var out []Check

	if tracker.ResolveToken() != "" {
		out = append(out, Check{Name: "tracker token", Status: StatusPass, Detail: "GITHUB_PAT or GH_TOKEN set"})
	} else {
		out = append(out, Check{Name: "tracker token", Status: StatusWarn, Detail: "no GITHUB_PAT/GH_TOKEN; relying on gh CLI auth"})
	}

	for _, v := range []string{"HOME", "USER", "PATH"} {
		if os.Getenv(v) == "" {
			out = append(out, Check{Name: "env " + v, Status: StatusFail, Detail: "not set", Required: true})
		} else {
			out = append(out, Check{Name: "env " + v, Status: StatusPass, Detail: "set"})
		}
	}
	return out
}

func checkAgentBinary(command string) Check {
	if command == "" {
		command = "claude"
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return Check{Name: "agent binary", Status: StatusFail, Detail: fmt.Sprintf("%q not found on PATH", command), Required: true}
	}
	return Check{Name: "agent binary", Status: StatusPass, Detail: path}
}

func checkVCSRemote() Check {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	out, err := cmd.Output()
	if err != nil {
		return Check{Name: "vcs remote", Status: StatusFail, Detail: "no 'origin' remote configured", Required: true}
	}
	return Check{Name: "vcs remote", Status: StatusPass, Detail: string(out)}
}

func checkTrackerAuth(ctx context.Context, client *tracker.Client) Check {
	if client == nil {
		return Check{Name: "tracker auth", Status: StatusWarn, Detail: "tracker client not configured for this check"}
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := client.ListOpenIssues(ctx); err != nil {
		return Check{Name: "tracker auth", Status: StatusFail, Detail: err.Error(), Required: true}
	}
	return Check{Name: "tracker auth", Status: StatusPass, Detail: fmt.Sprintf("authenticated against %s/%s", client.Repo.Owner, client.Repo.Repo)}
}

// checkAgentLiveness runs a trivial one-shot prompt through the agent
// CLI; a slow or misconfigured agent binary fails loudly here instead of
// partway through a real workflow.
func checkAgentLiveness(ctx context.Context, runner *agentrun.Runner) Check {
	if runner == nil {
		return Check{Name: "agent liveness", Status: StatusWarn, Detail: "agent runner not configured for this check"}
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	outputFile := filepath.Join(runner.BaseDir, "agents", "_health", "health_probe", "raw_output.jsonl")
	resp, err := runner.Prompt(ctx, types.AgentRequest{
		AgentName:  "health_probe",
		WorkflowID: "_health",
		Prompt:     "Reply with the single word OK.",
		Model:      types.ModelSonnet,
		OutputFile: outputFile,
	})
	if err != nil {
		return Check{Name: "agent liveness", Status: StatusFail, Detail: err.Error(), Required: true}
	}
	if !resp.Success {
		return Check{Name: "agent liveness", Status: StatusFail, Detail: "agent returned an error result", Required: true}
	}
	return Check{Name: "agent liveness", Status: StatusPass, Detail: "agent responded successfully"}
}

// checkPlaywright verifies the frontend's end-to-end screenshot tooling
// is reachable, when a frontend directory is configured.
func checkPlaywright(frontendDir string) Check {
	cmd := exec.Command("npx", "--no-install", "playwright", "--version")
	cmd.Dir = frontendDir
	if err := cmd.Run(); err != nil {
		return Check{Name: "playwright", Status: StatusWarn, Detail: "playwright not installed in " + frontendDir}
	}
	return Check{Name: "playwright", Status: StatusPass, Detail: "available"}
}
