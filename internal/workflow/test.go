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
	AgentTester       = "test_runner"
	AgentTestResolver = "test_resolver"

	// MaxTestAttempts bounds the test phase's run->resolve->retest loop.
	MaxTestAttempts = 4
)

// RunTests invokes the /test template and returns the raw agent response;
// parsing into suite results is the caller's job (ParseTestResults) so the
// phase unit can record the raw text even when parsing falls back to the
// heuristic.
func RunTests(ctx context.Context, runner *agentrun.Runner, workflowID string) (types.AgentResponse, error) {
	resp, err := runner.Template(ctx, types.TemplateRequest{
		AgentName:    AgentTester,
		SlashCommand: types.CmdTest,
		WorkflowID:   workflowID,
		Model:        types.ModelSonnet,
	})
	if err != nil {
		return types.AgentResponse{}, fmt.Errorf("workflow: run tests: %w", err)
	}
	return resp, nil
}

// ResolveFailedTest invokes /resolve_failed_test with a digest of the
// failing suites' output.
func ResolveFailedTest(ctx context.Context, runner *agentrun.Runner, failureDigest, workflowID string) (types.AgentResponse, error) {
	resp, err := runner.Template(ctx, types.TemplateRequest{
		AgentName:    AgentTestResolver,
		SlashCommand: types.CmdResolveFailedTest,
		Args:         []string{failureDigest},
		WorkflowID:   workflowID,
		Model:        types.ModelOpus,
	})
	if err != nil {
		return types.AgentResponse{}, fmt.Errorf("workflow: resolve failed test: %w", err)
	}
	return resp, nil
}

// ParseTestResults parses the agent's /test output. It is tried first as
// a JSON array of types.SuiteResult; on parse failure it falls back to a
// heuristic substring match on "all tests passed" so a prose response
// still yields a usable (if coarse) result rather than aborting the loop.
func ParseTestResults(text string) []types.SuiteResult {
	var results []types.SuiteResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &results); err == nil && len(results) > 0 {
		return results
	}

	passed := strings.Contains(strings.ToLower(text), "all tests passed")
	return []types.SuiteResult{{
		Suite:  "heuristic",
		Passed: passed,
		Output: text,
	}}
}

// AllPassed reports whether every suite result passed.
func AllPassed(results []types.SuiteResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// FailureDigest concatenates the output of every failing suite into a
// single block for /resolve_failed_test to read.
func FailureDigest(results []types.SuiteResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.Passed {
			continue
		}
		fmt.Fprintf(&b, "## %s\n%s\n", r.Suite, r.Output)
		if r.Error != "" {
			fmt.Fprintf(&b, "error: %s\n", r.Error)
		}
	}
	return b.String()
}
