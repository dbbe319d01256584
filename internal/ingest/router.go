// Package ingest holds the two event front-ends — the poller and the
// webhook receiver — plus the keyword router they share to decide which
// workflow a comment or new issue should start.
package ingest

import (
	"sort"
	"strings"

	"github.com/adw-sh/adw/internal/types"
)

// keywordWorkflows maps each trigger keyword to the workflow it starts.
// "adw" and "adw_plan_build" are synonyms for the same default workflow.
var keywordWorkflows = map[string]types.WorkflowKind{
	"adw":                         types.WorkflowPlanBuild,
	"adw_plan_build":              types.WorkflowPlanBuild,
	"adw_sdlc":                    types.WorkflowSDLC,
	"adw_patch":                   types.WorkflowPatch,
	"adw_plan_build_test":         types.WorkflowPlanBuildTest,
	"adw_plan_build_review":       types.WorkflowPlanBuildReview,
	"adw_plan_build_test_review":  types.WorkflowPlanBuildTestReview,
}

// orderedKeywords lists every keyword longest-first so a prefix keyword
// (e.g. "adw") never shadows a longer one that starts with it (e.g.
// "adw_plan_build_test_review") — testable property #7.
var orderedKeywords = sortedKeywordsDescending()

func sortedKeywordsDescending() []string {
	keys := make([]string, 0, len(keywordWorkflows))
	for k := range keywordWorkflows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}

// MatchKeyword lowercases candidate and returns the longest keyword it
// starts with, along with the workflow it routes to. ok is false if no
// keyword matches.
func MatchKeyword(candidate string) (types.WorkflowKind, bool) {
	lower := strings.ToLower(strings.TrimSpace(candidate))
	for _, kw := range orderedKeywords {
		if strings.HasPrefix(lower, kw) {
			return keywordWorkflows[kw], true
		}
	}
	return "", false
}

// MatchCommentBody scans a (possibly multi-line) comment body line by
// line, matching if any line starts with a keyword — this accommodates
// comments that pair a keyword with an attached image on its own line.
func MatchCommentBody(body string) (types.WorkflowKind, bool) {
	for _, line := range strings.Split(body, "\n") {
		if kind, ok := MatchKeyword(strings.TrimSpace(line)); ok {
			return kind, ok
		}
	}
	return "", false
}
