package ingest

import (
	"testing"

	"github.com/adw-sh/adw/internal/types"
)

func TestMatchKeyword(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want types.WorkflowKind
		ok   bool
	}{
		{"bare adw", "adw please take a look", types.WorkflowPlanBuild, true},
		{"sdlc", "adw_sdlc go", types.WorkflowSDLC, true},
		{"patch", "adw_patch fix the typo", types.WorkflowPatch, true},
		{"longest wins over prefix", "adw_plan_build_test_review now", types.WorkflowPlanBuildTestReview, true},
		{"plan_build_test not shadowed by plan_build", "adw_plan_build_test go", types.WorkflowPlanBuildTest, true},
		{"case insensitive", "ADW_SDLC", types.WorkflowSDLC, true},
		{"no match", "please fix this", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MatchKeyword(tc.in)
			if ok != tc.ok {
				t.Fatalf("MatchKeyword(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("MatchKeyword(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMatchCommentBody(t *testing.T) {
	body := "Here's a screenshot:\n![img](https://example.com/a.png)\nadw_plan_build_review\n"
	kind, ok := MatchCommentBody(body)
	if !ok || kind != types.WorkflowPlanBuildReview {
		t.Fatalf("MatchCommentBody = %q, %v, want %q, true", kind, ok, types.WorkflowPlanBuildReview)
	}

	if _, ok := MatchCommentBody("no keyword here at all"); ok {
		t.Fatalf("expected no match")
	}
}
