package workflow

import (
	"testing"

	"github.com/adw-sh/adw/internal/types"
)

func TestFormatIssueMessageWithoutSessionID(t *testing.T) {
	got := FormatIssueMessage("abc123de", "sdlc_planner", "built the plan", "")
	want := "abc123de_sdlc_planner: built the plan"
	if got != want {
		t.Errorf("FormatIssueMessage = %q, want %q", got, want)
	}
}

func TestFormatIssueMessageWithSessionID(t *testing.T) {
	got := FormatIssueMessage("abc123de", "sdlc_planner", "built the plan", "sess-9")
	want := "abc123de_sdlc_planner_sess-9: built the plan"
	if got != want {
		t.Errorf("FormatIssueMessage = %q, want %q", got, want)
	}
}

func TestParseClassificationExactMatch(t *testing.T) {
	got, err := parseClassification("/bug")
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	if got != types.ClassBug {
		t.Errorf("got %q, want /bug", got)
	}
}

func TestParseClassificationStripsBackticksAndWhitespace(t *testing.T) {
	got, err := parseClassification("  `/feature`  \n")
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	if got != types.ClassFeature {
		t.Errorf("got %q, want /feature", got)
	}
}

func TestParseClassificationZeroMeansUndecided(t *testing.T) {
	if _, err := parseClassification("0"); err == nil {
		t.Fatal("expected error for '0' response")
	}
}

func TestParseClassificationFallsBackToSubstringMatch(t *testing.T) {
	got, err := parseClassification("I'd classify this as a bug since it's a regression")
	if err != nil {
		t.Fatalf("parseClassification: %v", err)
	}
	if got != types.ClassBug {
		t.Errorf("got %q, want /bug", got)
	}
}

func TestParseClassificationInvalid(t *testing.T) {
	if _, err := parseClassification("I have no idea what this is"); err == nil {
		t.Fatal("expected error for unrecognizable response")
	}
}

func TestParsePlanFilePathValid(t *testing.T) {
	got, err := parsePlanFilePath("  specs/42_add_widget.md  ")
	if err != nil {
		t.Fatalf("parsePlanFilePath: %v", err)
	}
	if got != "specs/42_add_widget.md" {
		t.Errorf("got %q", got)
	}
}

func TestParsePlanFilePathZeroMeansNotFound(t *testing.T) {
	if _, err := parsePlanFilePath("0"); err == nil {
		t.Fatal("expected error for '0' response")
	}
}

func TestParsePlanFilePathRejectsPathWithoutSeparator(t *testing.T) {
	if _, err := parsePlanFilePath("justafilename.md"); err == nil {
		t.Fatal("expected error for path without '/'")
	}
}
