package health

import "testing"

func TestAggregate_RequiredFailureFailsReport(t *testing.T) {
	checks := []Check{
		{Name: "a", Status: StatusPass, Detail: "ok"},
		{Name: "b", Status: StatusFail, Detail: "missing", Required: true},
	}
	r := aggregate(checks)
	if r.Success {
		t.Fatalf("expected Success=false with a required failure")
	}
	if len(r.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(r.Errors))
	}
}

func TestAggregate_OptionalFailureWarnsOnly(t *testing.T) {
	checks := []Check{
		{Name: "a", Status: StatusWarn, Detail: "no token"},
	}
	r := aggregate(checks)
	if !r.Success {
		t.Fatalf("expected Success=true when only warnings present")
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(r.Warnings))
	}
}

func TestAggregate_AllPass(t *testing.T) {
	checks := []Check{
		{Name: "a", Status: StatusPass, Detail: "ok"},
		{Name: "b", Status: StatusPass, Detail: "ok"},
	}
	r := aggregate(checks)
	if !r.Success || len(r.Errors) != 0 || len(r.Warnings) != 0 {
		t.Fatalf("expected clean success report, got %+v", r)
	}
}
