package state

import (
	"errors"
	"testing"

	"github.com/adw-sh/adw/internal/types"
)

func TestCreateSetsFirstDeclaredPhase(t *testing.T) {
	dir := t.TempDir()
	rec, err := Create(dir, "abc123de", "42", types.WorkflowPlanBuildTest)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.CurrentPhase != types.PhasePlan {
		t.Errorf("CurrentPhase = %q, want %q", rec.CurrentPhase, types.PhasePlan)
	}
	if len(rec.CompletedPhases) != 0 {
		t.Errorf("CompletedPhases should start empty, got %v", rec.CompletedPhases)
	}
}

func TestCreateRejectsUnknownWorkflowKind(t *testing.T) {
	dir := t.TempDir()
	if _, err := Create(dir, "abc123de", "42", types.WorkflowKind("bogus")); err == nil {
		t.Fatal("expected error for unknown workflow kind")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec, err := Create(dir, "abc123de", "42", types.WorkflowPlanBuild)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec.BranchName = "feature-42-add-widget"
	if err := Save(dir, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir, "abc123de")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BranchName != rec.BranchName {
		t.Errorf("BranchName = %q, want %q", loaded.BranchName, rec.BranchName)
	}
	if loaded.WorkflowID != "abc123de" {
		t.Errorf("WorkflowID = %q, want abc123de", loaded.WorkflowID)
	}
}

func TestAdvanceAppendsCompletedPhaseInOrder(t *testing.T) {
	dir := t.TempDir()
	rec, err := Create(dir, "abc123de", "42", types.WorkflowPlanBuildTest)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := Advance(dir, rec, types.PhaseBuild); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := Advance(dir, rec, types.PhaseTest); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	want := []types.Phase{types.PhasePlan, types.PhaseBuild}
	if len(rec.CompletedPhases) != len(want) {
		t.Fatalf("CompletedPhases = %v, want %v", rec.CompletedPhases, want)
	}
	for i, p := range want {
		if rec.CompletedPhases[i] != p {
			t.Errorf("CompletedPhases[%d] = %q, want %q", i, rec.CompletedPhases[i], p)
		}
	}
	if rec.CurrentPhase != types.PhaseTest {
		t.Errorf("CurrentPhase = %q, want %q", rec.CurrentPhase, types.PhaseTest)
	}
}

func TestMarkErrorPersistsMessageWithoutAdvancing(t *testing.T) {
	dir := t.TempDir()
	rec, err := Create(dir, "abc123de", "42", types.WorkflowPlanBuild)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before := rec.CurrentPhase

	if err := MarkError(dir, rec, errors.New("agent exited 1")); err != nil {
		t.Fatalf("MarkError: %v", err)
	}

	loaded, err := Load(dir, "abc123de")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Error != "agent exited 1" {
		t.Errorf("Error = %q, want %q", loaded.Error, "agent exited 1")
	}
	if loaded.CurrentPhase != before {
		t.Errorf("CurrentPhase changed on MarkError: got %q, want %q", loaded.CurrentPhase, before)
	}
}

func TestLoadMissingWorkflowReturnsError(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir, "doesnotexist"); err == nil {
		t.Fatal("expected error loading missing workflow")
	}
}
