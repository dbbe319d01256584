// Package state is the orchestrator's durable record of in-flight
// workflows: one JSON document per workflow ID, read and rewritten by
// whichever phase command is currently running.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adw-sh/adw/internal/types"
)

// Dir returns the per-workflow directory: <baseDir>/agents/<workflowID>.
func Dir(baseDir, workflowID string) string {
	return filepath.Join(baseDir, "agents", workflowID)
}

// Path returns the state file path for a workflow ID.
func Path(baseDir, workflowID string) string {
	return filepath.Join(Dir(baseDir, workflowID), "adw_state.json")
}

// Create initializes a new workflow record and persists it immediately.
func Create(baseDir, workflowID, issueID string, kind types.WorkflowKind) (*types.WorkflowRecord, error) {
	phases, ok := types.WorkflowPhases[kind]
	if !ok || len(phases) == 0 {
		return nil, fmt.Errorf("state: unknown workflow kind %q", kind)
	}
	now := nowFunc()
	rec := &types.WorkflowRecord{
		WorkflowID:      workflowID,
		IssueID:         issueID,
		WorkflowKind:    kind,
		CurrentPhase:    phases[0],
		CompletedPhases: []types.Phase{},
		TestAttempts:    []types.TestAttempt{},
		ReviewAttempts:  []types.ReviewAttempt{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := Save(baseDir, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Load reads an existing workflow record from disk.
func Load(baseDir, workflowID string) (*types.WorkflowRecord, error) {
	data, err := os.ReadFile(Path(baseDir, workflowID))
	if err != nil {
		return nil, fmt.Errorf("state: load %s: %w", workflowID, err)
	}
	var rec types.WorkflowRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("state: parse %s: %w", workflowID, err)
	}
	return &rec, nil
}

// Save writes rec to disk, refreshing UpdatedAt and creating the workflow
// directory if needed.
func Save(baseDir string, rec *types.WorkflowRecord) error {
	dir := Dir(baseDir, rec.WorkflowID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: mkdir %s: %w", dir, err)
	}
	rec.UpdatedAt = nowFunc()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshal %s: %w", rec.WorkflowID, err)
	}
	if err := os.WriteFile(Path(baseDir, rec.WorkflowID), data, 0o644); err != nil {
		return fmt.Errorf("state: write %s: %w", rec.WorkflowID, err)
	}
	return nil
}

// Advance marks the current phase completed, moves to next, and persists.
// next is not checked against the workflow's declared phase list; callers
// are responsible for passing the phase that follows.
func Advance(baseDir string, rec *types.WorkflowRecord, next types.Phase) error {
	rec.CompletedPhases = append(rec.CompletedPhases, rec.CurrentPhase)
	rec.CurrentPhase = next
	return Save(baseDir, rec)
}

// MarkError records a fatal error on the workflow without advancing phase.
func MarkError(baseDir string, rec *types.WorkflowRecord, err error) error {
	rec.Error = err.Error()
	return Save(baseDir, rec)
}

// nowFunc is indirected so tests can freeze time.
var nowFunc = defaultNow
