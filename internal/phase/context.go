// Package phase implements each unit of the orchestrator's pipeline —
// plan, build, test, review, document, and the single-shot patch — as a
// function over a shared Context. Each unit loads its own state, does its
// work, and persists the result; the pipeline executor (internal/pipeline)
// is what actually chains them together across process boundaries.
package phase

import (
	"log/slog"

	"github.com/adw-sh/adw/internal/agentrun"
	"github.com/adw-sh/adw/internal/tracker"
	"github.com/adw-sh/adw/internal/vcs"
)

// Context bundles the collaborators every phase needs.
type Context struct {
	BaseDir     string
	WorkflowID  string
	Runner      *agentrun.Runner
	Tracker     *tracker.Client
	VCS         *vcs.Gateway
	Logger      *slog.Logger
	FrontendDir string
}
