// Package pipeline composes phase units into the composite workflows
// (plan_build, plan_build_test, plan_build_review, plan_build_test_review,
// sdlc) and the single-unit patch workflow, running each phase as a
// subprocess of the current binary so the CLI-per-phase audit contract
// from the source is preserved even though everything ships as one
// compiled `adw`.
package pipeline

import (
	"strings"

	"github.com/google/uuid"
)

// NewWorkflowID generates an 8-character opaque workflow id from the
// first eight hex digits of a random uuid.
func NewWorkflowID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
