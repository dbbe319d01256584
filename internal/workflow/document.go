package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adw-sh/adw/internal/agentrun"
	"github.com/adw-sh/adw/internal/types"
)

const AgentDocumenter = "documenter"

type documentPayload struct {
	FilesCreated []string `json:"files_created"`
	Summary      string   `json:"summary"`
}

// Document invokes /document <plan-file> and returns the raw response;
// parsing happens separately (ParseDocumentationResult) since a
// documentation failure is non-fatal and the phase unit still wants to
// log the raw text either way.
func Document(ctx context.Context, runner *agentrun.Runner, planFile, workflowID string) (types.AgentResponse, error) {
	resp, err := runner.Template(ctx, types.TemplateRequest{
		AgentName:    AgentDocumenter,
		SlashCommand: types.CmdDocument,
		Args:         []string{planFile},
		WorkflowID:   workflowID,
		Model:        types.ModelSonnet,
	})
	if err != nil {
		return types.AgentResponse{}, fmt.Errorf("workflow: document: %w", err)
	}
	return resp, nil
}

// ParseDocumentationResult parses /document's JSON {files_created[],
// summary} output; on parse failure it returns the raw text as the
// summary with no files recorded, rather than failing — documentation is
// always best-effort.
func ParseDocumentationResult(text string) types.DocumentationResult {
	var payload documentPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err == nil {
		return types.DocumentationResult{FilesCreated: payload.FilesCreated, Summary: payload.Summary}
	}
	return types.DocumentationResult{Summary: text}
}
