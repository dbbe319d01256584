package agentrun

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adw-sh/adw/internal/types"
)

func TestModelForCommandKnownMappings(t *testing.T) {
	cases := map[types.SlashCommand]types.Model{
		types.CmdImplement:     types.ModelOpus,
		types.CmdReview:        types.ModelOpus,
		types.CmdPatch:         types.ModelOpus,
		types.CmdClassifyIssue: types.ModelSonnet,
		types.CmdCommit:        types.ModelSonnet,
		types.CmdTest:          types.ModelSonnet,
	}
	for cmd, want := range cases {
		if got := ModelForCommand(cmd); got != want {
			t.Errorf("ModelForCommand(%q) = %q, want %q", cmd, got, want)
		}
	}
}

func TestModelForCommandUnknownDefaultsToSonnet(t *testing.T) {
	if got := ModelForCommand(types.SlashCommand("/made_up_command")); got != types.ModelSonnet {
		t.Errorf("ModelForCommand(unknown) = %q, want sonnet", got)
	}
}

func TestSavePromptExtractsLeadingSlashCommand(t *testing.T) {
	dir := t.TempDir()
	if err := SavePrompt(dir, "/implement build the widget", "wf1", "builder"); err != nil {
		t.Fatalf("SavePrompt: %v", err)
	}

	path := filepath.Join(dir, "agents", "wf1", "builder", "prompts", "implement.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected prompt file at %s: %v", path, err)
	}
	if string(data) != "/implement build the widget" {
		t.Errorf("prompt content = %q", data)
	}
}

func TestSavePromptSkipsNonSlashPrompts(t *testing.T) {
	dir := t.TempDir()
	if err := SavePrompt(dir, "plain text prompt with no command", "wf1", "builder"); err != nil {
		t.Fatalf("SavePrompt: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "agents"))
	if len(entries) != 0 {
		t.Errorf("expected no files written for non-slash prompt, got %v", entries)
	}
}

func TestParseJSONLFileFindsLastResultMessage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw_output.jsonl")
	content := `{"type":"system","subtype":"init"}
{"type":"assistant","message":{"content":[{"type":"text","text":"working"}]}}
{"type":"result","subtype":"success","is_error":false,"result":"done","session_id":"sess-1","duration_ms":1200,"num_turns":3,"total_cost_usd":0.05}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	messages, result, err := ParseJSONLFile(path)
	if err != nil {
		t.Fatalf("ParseJSONLFile: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("len(messages) = %d, want 3", len(messages))
	}
	if result == nil {
		t.Fatal("expected a result message")
	}
	if result.Result != "done" || result.SessionID != "sess-1" || result.IsError {
		t.Errorf("unexpected result payload: %+v", result)
	}
}

func TestParseJSONLFileSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw_output.jsonl")
	content := "{\"type\":\"system\"}\nnot json\n{\"type\":\"result\",\"result\":\"ok\",\"is_error\":false}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	messages, result, err := ParseJSONLFile(path)
	if err != nil {
		t.Fatalf("ParseJSONLFile: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2 (malformed line skipped)", len(messages))
	}
	if result == nil || result.Result != "ok" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestImageRefNoteOnlyListsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.png")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	missing := filepath.Join(dir, "b.png")

	note := imageRefNote([]string{existing, missing})
	if note == "" {
		t.Fatal("expected non-empty note")
	}
	if want := existing; !contains(note, want) {
		t.Errorf("note missing existing path: %s", note)
	}
	if contains(note, missing) {
		t.Errorf("note should not mention missing path: %s", note)
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}
