package hooks

import "testing"

func TestEvaluatePreToolUse_DestructiveRm(t *testing.T) {
	cases := []struct {
		name    string
		command string
		blocked bool
	}{
		{"rf root", "rm -rf /", true},
		{"fr root", "rm -fr /", true},
		{"rf home", "rm -rf ~", true},
		{"rf cwd dot", "rm -rf .", true},
		{"interleaved flags", "rm -frv /", true},
		{"embedded in compound command", "echo hi && rm -rf / && echo bye", true},
		{"non-destructive rm", "rm -rf ./build", false},
		{"rm without force", "rm -r /tmp/scratch", false},
		{"unrelated command", "ls -la /", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Payload{ToolName: "Bash", ToolInput: map[string]any{"command": tc.command}}
			blocked, msg := EvaluatePreToolUse(p)
			if blocked != tc.blocked {
				t.Fatalf("EvaluatePreToolUse(%q) blocked = %v, want %v (msg=%q)", tc.command, blocked, tc.blocked, msg)
			}
		})
	}
}

func TestEvaluatePreToolUse_ExactMessage(t *testing.T) {
	p := Payload{ToolName: "Bash", ToolInput: map[string]any{"command": "rm -rf /"}}
	blocked, msg := EvaluatePreToolUse(p)
	if !blocked {
		t.Fatalf("expected block")
	}
	want := "Blocked: destructive rm command: rm -rf /"
	if msg != want {
		t.Fatalf("message = %q, want %q", msg, want)
	}
}

func TestEvaluatePreToolUse_Dotenv(t *testing.T) {
	cases := []struct {
		name      string
		toolName  string
		toolInput map[string]any
		blocked   bool
	}{
		{"bash cat env", "Bash", map[string]any{"command": "cat .env"}, true},
		{"bash cat env local", "Bash", map[string]any{"command": "cat .env.local"}, true},
		{"read env production", "Read", map[string]any{"file_path": "/app/.env.production"}, true},
		{"write env staging", "Write", map[string]any{"file_path": ".env.staging"}, true},
		{"edit unrelated file", "Edit", map[string]any{"file_path": "main.go"}, false},
		{"read env-like but not dotenv", "Read", map[string]any{"file_path": "environment.go"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Payload{ToolName: tc.toolName, ToolInput: tc.toolInput}
			blocked, _ := EvaluatePreToolUse(p)
			if blocked != tc.blocked {
				t.Fatalf("EvaluatePreToolUse(%+v) blocked = %v, want %v", p, blocked, tc.blocked)
			}
		})
	}
}

func TestEvaluatePreToolUse_UnguardedTool(t *testing.T) {
	p := Payload{ToolName: "Glob", ToolInput: map[string]any{"pattern": "**/*.go"}}
	if blocked, _ := EvaluatePreToolUse(p); blocked {
		t.Fatalf("expected unguarded tool to pass")
	}
}
