// Package hooks implements the guardrail programs the coding agent
// invokes at well-defined lifecycle points: PreToolUse (block dangerous
// commands), PostToolUse, UserPromptSubmit, PreCompact, and Stop. Each
// hook reads one JSON payload from stdin and, beyond the documented
// stderr+exit-2 block protocol, must never fail visibly to the agent —
// a log-write error is swallowed, not raised.
package hooks

import (
	"regexp"
	"strings"
)

// Event names the agent sends as the hook's invocation context. They are
// not parsed from the payload itself — the orchestrator dispatches to a
// distinct hook subcommand per event — but are recorded in the log line.
const (
	EventPreToolUse       = "PreToolUse"
	EventPostToolUse      = "PostToolUse"
	EventUserPromptSubmit = "UserPromptSubmit"
	EventPreCompact       = "PreCompact"
	EventStop             = "Stop"
)

// Payload is the JSON object the agent writes to the hook's stdin.
// Fields are a union across all five events; only the ones relevant to
// the event actually invoking the hook are populated.
type Payload struct {
	SessionID      string         `json:"session_id"`
	ToolName       string         `json:"tool_name,omitempty"`
	ToolInput      map[string]any `json:"tool_input,omitempty"`
	Prompt         string         `json:"prompt,omitempty"`
	TranscriptPath string         `json:"transcript_path,omitempty"`
}

// destructiveRmPattern matches an `rm` invocation carrying both the
// recursive and force flags (in either -rf or -fr order, with any other
// single-letter flags interleaved) against one of the traditionally
// catastrophic targets: root, the home directory, or the current
// directory.
//
// DESIGN.md decision (source open question #3): the source's regex
// anchored at end-of-string, so `rm -rf / && echo hi` would NOT match.
// We read the intent as "block any rm carrying those flags against
// those targets", not "only when that is the entire command" — a
// destructive rm buried earlier in a compound command is exactly the
// case worth blocking — so this pattern is unanchored and searches the
// whole command string.
var destructiveRmPattern = regexp.MustCompile(
	`\brm\s+(?:-[a-zA-Z]*(?:r[a-zA-Z]*f|f[a-zA-Z]*r)[a-zA-Z]*|--recursive\s+--force|--force\s+--recursive)\s+(/|~|\.)(?:\s|$)`,
)

// dotenvPattern matches any of the four dotenv variants the hook
// protects, as a whole path segment so "my.env.local.bak" doesn't match.
var dotenvPattern = regexp.MustCompile(`(^|[\s/])\.env(\.local|\.production|\.staging)?($|[\s/"'])`)

var guardedToolNames = map[string]bool{
	"Bash":  true,
	"Read":  true,
	"Write": true,
	"Edit":  true,
}

// EvaluatePreToolUse decides whether a tool call should be blocked,
// returning the exact stderr message to print when it is.
func EvaluatePreToolUse(p Payload) (blocked bool, message string) {
	if !guardedToolNames[p.ToolName] {
		return false, ""
	}

	if p.ToolName == "Bash" {
		command, _ := p.ToolInput["command"].(string)
		if destructiveRmPattern.MatchString(command) {
			return true, "Blocked: destructive rm command: " + strings.TrimSpace(command)
		}
		if dotenvPattern.MatchString(command) {
			return true, "Blocked: attempt to access a dotenv file: " + strings.TrimSpace(command)
		}
		return false, ""
	}

	// Read, Write, Edit: the target is a file path, not a command string.
	path, _ := p.ToolInput["file_path"].(string)
	if dotenvPattern.MatchString(path) {
		return true, "Blocked: attempt to access a dotenv file: " + path
	}
	return false, ""
}
