package hooks

import (
	"encoding/json"
	"fmt"
	"io"
)

// Outcome is what a Run* function decided, for the CLI layer to turn
// into the right stderr message and exit code.
type Outcome struct {
	Blocked bool
	Message string
}

func decodePayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("hooks: decode payload: %w", err)
	}
	return p, nil
}

// RunPreToolUse reads the payload, evaluates the block policy, and
// appends a record to pre_tool_use.jsonl regardless of the verdict — the
// log line itself is not allowed to change the outcome.
func RunPreToolUse(r io.Reader, logRoot string) (Outcome, error) {
	p, err := decodePayload(r)
	if err != nil {
		return Outcome{}, err
	}

	blocked, message := EvaluatePreToolUse(p)

	_ = appendRecord(logRoot, p.SessionID, "pre_tool_use.jsonl", EventPreToolUse, map[string]any{
		"tool_name":  p.ToolName,
		"tool_input": p.ToolInput,
		"blocked":    blocked,
	})

	return Outcome{Blocked: blocked, Message: message}, nil
}

// RunPostToolUse logs the completed tool call; it never blocks.
func RunPostToolUse(r io.Reader, logRoot string) (Outcome, error) {
	p, err := decodePayload(r)
	if err != nil {
		return Outcome{}, err
	}
	_ = appendRecord(logRoot, p.SessionID, "tool_use.jsonl", EventPostToolUse, map[string]any{
		"tool_name":  p.ToolName,
		"tool_input": p.ToolInput,
	})
	return Outcome{}, nil
}

// RunUserPromptSubmit logs the submitted prompt; it never blocks.
func RunUserPromptSubmit(r io.Reader, logRoot string) (Outcome, error) {
	p, err := decodePayload(r)
	if err != nil {
		return Outcome{}, err
	}
	_ = appendRecord(logRoot, p.SessionID, "events.jsonl", EventUserPromptSubmit, map[string]any{
		"prompt": p.Prompt,
	})
	return Outcome{}, nil
}

// RunPreCompact logs the compaction event; it never blocks.
func RunPreCompact(r io.Reader, logRoot string) (Outcome, error) {
	p, err := decodePayload(r)
	if err != nil {
		return Outcome{}, err
	}
	_ = appendRecord(logRoot, p.SessionID, "events.jsonl", EventPreCompact, map[string]any{})
	return Outcome{}, nil
}

// RunStop logs the session end and, if a transcript path was supplied,
// copies it into the session's log directory as chat.jsonl.
func RunStop(r io.Reader, logRoot string) (Outcome, error) {
	p, err := decodePayload(r)
	if err != nil {
		return Outcome{}, err
	}
	_ = appendRecord(logRoot, p.SessionID, "events.jsonl", EventStop, map[string]any{
		"transcript_path": p.TranscriptPath,
	})
	_ = copyTranscript(logRoot, p.SessionID, p.TranscriptPath)
	return Outcome{}, nil
}
