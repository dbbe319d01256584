package agentrun

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// RawMessage is one line of the claude CLI's --output-format stream-json
// output. Type discriminates the payload; the CLI adds new message types
// over time so we keep the rest as a raw envelope rather than a fixed enum.
type RawMessage struct {
	Type      string          `json:"type"`
	Raw       json.RawMessage `json:"-"`
}

// resultPayload is the shape of the final "result" message in a stream.
type resultPayload struct {
	Type          string  `json:"type"`
	Subtype       string  `json:"subtype,omitempty"`
	IsError       bool    `json:"is_error"`
	Result        string  `json:"result"`
	SessionID     string  `json:"session_id"`
	DurationMS    int64   `json:"duration_ms"`
	DurationAPIMS int64   `json:"duration_api_ms"`
	NumTurns      int     `json:"num_turns"`
	TotalCostUSD  float64 `json:"total_cost_usd"`
}

// ParseJSONLFile reads a stream-json output file and returns every
// well-formed line alongside the last message of type "result", if any.
// Lines that fail to parse are skipped rather than aborting the whole
// parse — a truncated final line (e.g. from a killed subprocess) shouldn't
// hide the useful messages that came before it.
func ParseJSONLFile(path string) ([]RawMessage, *resultPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("agentrun: open %s: %w", path, err)
	}
	defer f.Close()

	var messages []RawMessage
	var lastResult *resultPayload

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(line, &env); err != nil {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		messages = append(messages, RawMessage{Type: env.Type, Raw: cp})

		if env.Type == "result" {
			var res resultPayload
			if err := json.Unmarshal(line, &res); err == nil {
				lastResult = &res
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return messages, lastResult, fmt.Errorf("agentrun: scan %s: %w", path, err)
	}
	return messages, lastResult, nil
}

// ConvertJSONLToJSON writes the parsed messages of a .jsonl file out as a
// single indented JSON array alongside it, mirroring the human-friendly
// debug artifact the agent leaves behind.
func ConvertJSONLToJSON(jsonlPath string) (string, error) {
	messages, _, err := ParseJSONLFile(jsonlPath)
	if err != nil {
		return "", err
	}

	raws := make([]json.RawMessage, 0, len(messages))
	for _, m := range messages {
		raws = append(raws, json.RawMessage(m.Raw))
	}

	jsonPath := jsonSiblingPath(jsonlPath)
	data, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		return "", fmt.Errorf("agentrun: marshal %s: %w", jsonlPath, err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", fmt.Errorf("agentrun: write %s: %w", jsonPath, err)
	}
	return jsonPath, nil
}

func jsonSiblingPath(jsonlPath string) string {
	if trimmed := strings.TrimSuffix(jsonlPath, ".jsonl"); trimmed != jsonlPath {
		return trimmed + ".json"
	}
	return jsonlPath + ".json"
}
