package agentrun

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var leadingSlashCommand = regexp.MustCompile(`^(/\w+)`)

// SavePrompt persists a prompt to agents/<workflowID>/<agentName>/prompts/<command>.txt
// for later inspection, keyed off the leading slash command in the prompt
// text. Prompts that don't start with a slash command are left unsaved —
// there's no stable filename to give them.
func SavePrompt(baseDir, prompt, workflowID, agentName string) error {
	match := leadingSlashCommand.FindStringSubmatch(prompt)
	if match == nil {
		return nil
	}
	commandName := match[1][1:]

	promptDir := filepath.Join(baseDir, "agents", workflowID, agentName, "prompts")
	if err := os.MkdirAll(promptDir, 0o755); err != nil {
		return fmt.Errorf("agentrun: mkdir %s: %w", promptDir, err)
	}

	promptFile := filepath.Join(promptDir, commandName+".txt")
	if err := os.WriteFile(promptFile, []byte(prompt), 0o644); err != nil {
		return fmt.Errorf("agentrun: write %s: %w", promptFile, err)
	}
	return nil
}
