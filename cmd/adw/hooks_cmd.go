package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adw-sh/adw/internal/config"
	"github.com/adw-sh/adw/internal/hooks"
)

// hooksCmd groups the five guardrail programs the coding agent invokes
// around tool use. Each reads one JSON payload from stdin; only
// pre_tool_use can block (exit 2, message on stderr), the rest are
// log-only and always exit 0 — and per §4.9, none of them may fail
// visibly beyond that documented protocol, so every hook's own setup
// errors are reported but still exit 0 rather than panicking on the
// agent mid-session.
var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Guardrail programs invoked by the coding agent around tool use",
}

func hookLogRoot() string {
	cfg, err := config.Load(&config.Config{LogDir: flagLogDir})
	if err != nil || cfg.LogDir == "" {
		return "logs"
	}
	return cfg.LogDir
}

var preToolUseCmd = &cobra.Command{
	Use:   "pre_tool_use",
	Short: "PreToolUse: block destructive commands and dotenv access",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outcome, err := hooks.RunPreToolUse(os.Stdin, hookLogRoot())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil
		}
		if outcome.Blocked {
			fmt.Fprintln(os.Stderr, outcome.Message)
			os.Exit(2)
		}
		return nil
	},
}

var postToolUseCmd = &cobra.Command{
	Use:   "post_tool_use",
	Short: "PostToolUse: log the completed tool call",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := hooks.RunPostToolUse(os.Stdin, hookLogRoot())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil
	},
}

var userPromptSubmitCmd = &cobra.Command{
	Use:   "user_prompt_submit",
	Short: "UserPromptSubmit: log the submitted prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := hooks.RunUserPromptSubmit(os.Stdin, hookLogRoot())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil
	},
}

var preCompactCmd = &cobra.Command{
	Use:   "pre_compact",
	Short: "PreCompact: log the compaction event",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := hooks.RunPreCompact(os.Stdin, hookLogRoot())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop: log session end and archive the transcript",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := hooks.RunStop(os.Stdin, hookLogRoot())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil
	},
}

func init() {
	hooksCmd.AddCommand(preToolUseCmd, postToolUseCmd, userPromptSubmitCmd, preCompactCmd, stopCmd)
	rootCmd.AddCommand(hooksCmd)
}
