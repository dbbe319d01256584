package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adw-sh/adw/internal/config"
)

var configShow bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved orchestrator configuration",
	Long: `View adw's resolved configuration.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (ADW_*)
  3. Project config (.adw/config.yaml)
  4. Home config (~/.adw/config.yaml)
  5. Defaults

Environment variables:
  ADW_CONFIG                  - Explicit config file path
  ADW_OUTPUT                  - Default output format (table, json)
  ADW_BASE_DIR                - Project directory holding agents/ state
  ADW_LOG_DIR                 - Session hook log directory
  ADW_FRONTEND_DIR            - Frontend checkout for e2e screenshots
  ADW_VERBOSE                 - Enable verbose output (true/1)
  CLAUDE_CODE_PATH            - Path to the coding-agent binary (default: claude)
  ADW_TRACKER_DEFAULT_BRANCH  - Default branch for the screenshots branch fork point
  ADW_POLL_INTERVAL_SECONDS   - Poller cycle period
  PORT                        - Webhook receiver listen port
  ADW_WEBHOOK_SECRET          - Webhook HMAC secret

Examples:
  adw config --show
  adw config --show -o json`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configShow, "show", false, "show resolved configuration with sources")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if !configShow {
		return cmd.Help()
	}

	resolved := config.Resolve(flagOutput, flagBaseDir, flagVerbose)

	if flagOutput == "json" {
		data, err := json.MarshalIndent(resolved, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("adw configuration")
	fmt.Println("==================")
	fmt.Println()

	fmt.Println("Config files:")
	homeConfig := filepath.Join(os.Getenv("HOME"), ".adw", "config.yaml")
	if _, err := os.Stat(homeConfig); err == nil {
		fmt.Printf("  [x] Home:    %s\n", homeConfig)
	} else {
		fmt.Printf("  [ ] Home:    %s (not found)\n", homeConfig)
	}

	cwd, _ := os.Getwd()
	projectConfig := filepath.Join(cwd, ".adw", "config.yaml")
	if _, err := os.Stat(projectConfig); err == nil {
		fmt.Printf("  [x] Project: %s\n", projectConfig)
	} else {
		fmt.Printf("  [ ] Project: %s (not found)\n", projectConfig)
	}

	fmt.Println()
	fmt.Println("Resolved values:")
	fmt.Printf("  output:         %v  (from %s)\n", resolved.Output.Value, resolved.Output.Source)
	fmt.Printf("  base_dir:       %v  (from %s)\n", resolved.BaseDir.Value, resolved.BaseDir.Source)
	fmt.Printf("  verbose:        %v  (from %s)\n", resolved.Verbose.Value, resolved.Verbose.Source)
	fmt.Printf("  agent_command:  %v  (from %s)\n", resolved.AgentCommand.Value, resolved.AgentCommand.Source)
	fmt.Printf("  default_branch: %v  (from %s)\n", resolved.DefaultBranch.Value, resolved.DefaultBranch.Source)
	return nil
}
