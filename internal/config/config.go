// Package config provides configuration management for the orchestrator.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (ADW_*)
// 3. Project config (.adw/config.yaml in cwd)
// 4. Home config (~/.adw/config.yaml)
// 5. Defaults
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all orchestrator configuration.
type Config struct {
	// Output controls the default output format (table, json).
	Output string `yaml:"output" json:"output"`

	// BaseDir is the project directory under which workflow state lives in
	// agents/<workflow-id>/ (default: current directory).
	BaseDir string `yaml:"base_dir" json:"base_dir"`

	// LogDir is where session hook logs are written (default: logs).
	LogDir string `yaml:"log_dir" json:"log_dir"`

	// FrontendDir is the project's frontend checkout, used for the
	// review phase's e2e screenshot capture and the health probe's
	// Playwright check. Empty disables both (no frontend to drive).
	FrontendDir string `yaml:"frontend_dir" json:"frontend_dir"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose" json:"verbose"`

	Agent   AgentConfig   `yaml:"agent" json:"agent"`
	Tracker TrackerConfig `yaml:"tracker" json:"tracker"`
	Poller  PollerConfig  `yaml:"poller" json:"poller"`
	Webhook WebhookConfig `yaml:"webhook" json:"webhook"`
}

// AgentConfig controls how the coding-agent subprocess is invoked.
type AgentConfig struct {
	// Command is the CLI command used to spawn the coding agent.
	// Default: "claude".
	Command string `yaml:"command" json:"command"`

	// SkipPermissions is loaded and merged like the other fields, but no
	// agent invocation reads it: slash-command runs always pass the agent's
	// skip-permissions flag and raw-prompt runs follow their own request.
	SkipPermissions bool `yaml:"skip_permissions" json:"skip_permissions"`
}

// TrackerConfig controls the issue-tracker gateway.
type TrackerConfig struct {
	// DefaultBranch is the repository's default branch, used when
	// creating the screenshots branch. Default: "main".
	DefaultBranch string `yaml:"default_branch" json:"default_branch"`
}

// PollerConfig controls the poller ingestion front-end.
type PollerConfig struct {
	// IntervalSeconds is the poll cycle period. Default: 20.
	IntervalSeconds int `yaml:"interval_seconds" json:"interval_seconds"`
}

// WebhookConfig controls the webhook receiver ingestion front-end.
type WebhookConfig struct {
	// Port is the HTTP listen port. Default: 8001.
	Port int `yaml:"port" json:"port"`
	// Secret is the optional webhook HMAC secret.
	Secret string `yaml:"secret" json:"secret"`
}

// Default config values (used in resolution and validation).
const (
	defaultOutput  = "table"
	defaultBaseDir = "."
	defaultLogDir  = "logs"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output:  defaultOutput,
		BaseDir: defaultBaseDir,
		LogDir:  defaultLogDir,
		Verbose: false,
		Agent: AgentConfig{
			Command: "claude",
		},
		Tracker: TrackerConfig{
			DefaultBranch: "main",
		},
		Poller: PollerConfig{
			IntervalSeconds: 20,
		},
		Webhook: WebhookConfig{
			Port: 8001,
		},
	}
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	if homeConfig, _ := loadFromPath(homeConfigPath()); homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	if projectConfig, _ := loadFromPath(projectConfigPath()); projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".adw", "config.yaml")
}

func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("ADW_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".adw", "config.yaml")
}

func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("ADW_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("ADW_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("ADW_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("ADW_FRONTEND_DIR"); v != "" {
		cfg.FrontendDir = v
	}
	if v := os.Getenv("ADW_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("CLAUDE_CODE_PATH"); v != "" {
		cfg.Agent.Command = v
	}
	if v := os.Getenv("ADW_TRACKER_DEFAULT_BRANCH"); v != "" {
		cfg.Tracker.DefaultBranch = v
	}
	if v := os.Getenv("ADW_POLL_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Poller.IntervalSeconds = n
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Webhook.Port = n
		}
	}
	if v := os.Getenv("ADW_WEBHOOK_SECRET"); v != "" {
		cfg.Webhook.Secret = v
	}
	return cfg
}

// merge merges src into dst, with src values taking precedence.
func merge(dst, src *Config) *Config {
	if src.Output != "" {
		dst.Output = src.Output
	}
	if src.BaseDir != "" {
		dst.BaseDir = src.BaseDir
	}
	if src.LogDir != "" {
		dst.LogDir = src.LogDir
	}
	if src.FrontendDir != "" {
		dst.FrontendDir = src.FrontendDir
	}
	if src.Verbose {
		dst.Verbose = true
	}
	if src.Agent.Command != "" {
		dst.Agent.Command = src.Agent.Command
	}
	if src.Agent.SkipPermissions {
		dst.Agent.SkipPermissions = true
	}
	if src.Tracker.DefaultBranch != "" {
		dst.Tracker.DefaultBranch = src.Tracker.DefaultBranch
	}
	if src.Poller.IntervalSeconds != 0 {
		dst.Poller.IntervalSeconds = src.Poller.IntervalSeconds
	}
	if src.Webhook.Port != 0 {
		dst.Webhook.Port = src.Webhook.Port
	}
	if src.Webhook.Secret != "" {
		dst.Webhook.Secret = src.Webhook.Secret
	}
	return dst
}

// Source represents where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceHome    Source = "~/.adw/config.yaml"
	SourceProject Source = ".adw/config.yaml"
	SourceEnv     Source = "environment"
	SourceFlag    Source = "flag"
)

type resolved struct {
	Value  interface{} `json:"value"`
	Source Source      `json:"source"`
}

func resolveStringField(home, project, env, flag, def string) resolved {
	result := resolved{Value: def, Source: SourceDefault}
	if home != "" {
		result = resolved{Value: home, Source: SourceHome}
	}
	if project != "" {
		result = resolved{Value: project, Source: SourceProject}
	}
	if env != "" {
		result = resolved{Value: env, Source: SourceEnv}
	}
	if flag != "" {
		result = resolved{Value: flag, Source: SourceFlag}
	}
	return result
}

// ResolvedConfig shows config values with their sources, for `adw config --show`.
type ResolvedConfig struct {
	Output        resolved `json:"output"`
	BaseDir       resolved `json:"base_dir"`
	Verbose       resolved `json:"verbose"`
	AgentCommand  resolved `json:"agent_command"`
	DefaultBranch resolved `json:"default_branch"`
}

// Resolve returns configuration with source tracking.
// Uses precedence chain: flags > env > project > home > defaults.
func Resolve(flagOutput, flagBaseDir string, flagVerbose bool) *ResolvedConfig {
	homeConfig, _ := loadFromPath(homeConfigPath())
	projectConfig, _ := loadFromPath(projectConfigPath())

	var homeOutput, homeBaseDir, homeAgentCommand, homeDefaultBranch string
	var homeVerbose bool
	if homeConfig != nil {
		homeOutput = homeConfig.Output
		homeBaseDir = homeConfig.BaseDir
		homeVerbose = homeConfig.Verbose
		homeAgentCommand = homeConfig.Agent.Command
		homeDefaultBranch = homeConfig.Tracker.DefaultBranch
	}

	var projectOutput, projectBaseDir, projectAgentCommand, projectDefaultBranch string
	var projectVerbose bool
	if projectConfig != nil {
		projectOutput = projectConfig.Output
		projectBaseDir = projectConfig.BaseDir
		projectVerbose = projectConfig.Verbose
		projectAgentCommand = projectConfig.Agent.Command
		projectDefaultBranch = projectConfig.Tracker.DefaultBranch
	}

	envOutput := os.Getenv("ADW_OUTPUT")
	envBaseDir := os.Getenv("ADW_BASE_DIR")
	envVerboseRaw := os.Getenv("ADW_VERBOSE")
	envVerbose := envVerboseRaw == "true" || envVerboseRaw == "1"
	envAgentCommand := os.Getenv("CLAUDE_CODE_PATH")
	envDefaultBranch := os.Getenv("ADW_TRACKER_DEFAULT_BRANCH")

	rc := &ResolvedConfig{
		Output:        resolveStringField(homeOutput, projectOutput, envOutput, flagOutput, defaultOutput),
		BaseDir:       resolveStringField(homeBaseDir, projectBaseDir, envBaseDir, flagBaseDir, defaultBaseDir),
		Verbose:       resolved{Value: false, Source: SourceDefault},
		AgentCommand:  resolveStringField(homeAgentCommand, projectAgentCommand, envAgentCommand, "", "claude"),
		DefaultBranch: resolveStringField(homeDefaultBranch, projectDefaultBranch, envDefaultBranch, "", "main"),
	}

	if homeVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceHome}
	}
	if projectVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceProject}
	}
	if envVerboseRaw != "" && envVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceEnv}
	}
	if flagVerbose {
		rc.Verbose = resolved{Value: true, Source: SourceFlag}
	}

	return rc
}
