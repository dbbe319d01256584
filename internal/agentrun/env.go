package agentrun

import "os"

// passthroughEnvVars is the denylist-free allowlist of host environment
// variables forwarded to the agent subprocess. Keeping this narrow means a
// compromised or confused agent prompt can't exfiltrate unrelated secrets
// from the operator's shell.
var passthroughEnvVars = []string{
	"HOME",
	"USER",
	"PATH",
	"SHELL",
	"TERM",
	"CLAUDE_BASH_MAINTAIN_PROJECT_WORKING_DIR",
}

// claudeEnv builds the environment for the claude CLI subprocess: the
// narrow passthrough list, the API key, and GitHub credentials duplicated
// under both names the CLI and its own tool invocations expect.
func claudeEnv(claudeCodePath string) []string {
	var env []string
	for _, key := range passthroughEnvVars {
		if v, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+v)
		}
	}
	env = append(env, "CLAUDE_CODE_PATH="+claudeCodePath)

	if v, ok := os.LookupEnv("ANTHROPIC_API_KEY"); ok {
		env = append(env, "ANTHROPIC_API_KEY="+v)
	}

	if pat, ok := os.LookupEnv("GITHUB_PAT"); ok {
		env = append(env, "GITHUB_PAT="+pat, "GH_TOKEN="+pat)
	} else if tok, ok := os.LookupEnv("GH_TOKEN"); ok {
		env = append(env, "GH_TOKEN="+tok)
	}

	return env
}
