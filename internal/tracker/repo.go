// Package tracker talks to the issue tracker (GitHub) on the orchestrator's
// behalf: fetching issues, posting comments, and stashing review
// screenshots in a dedicated branch.
package tracker

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RepoIdentity is an owner/repo pair resolved from the local git remote.
type RepoIdentity struct {
	Owner string
	Repo  string
}

// String renders "owner/repo".
func (r RepoIdentity) String() string {
	return r.Owner + "/" + r.Repo
}

// ResolveRepoIdentity shells out to `git remote get-url origin` and parses
// the result into an owner/repo pair, accepting both SSH and HTTPS remote
// forms.
func ResolveRepoIdentity(ctx context.Context) (RepoIdentity, error) {
	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	out, err := cmd.Output()
	if err != nil {
		return RepoIdentity{}, fmt.Errorf("tracker: no git remote 'origin' found: %w", err)
	}

	path := extractRepoPath(strings.TrimSpace(string(out)))
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoIdentity{}, fmt.Errorf("tracker: could not parse owner/repo from remote URL %q", string(out))
	}
	return RepoIdentity{Owner: parts[0], Repo: parts[1]}, nil
}

// extractRepoPath normalizes a git@github.com:owner/repo.git or
// https://github.com/owner/repo.git remote URL down to "owner/repo".
func extractRepoPath(remoteURL string) string {
	s := remoteURL
	if strings.HasPrefix(s, "git@github.com:") {
		s = strings.TrimPrefix(s, "git@github.com:")
	} else {
		s = strings.TrimPrefix(s, "https://github.com/")
	}
	return strings.TrimSuffix(s, ".git")
}
