package tracker

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/google/go-github/v68/github"

	"github.com/adw-sh/adw/internal/types"
)

// Client wraps a typed GitHub REST client scoped to a single repository.
type Client struct {
	gh   *github.Client
	Repo RepoIdentity

	// DefaultBranch is the branch screenshots are forked from when the
	// screenshots branch doesn't exist yet. Configurable so forks whose
	// default branch isn't "main" still work.
	DefaultBranch string
}

// NewClient builds a Client authenticated with token (GITHUB_PAT or
// GH_TOKEN), scoped to repo. An empty token still produces a working
// client for unauthenticated read-only calls, subject to GitHub's lower
// rate limit.
func NewClient(ctx context.Context, repo RepoIdentity, token, defaultBranch string) *Client {
	var httpClient *http.Client
	if token != "" {
		httpClient = github.NewClient(nil).WithAuthToken(token).Client()
	}
	gh := github.NewClient(httpClient)
	if defaultBranch == "" {
		defaultBranch = "main"
	}
	return &Client{gh: gh, Repo: repo, DefaultBranch: defaultBranch}
}

// ResolveToken picks the tracker auth token from the environment, giving
// GITHUB_PAT priority over GH_TOKEN since the former is this system's own
// naming and may carry broader scopes than a locally gh-auth'd token.
func ResolveToken() string {
	if v := os.Getenv("GITHUB_PAT"); v != "" {
		return v
	}
	return os.Getenv("GH_TOKEN")
}

func fmtAPIErr(op string, err error) error {
	return fmt.Errorf("tracker: %s: %w", op, err)
}

func convertUser(u *github.User) types.User {
	if u == nil {
		return types.User{}
	}
	out := types.User{Login: u.GetLogin(), Name: u.GetName()}
	if u.GetType() == "Bot" {
		out.IsBot = true
	}
	return out
}

func convertLabels(labels []*github.Label) []types.Label {
	out := make([]types.Label, 0, len(labels))
	for _, l := range labels {
		out = append(out, types.Label{
			Name:        l.GetName(),
			Color:       l.GetColor(),
			Description: l.GetDescription(),
		})
	}
	return out
}
