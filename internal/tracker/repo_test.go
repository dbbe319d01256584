package tracker

import "testing"

func TestExtractRepoPathSSH(t *testing.T) {
	got := extractRepoPath("git@github.com:acme/widgets.git")
	if got != "acme/widgets" {
		t.Errorf("extractRepoPath(ssh) = %q, want acme/widgets", got)
	}
}

func TestExtractRepoPathHTTPS(t *testing.T) {
	got := extractRepoPath("https://github.com/acme/widgets.git")
	if got != "acme/widgets" {
		t.Errorf("extractRepoPath(https) = %q, want acme/widgets", got)
	}
}

func TestExtractRepoPathHTTPSNoSuffix(t *testing.T) {
	got := extractRepoPath("https://github.com/acme/widgets")
	if got != "acme/widgets" {
		t.Errorf("extractRepoPath(https-no-suffix) = %q, want acme/widgets", got)
	}
}
