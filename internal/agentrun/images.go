package agentrun

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DownloadIssueImages fetches each image URL to agents/<workflowID>/images/,
// trying a direct HTTP GET first and falling back to `gh api` for
// GitHub user-content URLs that require authentication. Failures are
// logged to stderr and skipped rather than aborting the batch — a
// plan or review that references three screenshots shouldn't fail outright
// because one of them 404s.
func DownloadIssueImages(ctx context.Context, baseDir string, imageURLs []string, workflowID string) []string {
	imageDir := filepath.Join(baseDir, "agents", workflowID, "images")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "agentrun: mkdir %s: %v\n", imageDir, err)
		return nil
	}

	var saved []string
	for i, rawURL := range imageURLs {
		dest := filepath.Join(imageDir, fmt.Sprintf("issue_image_%d%s", i, extFromURL(rawURL)))

		if err := downloadDirect(ctx, rawURL, dest); err == nil {
			saved = append(saved, dest)
			continue
		} else {
			fmt.Fprintf(os.Stderr, "agentrun: direct download failed for %s: %v\n", rawURL, err)
		}

		if err := downloadViaGH(ctx, rawURL, dest); err == nil {
			saved = append(saved, dest)
		} else {
			fmt.Fprintf(os.Stderr, "agentrun: gh api download also failed for %s: %v\n", rawURL, err)
		}
	}
	return saved
}

func extFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".png"
	}
	ext := filepath.Ext(u.Path)
	if ext == "" {
		return ".png"
	}
	return ext
}

func downloadDirect(ctx context.Context, rawURL, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "adw-agent/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	return writeBody(resp.Body, dest)
}

func downloadViaGH(ctx context.Context, rawURL, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "gh", "api", rawURL, "--method", "GET")
	out, err := cmd.Output()
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return fmt.Errorf("empty response")
	}
	return os.WriteFile(dest, out, 0o644)
}

func writeBody(r io.Reader, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

// imageRefNote renders an appendix describing local image paths so the
// agent knows to read them with its own tools; claude's CLI has no
// first-class "attach file" flag, so references are inlined into the
// prompt text itself.
func imageRefNote(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			abs, err := filepath.Abs(p)
			if err != nil {
				abs = p
			}
			existing = append(existing, "- "+abs)
		}
	}
	if len(existing) == 0 {
		return ""
	}
	return "\n\nReference images (use Read tool to view):\n" + strings.Join(existing, "\n")
}
