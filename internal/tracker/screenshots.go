package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v68/github"
)

const screenshotsBranch = "screenshots"

// UploadImage pushes a local file to
// screenshots/issue-<number>/<filename> on the repo's dedicated
// screenshots branch via the contents API, returning its raw download
// URL. If the branch doesn't exist yet, it's created from the default
// branch's HEAD and the upload retried once.
func (c *Client) UploadImage(ctx context.Context, filePath string, issueNumber int) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("tracker: read %s: %w", filePath, err)
	}

	uploadPath := fmt.Sprintf("screenshots/issue-%d/%s", issueNumber, filepath.Base(filePath))
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(fmt.Sprintf("Upload screenshot %s for issue #%d", filepath.Base(filePath), issueNumber)),
		Content: data,
		Branch:  github.Ptr(screenshotsBranch),
	}

	content, _, err := c.gh.Repositories.CreateFile(ctx, c.Repo.Owner, c.Repo.Repo, uploadPath, opts)
	if err == nil {
		return content.GetDownloadURL(), nil
	}

	if !isMissingRefError(err) {
		return "", fmtAPIErr("upload screenshot", err)
	}

	if createErr := c.createScreenshotsBranch(ctx); createErr != nil {
		return "", fmt.Errorf("tracker: create screenshots branch: %w (after upload error: %v)", createErr, err)
	}

	content, _, retryErr := c.gh.Repositories.CreateFile(ctx, c.Repo.Owner, c.Repo.Repo, uploadPath, opts)
	if retryErr != nil {
		return "", fmtAPIErr("upload screenshot (retry after branch create)", retryErr)
	}
	return content.GetDownloadURL(), nil
}

// createScreenshotsBranch forks the screenshots branch from the repo's
// configured default branch HEAD.
func (c *Client) createScreenshotsBranch(ctx context.Context) error {
	ref, _, err := c.gh.Git.GetRef(ctx, c.Repo.Owner, c.Repo.Repo, "heads/"+c.DefaultBranch)
	if err != nil {
		return fmt.Errorf("get %s ref: %w", c.DefaultBranch, err)
	}

	_, _, err = c.gh.Git.CreateRef(ctx, c.Repo.Owner, c.Repo.Repo, &github.Reference{
		Ref:    github.Ptr("refs/heads/" + screenshotsBranch),
		Object: &github.GitObject{SHA: ref.Object.SHA},
	})
	if err != nil {
		return fmt.Errorf("create ref: %w", err)
	}
	return nil
}

// isMissingRefError reports whether err looks like GitHub's "branch/ref
// does not exist" response, which for the contents API surfaces as a 404
// or a "Reference does not exist" unprocessable-entity error.
func isMissingRefError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "404") || strings.Contains(msg, "Reference does not exist") || strings.Contains(msg, "Not Found")
}
