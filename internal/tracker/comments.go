package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v68/github"
)

// PostComment posts a plain-text comment to an issue.
func (c *Client) PostComment(ctx context.Context, issueNumber int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, c.Repo.Owner, c.Repo.Repo, issueNumber, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmtAPIErr("post comment", err)
	}
	return nil
}

// PostReviewWithScreenshots uploads each screenshot to the screenshots
// branch and appends a "### Screenshots" section embedding whichever ones
// succeeded, then posts the combined comment. A screenshot that fails to
// upload is silently dropped from the section rather than failing the
// whole comment — partial evidence beats no comment at all.
func (c *Client) PostReviewWithScreenshots(ctx context.Context, issueNumber int, commentText string, screenshotPaths []string) error {
	var mdParts []string
	for _, path := range screenshotPaths {
		url, err := c.UploadImage(ctx, path, issueNumber)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tracker: screenshot upload failed for %s: %v\n", path, err)
			continue
		}
		mdParts = append(mdParts, fmt.Sprintf("![%s](%s)", filepath.Base(path), url))
	}

	full := commentText
	if len(mdParts) > 0 {
		full += "\n\n### Screenshots\n" + strings.Join(mdParts, "\n")
	}
	return c.PostComment(ctx, issueNumber, full)
}
