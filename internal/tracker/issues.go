package tracker

import (
	"context"
	"regexp"
	"sort"
	"strconv"

	"github.com/google/go-github/v68/github"

	"github.com/adw-sh/adw/internal/types"
)

// htmlImgPattern and markdownImgPattern both appear in issue bodies and
// comments; GitHub renders pasted screenshots as one or the other
// depending on client.
var (
	htmlImgPattern     = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
	markdownImgPattern = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)
)

// FetchIssue retrieves a single issue with its comments.
func (c *Client) FetchIssue(ctx context.Context, number int) (types.Issue, error) {
	issue, _, err := c.gh.Issues.Get(ctx, c.Repo.Owner, c.Repo.Repo, number)
	if err != nil {
		return types.Issue{}, fmtAPIErr("fetch issue", err)
	}

	comments, err := c.ListIssueComments(ctx, number)
	if err != nil {
		return types.Issue{}, err
	}

	out := types.Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		Author:    convertUser(issue.GetUser()),
		Labels:    convertLabels(issue.Labels),
		Comments:  comments,
		CreatedAt: issue.GetCreatedAt().Time,
		UpdatedAt: issue.GetUpdatedAt().Time,
		URL:       issue.GetHTMLURL(),
	}
	for _, a := range issue.Assignees {
		out.Assignees = append(out.Assignees, convertUser(a))
	}
	if issue.ClosedAt != nil {
		t := issue.GetClosedAt().Time
		out.ClosedAt = &t
	}
	return out, nil
}

// ListIssueComments returns every comment on an issue, oldest first.
func (c *Client) ListIssueComments(ctx context.Context, number int) ([]types.Comment, error) {
	var out []types.Comment
	opts := &github.IssueListCommentsOptions{
		Sort:        github.Ptr("created"),
		Direction:   github.Ptr("asc"),
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.Repo.Owner, c.Repo.Repo, number, opts)
		if err != nil {
			return nil, fmtAPIErr("list comments", err)
		}
		for _, cm := range comments {
			out = append(out, types.Comment{
				ID:        fmtID(cm.GetID()),
				Author:    convertUser(cm.GetUser()),
				Body:      cm.GetBody(),
				CreatedAt: cm.GetCreatedAt().Time,
				UpdatedAt: cm.GetUpdatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// ListOpenIssues returns every open issue in the repository, in the REST
// API's default order for this listing (newest created first).
func (c *Client) ListOpenIssues(ctx context.Context) ([]types.IssueListItem, error) {
	var out []types.IssueListItem
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, c.Repo.Owner, c.Repo.Repo, opts)
		if err != nil {
			return nil, fmtAPIErr("list open issues", err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			out = append(out, types.IssueListItem{
				Number:    issue.GetNumber(),
				Title:     issue.GetTitle(),
				Body:      issue.GetBody(),
				Labels:    convertLabels(issue.Labels),
				CreatedAt: issue.GetCreatedAt().Time,
				UpdatedAt: issue.GetUpdatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

// ExtractImageURLs scans an issue body and its comments for image
// references, in both raw HTML <img> and markdown ![]() forms, returning
// URLs deduplicated in first-seen order.
func ExtractImageURLs(issue types.Issue) []string {
	seen := make(map[string]bool)
	var urls []string

	scan := func(text string) {
		var hits [][]int
		hits = append(hits, htmlImgPattern.FindAllStringSubmatchIndex(text, -1)...)
		hits = append(hits, markdownImgPattern.FindAllStringSubmatchIndex(text, -1)...)
		sort.Slice(hits, func(i, j int) bool { return hits[i][0] < hits[j][0] })
		for _, h := range hits {
			if u := text[h[2]:h[3]]; !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}

	scan(issue.Body)
	for _, c := range issue.Comments {
		scan(c.Body)
	}
	return urls
}

func fmtID(id int64) string {
	return strconv.FormatInt(id, 10)
}
