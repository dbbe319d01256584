package ingest

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adw-sh/adw/internal/tracker"
	"github.com/adw-sh/adw/internal/types"
)

// PipelineLauncher runs the matched workflow to completion and reports
// whether the launch itself succeeded — the poller blocks on it (§4.8:
// "blocking on its completion within this cycle"), unlike the webhook
// receiver's detached spawn, and only marks the triggering issue/comment
// as processed when ok is true.
type PipelineLauncher func(kind types.WorkflowKind, issueNumber int) (ok bool)

// Poller periodically lists open issues, dispatching plan_build for an
// issue not yet seen that has no comments, and otherwise looking for a
// keyword in the most recent comment not yet seen. It keeps all "already handled" bookkeeping
// in memory, matching the source's single-process, restart-loses-state
// poller rather than persisting a cursor.
type Poller struct {
	Tracker  *tracker.Client
	Interval time.Duration
	Launch   PipelineLauncher
	Logger   *slog.Logger

	seenIssues   map[int]bool
	lastComments map[int]string
}

// NewPoller constructs a Poller with its in-memory tracking sets
// initialized.
func NewPoller(client *tracker.Client, interval time.Duration, launch PipelineLauncher, logger *slog.Logger) *Poller {
	return &Poller{
		Tracker:      client,
		Interval:     interval,
		Launch:       launch,
		Logger:       logger,
		seenIssues:   make(map[int]bool),
		lastComments: make(map[int]string),
	}
}

// Run polls until ctx is cancelled or SIGINT/SIGTERM arrives, checking
// for the signal only between cycles so an in-flight cycle always
// finishes cleanly.
func (p *Poller) Run(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	cycleCtx := context.WithoutCancel(sigCtx)
	p.runCycle(cycleCtx)
	for {
		select {
		case <-sigCtx.Done():
			p.Logger.Info("poller shutting down")
			return nil
		case <-ticker.C:
			p.runCycle(cycleCtx)
		}
	}
}

func (p *Poller) runCycle(ctx context.Context) {
	issues, err := p.Tracker.ListOpenIssues(ctx)
	if err != nil {
		p.Logger.Error("poll cycle: list open issues failed", "error", err)
		return
	}

	for _, item := range issues {
		p.checkIssue(ctx, item)
	}
}

// checkIssue implements §4.8 step 2: an issue not yet processed with
// zero comments is the new-issue path (schedule plan_build
// unconditionally); otherwise its latest comment is checked against the
// keyword router, same as the webhook. An issue is only ever marked
// processed — and a comment only ever recorded as seen — once its
// triggered launch actually succeeds, so a failed spawn is retried on
// the next cycle rather than silently dropped.
func (p *Poller) checkIssue(ctx context.Context, item types.IssueListItem) {
	comments, err := p.Tracker.ListIssueComments(ctx, item.Number)
	if err != nil {
		p.Logger.Error("poll cycle: list comments failed", "issue", item.Number, "error", err)
		return
	}

	if !p.seenIssues[item.Number] {
		if len(comments) == 0 {
			if p.dispatch(item.Number, types.WorkflowPlanBuild) {
				p.seenIssues[item.Number] = true
			}
			return
		}
		p.seenIssues[item.Number] = true
	}

	if len(comments) == 0 {
		return
	}

	last := comments[len(comments)-1]
	if p.lastComments[item.Number] == last.ID {
		return
	}
	if last.Author.IsBot {
		p.lastComments[item.Number] = last.ID
		return
	}

	kind, ok := MatchCommentBody(last.Body)
	if !ok {
		p.lastComments[item.Number] = last.ID
		return
	}
	if p.dispatch(item.Number, kind) {
		p.lastComments[item.Number] = last.ID
	}
}

func (p *Poller) dispatch(issueNumber int, kind types.WorkflowKind) bool {
	p.Logger.Info("dispatching workflow", "issue", issueNumber, "kind", kind)
	ok := p.Launch(kind, issueNumber)
	if !ok {
		p.Logger.Error("launch failed, will retry next cycle", "issue", issueNumber, "kind", kind)
	}
	return ok
}
