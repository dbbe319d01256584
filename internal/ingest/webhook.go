package ingest

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/adw-sh/adw/internal/pipeline"
	"github.com/adw-sh/adw/internal/types"
)

// shutdownGrace bounds how long Serve waits for in-flight requests to
// drain after ctx is cancelled.
const shutdownGrace = 5 * time.Second

// githubIssuesEvent and githubIssueCommentEvent are the only two
// X-GitHub-Event values this receiver routes; everything else is
// acknowledged but ignored.
const (
	githubIssuesEvent        = "issues"
	githubIssueCommentEvent  = "issue_comment"
	githubPingEvent          = "ping"
)

// issuesPayload and issueCommentPayload capture only the fields the
// router needs, not the full GitHub webhook schema.
type issuesPayload struct {
	Action string `json:"action"`
	Issue  struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	} `json:"issue"`
}

type issueCommentPayload struct {
	Action string `json:"action"`
	Issue  struct {
		Number int `json:"number"`
	} `json:"issue"`
	Comment struct {
		Body string `json:"body"`
		User struct {
			Type string `json:"type"`
		} `json:"user"`
	} `json:"comment"`
}

// Receiver is the HTTP front-end that lets GitHub push issue and comment
// events instead of waiting for the poller's next cycle. Each matched
// event spawns a detached copy of the current binary running the
// matched workflow, so the HTTP handler returns without waiting on a
// pipeline that can run for minutes.
type Receiver struct {
	Secret string
	Logger *slog.Logger

	// HealthCheck re-invokes the Health Probe (§4.10); nil degrades
	// GET /health to a bare liveness "ok" with no collaborator checks.
	HealthCheck func(ctx context.Context) HealthSummary
}

// HealthSummary is the subset of a health.Report the webhook's /health
// endpoint exposes, kept as its own type here so ingest doesn't need to
// import internal/health just to shape a response.
type HealthSummary struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Router builds the mux.Router exposing POST /gh-webhook and GET /health.
func (r *Receiver) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/gh-webhook", r.handleWebhook).Methods(http.MethodPost)
	router.HandleFunc("/health", r.handleHealth).Methods(http.MethodGet)
	return router
}

type healthResponse struct {
	Status      string        `json:"status"`
	Service     string        `json:"service"`
	HealthCheck HealthSummary `json:"health_check"`
}

func (r *Receiver) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.HealthCheck == nil {
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Service: "adw-webhook"})
		return
	}

	summary := r.HealthCheck(req.Context())
	status := "ok"
	if !summary.Success {
		status = "unhealthy"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(healthResponse{Status: status, Service: "adw-webhook", HealthCheck: summary})
}

type webhookResponse struct {
	Status     string `json:"status"`
	Issue      int    `json:"issue,omitempty"`
	WorkflowID string `json:"workflow-id,omitempty"`
	Workflow   string `json:"workflow,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Logs       string `json:"logs,omitempty"`
}

// scriptName renders kind in the source's own adw_<kind>.py naming,
// since that's the literal "workflow" identifier the webhook's JSON
// response names.
func scriptName(kind types.WorkflowKind) string {
	return "adw_" + string(kind) + ".py"
}

func (r *Receiver) handleWebhook(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}

	if r.Secret != "" {
		if !verifySignature(r.Secret, req.Header.Get("X-Hub-Signature-256"), body) {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	event := req.Header.Get("X-GitHub-Event")
	w.Header().Set("Content-Type", "application/json")

	switch event {
	case githubPingEvent:
		_ = json.NewEncoder(w).Encode(webhookResponse{Status: "ok", Reason: "pong"})
	case githubIssuesEvent:
		r.routeIssuesEvent(w, body)
	case githubIssueCommentEvent:
		r.routeCommentEvent(w, body)
	default:
		_ = json.NewEncoder(w).Encode(webhookResponse{Status: "ignored", Reason: "unhandled event: " + event})
	}
}

// routeIssuesEvent handles the "issues" event. A newly opened issue
// unconditionally triggers plan_build, with no keyword gating — a bare
// issue with no special title or body is exactly the common case this
// event exists to dispatch.
func (r *Receiver) routeIssuesEvent(w http.ResponseWriter, body []byte) {
	var payload issuesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}
	if payload.Action != "opened" {
		_ = json.NewEncoder(w).Encode(webhookResponse{Status: "ignored", Reason: "action " + payload.Action + " is not handled"})
		return
	}

	r.dispatch(w, types.WorkflowPlanBuild, payload.Issue.Number)
}

func (r *Receiver) routeCommentEvent(w http.ResponseWriter, body []byte) {
	var payload issueCommentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}
	if payload.Action != "created" || payload.Comment.User.Type == "Bot" {
		_ = json.NewEncoder(w).Encode(webhookResponse{Status: "ignored", Reason: "not a human-authored created comment"})
		return
	}

	kind, ok := MatchCommentBody(payload.Comment.Body)
	if !ok {
		_ = json.NewEncoder(w).Encode(webhookResponse{Status: "ignored", Reason: "no keyword match"})
		return
	}

	r.dispatch(w, kind, payload.Issue.Number)
}

// dispatch spawns the matched workflow and writes the "accepted" envelope
// carrying the assigned workflow-id, or a 500 if the spawn itself failed.
func (r *Receiver) dispatch(w http.ResponseWriter, kind types.WorkflowKind, issueNumber int) {
	workflowID, ok := r.spawn(kind, issueNumber)
	if !ok {
		http.Error(w, "failed to launch workflow", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(webhookResponse{
		Status:     "accepted",
		Issue:      issueNumber,
		WorkflowID: workflowID,
		Workflow:   scriptName(kind),
		Logs:       fmt.Sprintf("agents/%s/", workflowID),
	})
}

// spawn assigns a workflow-id and re-executes the current binary with
// the matched workflow's subcommand, issue number, and that id, detached
// into its own session (Setsid) so it outlives the HTTP request and
// isn't killed alongside the receiver's process group.
func (r *Receiver) spawn(kind types.WorkflowKind, issueNumber int) (string, bool) {
	workflowID := pipeline.NewWorkflowID()

	self, err := os.Executable()
	if err != nil {
		r.Logger.Error("webhook: resolve self executable failed", "error", err)
		return "", false
	}

	cmd := exec.Command(self, string(kind), strconv.Itoa(issueNumber), workflowID)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		r.Logger.Error("webhook: spawn pipeline failed", "kind", kind, "issue", issueNumber, "error", err)
		return "", false
	}
	r.Logger.Info("webhook: dispatched workflow", "kind", kind, "issue", issueNumber, "workflow_id", workflowID, "pid", cmd.Process.Pid)
	go func() { _ = cmd.Wait() }()
	return workflowID, true
}

// verifySignature checks the HMAC-SHA256 signature GitHub sends in
// X-Hub-Signature-256 against secret, constant-time.
func verifySignature(secret, header string, body []byte) bool {
	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	expected := hmac.New(sha256.New, []byte(secret))
	expected.Write(body)
	sum := hex.EncodeToString(expected.Sum(nil))
	return hmac.Equal([]byte(sum), []byte(strings.TrimPrefix(header, prefix)))
}

// Serve blocks until ctx is cancelled, running the HTTP server on addr.
func Serve(ctx context.Context, addr string, router *mux.Router, logger *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("webhook receiver listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
