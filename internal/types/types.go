// Package types holds the shared data model for the orchestrator: GitHub-ish
// tracker records, agent request/response shapes, and the persistent
// workflow state machine.
package types

import "time"

// IssueClass is the slash-command form of an issue's classification.
type IssueClass string

const (
	ClassChore   IssueClass = "/chore"
	ClassBug     IssueClass = "/bug"
	ClassFeature IssueClass = "/feature"
)

// Valid reports whether c is one of the three recognized issue classes.
func (c IssueClass) Valid() bool {
	switch c {
	case ClassChore, ClassBug, ClassFeature:
		return true
	}
	return false
}

// SlashCommand is a prompt macro understood by the coding agent.
type SlashCommand string

const (
	CmdChore               SlashCommand = "/chore"
	CmdBug                 SlashCommand = "/bug"
	CmdFeature             SlashCommand = "/feature"
	CmdClassifyIssue       SlashCommand = "/classify_issue"
	CmdFindPlanFile        SlashCommand = "/find_plan_file"
	CmdGenerateBranchName  SlashCommand = "/generate_branch_name"
	CmdCommit              SlashCommand = "/commit"
	CmdPullRequest         SlashCommand = "/pull_request"
	CmdImplement           SlashCommand = "/implement"
	CmdTest                SlashCommand = "/test"
	CmdResolveFailedTest   SlashCommand = "/resolve_failed_test"
	CmdReview              SlashCommand = "/review"
	CmdDocument            SlashCommand = "/document"
	CmdPatch               SlashCommand = "/patch"
	CmdClassifyADW         SlashCommand = "/classify_adw"
	CmdPrepareApp          SlashCommand = "/prepare_app"
	CmdConditionalDocs     SlashCommand = "/conditional_docs"
)

// Model selects which Claude model tier handles an invocation.
type Model string

const (
	ModelSonnet Model = "sonnet"
	ModelOpus   Model = "opus"
)

// --- Tracker (issue) types ---

// User is a tracker account, either a human or a bot.
type User struct {
	ID    string `json:"id,omitempty"`
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
	IsBot bool   `json:"is_bot,omitempty"`
}

// Label is a tracker issue label.
type Label struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// Comment is a single tracker issue comment.
type Comment struct {
	ID        string    `json:"id"`
	Author    User      `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// IssueListItem is the simplified shape returned by list-open-issues.
type IssueListItem struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Labels    []Label   `json:"labels,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Issue is the full tracker issue record, as returned by fetch-issue.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	Author    User      `json:"author"`
	Assignees []User    `json:"assignees,omitempty"`
	Labels    []Label   `json:"labels,omitempty"`
	Comments  []Comment `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	URL       string    `json:"url"`
}

// --- Agent invocation types ---

// AgentRequest is the contract the Agent Runner consumes to spawn the
// coding-agent subprocess.
type AgentRequest struct {
	Prompt          string
	WorkflowID      string
	AgentName       string
	Model           Model
	ImagePaths      []string
	SkipPermissions bool
	OutputFile      string
}

// AgentResponse is what the Agent Runner distills from a subprocess run.
type AgentResponse struct {
	Text      string
	Success   bool
	SessionID string

	// Diagnostic fields carried through from the agent's result message,
	// unused by control flow but persisted for human inspection.
	DurationMS    int64
	DurationAPIMS int64
	NumTurns      int
	TotalCostUSD  float64
}

// TemplateRequest names a slash-command invocation of the agent.
type TemplateRequest struct {
	AgentName    string
	SlashCommand SlashCommand
	Args         []string
	WorkflowID   string
	ImagePaths   []string
	Model        Model
}

// --- Workflow state machine types ---

// WorkflowKind is one of the composite pipelines the executor can run.
type WorkflowKind string

const (
	WorkflowPlanBuild           WorkflowKind = "plan_build"
	WorkflowPlanBuildTest       WorkflowKind = "plan_build_test"
	WorkflowPlanBuildReview     WorkflowKind = "plan_build_review"
	WorkflowPlanBuildTestReview WorkflowKind = "plan_build_test_review"
	WorkflowSDLC                WorkflowKind = "sdlc"
	WorkflowPatch               WorkflowKind = "patch"
)

// Phase is a single transition in the workflow state machine.
type Phase string

const (
	PhaseClassify Phase = "classify"
	PhaseBranch   Phase = "branch"
	PhasePlan     Phase = "plan"
	PhaseBuild    Phase = "build"
	PhaseTest     Phase = "test"
	PhaseReview   Phase = "review"
	PhaseDocument Phase = "document"
	PhasePR       Phase = "pr"
)

// SuiteResult is the outcome of a single named test suite.
type SuiteResult struct {
	Suite  string `json:"suite"`
	Passed bool   `json:"passed"`
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// TestAttempt is one iteration of the test phase's retry loop.
type TestAttempt struct {
	AttemptNumber int           `json:"attempt_number"`
	AllPassed     bool          `json:"all_passed"`
	Results       []SuiteResult `json:"results"`
}

// ReviewSeverity classifies a single review finding.
type ReviewSeverity string

const (
	SeverityBlocker    ReviewSeverity = "blocker"
	SeverityWarning    ReviewSeverity = "warning"
	SeveritySuggestion ReviewSeverity = "suggestion"
)

// ReviewIssue is a single finding from a code review attempt.
type ReviewIssue struct {
	File        string         `json:"file"`
	Line        *int           `json:"line,omitempty"`
	Severity    ReviewSeverity `json:"severity"`
	Description string         `json:"description"`
}

// ReviewAttempt is one iteration of the review phase's retry loop.
type ReviewAttempt struct {
	AttemptNumber   int           `json:"attempt_number"`
	Approved        bool          `json:"approved"`
	Issues          []ReviewIssue `json:"issues"`
	ScreenshotPaths []string      `json:"screenshot_paths,omitempty"`
	Summary         string        `json:"summary"`
}

// DocumentationResult is the outcome of the document phase.
type DocumentationResult struct {
	FilesCreated []string `json:"files_created"`
	Summary      string   `json:"summary"`
}

// WorkflowRecord is the durable per-workflow state persisted between phases.
type WorkflowRecord struct {
	WorkflowID          string                `json:"workflow_id"`
	IssueID             string                `json:"issue_id"`
	WorkflowKind        WorkflowKind          `json:"workflow_kind"`
	IssueClass          IssueClass            `json:"issue_class,omitempty"`
	BranchName          string                `json:"branch_name,omitempty"`
	PlanFile            string                `json:"plan_file,omitempty"`
	CurrentPhase        Phase                 `json:"current_phase"`
	CompletedPhases     []Phase               `json:"completed_phases"`
	TestAttempts        []TestAttempt         `json:"test_attempts"`
	ReviewAttempts      []ReviewAttempt       `json:"review_attempts"`
	DocumentationResult *DocumentationResult  `json:"documentation_result,omitempty"`
	PRURL               string                `json:"pr_url,omitempty"`
	Error               string                `json:"error,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// WorkflowPhases maps each composite workflow kind to its declared phase
// sequence, used to drive the pipeline executor, to set a new record's
// first phase, and to pick the phase that follows build. Nothing checks
// completed-phases against it.
var WorkflowPhases = map[WorkflowKind][]Phase{
	WorkflowPlanBuild:           {PhasePlan, PhaseBuild},
	WorkflowPlanBuildTest:       {PhasePlan, PhaseBuild, PhaseTest},
	WorkflowPlanBuildReview:     {PhasePlan, PhaseBuild, PhaseReview},
	WorkflowPlanBuildTestReview: {PhasePlan, PhaseBuild, PhaseTest, PhaseReview},
	WorkflowSDLC:                {PhasePlan, PhaseBuild, PhaseTest, PhaseReview, PhaseDocument},
	WorkflowPatch:               {PhasePlan},
}
