package main

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/adw-sh/adw/internal/ingest"
	"github.com/adw-sh/adw/internal/types"
)

var pollerCmd = &cobra.Command{
	Use:   "poller",
	Short: "Periodically poll for new or newly-commented issues and dispatch workflows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}

		interval := time.Duration(a.cfg.Poller.IntervalSeconds) * time.Second
		p := ingest.NewPoller(a.client, interval, runPipelineBlocking, a.logger)
		return p.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(pollerCmd)
}

// runPipelineBlocking re-execs this binary as the matched composite
// workflow's phase-unit script and waits for it to finish, matching
// §4.8's "blocking on its completion within this cycle" requirement —
// the poller is intentionally single-threaded and never launches a
// second workflow while this one is still running. It reports true once
// the workflow process has run, whatever its exit status, and false only
// when the process could not be started.
func runPipelineBlocking(kind types.WorkflowKind, issueNumber int) bool {
	self, err := os.Executable()
	if err != nil {
		return false
	}

	cmd := exec.Command(self, string(kind), strconv.Itoa(issueNumber))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		return errors.As(err, &exitErr)
	}
	return true
}
