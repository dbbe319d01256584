// Command adw is the autonomous software-delivery orchestrator: one
// binary that doubles as every phase unit, every composite workflow, the
// two ingestion front-ends, the guardrail hooks, and the health probe.
// Which executable the source's design called for is selected by
// subcommand rather than by separate binaries; internal/pipeline
// re-execs this same binary with a phase name as its first argument to
// preserve the one-subprocess-per-phase audit contract.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
