package app

import (
	"sync"

	"formprobe/domain/testrun"
)

// RunHandle owns the mutable TestRun for its lifetime. All mutation flows
// through the handle while readers take point-in-time snapshots, so GetRun
// is safe concurrently with an in-progress run.
type RunHandle struct {
	mu  sync.Mutex
	run *testrun.TestRun
}

// NewRunHandle wraps a run for executor ownership
func NewRunHandle(run *testrun.TestRun) *RunHandle {
	return &RunHandle{run: run}
}

// ID returns the run identity
func (h *RunHandle) ID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.run.ID.String()
}

// Snapshot returns a deep copy safe for concurrent readers
func (h *RunHandle) Snapshot() *testrun.TestRun {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.run.Clone()
}

// Terminal reports whether the run has finished
func (h *RunHandle) Terminal() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.run.Status.Terminal()
}

// Start transitions Pending -> Running
func (h *RunHandle) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.run.Start()
}

// RecordStep appends a step result
func (h *RunHandle) RecordStep(step testrun.StepResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.run.RecordStep(step)
}

// AddScreenshot attaches a capture reference
func (h *RunHandle) AddScreenshot(stage testrun.Stage, ref string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.run.AddScreenshot(stage, ref)
}

// Finish applies the terminal transition. Returns false when the run was
// already terminal, guaranteeing exactly one transition wins.
func (h *RunHandle) Finish(status testrun.Status, summary string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.run.Finish(status, summary) == nil
}
