package testrun

import (
	"formprobe/domain/core"
	"formprobe/domain/gen"
)

// Status is the lifecycle state of a test run
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusErrored   Status = "errored"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusErrored, StatusCancelled:
		return true
	}
	return false
}

// StepAction is the kind of browser interaction a step performed.
type StepAction string

const (
	ActionFill   StepAction = "fill"
	ActionSelect StepAction = "select"
	ActionCheck  StepAction = "check"
	ActionUpload StepAction = "upload"
	ActionSkip   StepAction = "skip"
	ActionSubmit StepAction = "submit"
)

// StepStatus is the recorded outcome of one step.
type StepStatus string

const (
	StepOK              StepStatus = "ok"
	StepElementNotFound StepStatus = "element_not_found"
	StepValueRejected   StepStatus = "value_rejected_by_ui"
	StepTimeout         StepStatus = "timeout"
)

// StepResult records the outcome of applying one generated value to one
// field (or of the submit action) during a run.
type StepResult struct {
	FieldName string     `json:"field_name"`
	Action    StepAction `json:"action"`
	Status    StepStatus `json:"status"`
	OffsetMs  int64      `json:"offset_ms"`
}

// Stage identifies when a screenshot was captured.
type Stage string

const (
	StageBefore      Stage = "before"
	StageAfterFill   Stage = "after_fill"
	StageAfterSubmit Stage = "after_submit"
	StageError       Stage = "error"
)

// Screenshot is an opaque reference to a captured image.
type Screenshot struct {
	ID         core.ScreenshotID `json:"id"`
	Stage      Stage             `json:"stage"`
	Ref        string            `json:"ref"`
	CapturedAt core.Timestamp    `json:"captured_at"`
}

// TestRun is one execution of a (metadata, scenario) pair. It is mutated
// only by the owning executor while running and becomes immutable once a
// terminal status is reached.
type TestRun struct {
	ID           core.RunID     `json:"id"`
	FormID       core.FormID    `json:"form_id"`
	Scenario     gen.Scenario   `json:"scenario"`
	Status       Status         `json:"status"`
	Steps        []StepResult   `json:"steps"`
	Screenshots  []Screenshot   `json:"screenshots"`
	StartedAt    core.Timestamp `json:"started_at"`
	FinishedAt   core.Timestamp `json:"finished_at"`
	ErrorSummary string         `json:"error_summary,omitempty"`
}

// New creates a pending run for a (metadata, scenario) pair.
func New(formID core.FormID, scenario gen.Scenario) *TestRun {
	return &TestRun{
		ID:       core.RunID(core.NewID()),
		FormID:   formID,
		Scenario: scenario,
		Status:   StatusPending,
	}
}

// Start transitions Pending -> Running and stamps StartedAt.
func (r *TestRun) Start() error {
	if r.Status != StatusPending {
		return core.NewValidationError("status", "run can only start from pending, was "+string(r.Status))
	}
	r.Status = StatusRunning
	r.StartedAt = core.Now()
	return nil
}

// Finish applies exactly one terminal transition. A second call returns
// ErrRunTerminal and leaves the run untouched.
func (r *TestRun) Finish(status Status, summary string) error {
	if r.Status.Terminal() {
		return core.ErrRunTerminal
	}
	if !status.Terminal() {
		return core.NewValidationError("status", "finish requires a terminal status, got "+string(status))
	}
	r.Status = status
	r.ErrorSummary = summary
	r.FinishedAt = core.Now()
	return nil
}

// RecordStep appends a step result in field order.
func (r *TestRun) RecordStep(step StepResult) {
	r.Steps = append(r.Steps, step)
}

// AddScreenshot attaches a capture reference. At most one error-stage
// screenshot is retained per run.
func (r *TestRun) AddScreenshot(stage Stage, ref string) {
	if stage == StageError && r.HasErrorScreenshot() {
		return
	}
	r.Screenshots = append(r.Screenshots, Screenshot{
		ID:         core.ScreenshotID(core.NewID()),
		Stage:      stage,
		Ref:        ref,
		CapturedAt: core.Now(),
	})
}

// HasErrorScreenshot reports whether an error-stage capture exists.
func (r *TestRun) HasErrorScreenshot() bool {
	for _, s := range r.Screenshots {
		if s.Stage == StageError {
			return true
		}
	}
	return false
}

// DurationMs returns the run's wall time in milliseconds, 0 while running.
func (r *TestRun) DurationMs() int64 {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt).Milliseconds()
}

// Clone returns a deep point-in-time copy safe to hand to readers while the
// owning executor keeps mutating the original.
func (r *TestRun) Clone() *TestRun {
	out := *r
	out.Steps = make([]StepResult, len(r.Steps))
	copy(out.Steps, r.Steps)
	out.Screenshots = make([]Screenshot, len(r.Screenshots))
	copy(out.Screenshots, r.Screenshots)
	return &out
}
