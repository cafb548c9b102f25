package testrun

import (
	"errors"
	"testing"

	"formprobe/domain/core"
	"formprobe/domain/gen"
)

func TestStatusTerminal(t *testing.T) {
	cases := []struct {
		status   Status
		terminal bool
	}{
		{StatusPending, false},
		{StatusRunning, false},
		{StatusPassed, true},
		{StatusFailed, true},
		{StatusErrored, true},
		{StatusCancelled, true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.terminal {
			t.Errorf("Terminal(%s) = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}

func TestRunLifecycle(t *testing.T) {
	run := New(core.FormID("form-1"), gen.ScenarioValid)

	if run.Status != StatusPending {
		t.Fatalf("new run status = %s, want pending", run.Status)
	}
	if run.ID.String() == "" {
		t.Fatal("new run has empty ID")
	}

	if err := run.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if run.Status != StatusRunning {
		t.Errorf("status after Start = %s, want running", run.Status)
	}
	if run.StartedAt.IsZero() {
		t.Error("StartedAt not stamped on Start")
	}

	// starting twice is invalid
	if err := run.Start(); err == nil {
		t.Error("second Start should fail")
	}

	if err := run.Finish(StatusPassed, ""); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if run.FinishedAt.IsZero() {
		t.Error("FinishedAt not stamped on Finish")
	}
}

func TestFinishExactlyOnce(t *testing.T) {
	run := New(core.FormID("form-1"), gen.ScenarioValid)
	_ = run.Start()

	if err := run.Finish(StatusFailed, "field rejected"); err != nil {
		t.Fatalf("first Finish failed: %v", err)
	}

	err := run.Finish(StatusCancelled, "late cancel")
	if !errors.Is(err, core.ErrRunTerminal) {
		t.Fatalf("second Finish error = %v, want ErrRunTerminal", err)
	}
	if run.Status != StatusFailed {
		t.Errorf("status changed by second Finish: %s", run.Status)
	}
	if run.ErrorSummary != "field rejected" {
		t.Errorf("summary changed by second Finish: %q", run.ErrorSummary)
	}
}

func TestFinishRequiresTerminalStatus(t *testing.T) {
	run := New(core.FormID("form-1"), gen.ScenarioValid)
	_ = run.Start()
	if err := run.Finish(StatusRunning, ""); err == nil {
		t.Error("Finish with non-terminal status should fail")
	}
}

func TestAtMostOneErrorScreenshot(t *testing.T) {
	run := New(core.FormID("form-1"), gen.ScenarioInvalid)
	run.AddScreenshot(StageBefore, "shot-1.png")
	run.AddScreenshot(StageError, "err-1.png")
	run.AddScreenshot(StageError, "err-2.png")

	errCount := 0
	for _, s := range run.Screenshots {
		if s.Stage == StageError {
			errCount++
		}
	}
	if errCount != 1 {
		t.Errorf("error screenshots = %d, want 1", errCount)
	}
	if len(run.Screenshots) != 2 {
		t.Errorf("total screenshots = %d, want 2", len(run.Screenshots))
	}
}

func TestCloneIsDeep(t *testing.T) {
	run := New(core.FormID("form-1"), gen.ScenarioValid)
	_ = run.Start()
	run.RecordStep(StepResult{FieldName: "email", Action: ActionFill, Status: StepOK})

	snap := run.Clone()
	run.RecordStep(StepResult{FieldName: "age", Action: ActionFill, Status: StepTimeout})

	if len(snap.Steps) != 1 {
		t.Errorf("snapshot steps = %d, want 1 (mutation leaked)", len(snap.Steps))
	}
}
