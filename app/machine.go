package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"formprobe/domain/core"
	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/domain/testrun"
	"formprobe/ports"
)

const errorCaptureTimeout = 5 * time.Second

// Machine drives one test run through its phases, strictly in order:
// capture(before), per-field interaction, capture(after-fill), submit,
// capture(after-submit), outcome judgment. Cancellation is observed at
// phase boundaries only; every exit path applies exactly one terminal
// transition through the handle.
type Machine struct {
	strategy *Strategy
}

// NewMachine creates a run machine
func NewMachine(strategy *Strategy) *Machine {
	return &Machine{strategy: strategy}
}

// Execute runs the state machine to a terminal status. It never returns an
// error: every failure mode lands in the run's status and error summary.
func (m *Machine) Execute(ctx context.Context, h *RunHandle, meta form.FormMetadata, values []gen.GeneratedValue, sess ports.BrowserSession) {
	if err := h.Start(); err != nil {
		// already cancelled before dispatch
		return
	}
	t0 := time.Now()

	if m.cancelled(ctx, h, sess) {
		return
	}
	if err := sess.Navigate(ctx, meta.SourceURL); err != nil {
		m.errored(ctx, h, sess, fmt.Sprintf("navigation failed: %v", err))
		return
	}
	if ref, err := sess.Capture(ctx, testrun.StageBefore); err != nil {
		m.errored(ctx, h, sess, fmt.Sprintf("before capture failed: %v", err))
		return
	} else {
		h.AddScreenshot(testrun.StageBefore, ref)
	}

	valuesByField := groupByField(values)
	requiredFailed := false
	var applied []gen.GeneratedValue

	for _, field := range meta.Fields {
		if m.cancelled(ctx, h, sess) {
			return
		}

		fieldValues := valuesByField[field.Name]
		if len(fieldValues) == 0 {
			h.RecordStep(testrun.StepResult{
				FieldName: field.Name,
				Action:    testrun.ActionSkip,
				Status:    testrun.StepOK,
				OffsetMs:  time.Since(t0).Milliseconds(),
			})
			continue
		}
		value := fieldValues[0]

		status := m.applyField(ctx, h, sess, field, value, t0)
		if status != testrun.StepOK && field.Required {
			requiredFailed = true
		}
		if status == testrun.StepOK && !value.NotApplicable {
			applied = append(applied, value)
		}
	}

	if m.cancelled(ctx, h, sess) {
		return
	}
	if ref, err := sess.Capture(ctx, testrun.StageAfterFill); err != nil {
		m.errored(ctx, h, sess, fmt.Sprintf("after-fill capture failed: %v", err))
		return
	} else {
		h.AddScreenshot(testrun.StageAfterFill, ref)
	}

	if m.cancelled(ctx, h, sess) {
		return
	}
	if err := m.submit(ctx, h, sess, meta, t0); err != nil {
		m.errored(ctx, h, sess, fmt.Sprintf("submit action failed: %v", err))
		return
	}

	if ref, err := sess.Capture(ctx, testrun.StageAfterSubmit); err != nil {
		m.errored(ctx, h, sess, fmt.Sprintf("after-submit capture failed: %v", err))
		return
	} else {
		h.AddScreenshot(testrun.StageAfterSubmit, ref)
	}

	if m.cancelled(ctx, h, sess) {
		return
	}
	outcome, err := sess.ReadSubmissionOutcome(ctx)
	if err != nil || outcome == ports.OutcomeUnknown {
		// the test infrastructure is the suspect here, not the form
		m.errored(ctx, h, sess, core.ErrSubmissionUnknown.Error())
		return
	}

	m.judge(h, applied, outcome, requiredFailed)
}

// applyField executes the interaction plan for one field and records its
// step result. Field-local failures never abort the run.
func (m *Machine) applyField(ctx context.Context, h *RunHandle, sess ports.BrowserSession, field form.FieldSpec, value gen.GeneratedValue, t0 time.Time) testrun.StepStatus {
	record := func(action testrun.StepAction, status testrun.StepStatus) testrun.StepStatus {
		h.RecordStep(testrun.StepResult{
			FieldName: field.Name,
			Action:    action,
			Status:    status,
			OffsetMs:  time.Since(t0).Milliseconds(),
		})
		return status
	}

	if value.NotApplicable {
		return record(testrun.ActionSkip, testrun.StepOK)
	}

	el, err := sess.Locate(ctx, field.Locator)
	if err != nil {
		return record(testrun.ActionFill, stepStatusFor(err))
	}

	plan, err := m.strategy.ActionsFor(ctx, sess, el, field, value)
	if err != nil {
		return record(plan.Action, stepStatusFor(err))
	}

	for _, action := range plan.Actions {
		if err := sess.Act(ctx, el, action.Kind, action.Value); err != nil {
			return record(plan.Action, stepStatusFor(err))
		}
	}
	return record(plan.Action, testrun.StepOK)
}

// submit locates and clicks the submit control, recording the extra step.
func (m *Machine) submit(ctx context.Context, h *RunHandle, sess ports.BrowserSession, meta form.FormMetadata, t0 time.Time) error {
	el, err := sess.Locate(ctx, meta.SubmitLocator)
	if err != nil {
		h.RecordStep(testrun.StepResult{
			FieldName: "submit",
			Action:    testrun.ActionSubmit,
			Status:    stepStatusFor(err),
			OffsetMs:  time.Since(t0).Milliseconds(),
		})
		return err
	}
	if err := sess.Act(ctx, el, ports.ActClick, ""); err != nil {
		h.RecordStep(testrun.StepResult{
			FieldName: "submit",
			Action:    testrun.ActionSubmit,
			Status:    stepStatusFor(err),
			OffsetMs:  time.Since(t0).Milliseconds(),
		})
		return err
	}
	h.RecordStep(testrun.StepResult{
		FieldName: "submit",
		Action:    testrun.ActionSubmit,
		Status:    testrun.StepOK,
		OffsetMs:  time.Since(t0).Milliseconds(),
	})
	return nil
}

// judge compares the form's post-submission state against the aggregate
// expectation of the applied values: all-or-nothing.
func (m *Machine) judge(h *RunHandle, applied []gen.GeneratedValue, outcome ports.SubmissionOutcome, requiredFailed bool) {
	if requiredFailed {
		h.Finish(testrun.StatusFailed, "required field interaction failed")
		return
	}

	expected := gen.AggregateExpectation(applied)
	switch {
	case expected == gen.ExpectReject && outcome == ports.OutcomeValidationError:
		h.Finish(testrun.StatusPassed, "")
	case expected == gen.ExpectReject:
		h.Finish(testrun.StatusFailed, "form accepted a value expected to be rejected")
	case outcome == ports.OutcomeSuccess:
		h.Finish(testrun.StatusPassed, "")
	default:
		h.Finish(testrun.StatusFailed, "form rejected values expected to be accepted")
	}
}

// cancelled checks the phase boundary for cooperative cancellation. On
// cancellation it captures a best-effort error screenshot and applies the
// terminal transition.
func (m *Machine) cancelled(ctx context.Context, h *RunHandle, sess ports.BrowserSession) bool {
	if ctx.Err() == nil {
		return false
	}
	summary := "cancelled by request"
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		summary = core.ErrRunTimeout.Error()
	}
	m.captureError(h, sess)
	h.Finish(testrun.StatusCancelled, summary)
	return true
}

// errored applies the Errored transition with a forced best-effort error
// capture.
func (m *Machine) errored(ctx context.Context, h *RunHandle, sess ports.BrowserSession, summary string) {
	m.captureError(h, sess)
	h.Finish(testrun.StatusErrored, summary)
}

// captureError never escalates: a capture failure during error handling is
// swallowed and logged. Uses a fresh context since the run's own may
// already be dead.
func (m *Machine) captureError(h *RunHandle, sess ports.BrowserSession) {
	ctx, cancel := context.WithTimeout(context.Background(), errorCaptureTimeout)
	defer cancel()
	ref, err := sess.Capture(ctx, testrun.StageError)
	if err != nil {
		log.Printf("[RunMachine] run %s: error capture failed: %v", h.ID(), err)
		return
	}
	h.AddScreenshot(testrun.StageError, ref)
}

// stepStatusFor maps an interaction error to the recorded step status.
func stepStatusFor(err error) testrun.StepStatus {
	switch {
	case errors.Is(err, core.ErrActionTimeout), errors.Is(err, context.DeadlineExceeded):
		return testrun.StepTimeout
	case errors.Is(err, core.ErrValueRejected):
		return testrun.StepValueRejected
	default:
		return testrun.StepElementNotFound
	}
}

// groupByField preserves per-field generation order.
func groupByField(values []gen.GeneratedValue) map[string][]gen.GeneratedValue {
	out := make(map[string][]gen.GeneratedValue)
	for _, v := range values {
		out[v.FieldName] = append(out[v.FieldName], v)
	}
	return out
}
