package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/domain/testrun"
	"formprobe/internal/testkit"
	"formprobe/ports"
)

func validSignupValues() []gen.GeneratedValue {
	return []gen.GeneratedValue{
		{FieldName: "email", Scenario: gen.ScenarioValid, Value: gen.StringValue("jane@example.com"), Expected: gen.ExpectAccept},
		{FieldName: "age", Scenario: gen.ScenarioValid, Value: gen.NumberValue(30), Expected: gen.ExpectAccept},
		{FieldName: "newsletter", Scenario: gen.ScenarioValid, NotApplicable: true, Reason: "boolean has no invalid state"},
		{FieldName: "country", Scenario: gen.ScenarioValid, Value: gen.StringValue("CA"), Expected: gen.ExpectAccept},
	}
}

func executeRun(sess *testkit.FakeSession, meta form.FormMetadata, values []gen.GeneratedValue) *testrun.TestRun {
	run := testrun.New(meta.ID, gen.ScenarioValid)
	h := NewRunHandle(run)
	NewMachine(NewStrategy()).Execute(context.Background(), h, meta, values, sess)
	return h.Snapshot()
}

func TestExecutePassesOnExpectedAccept(t *testing.T) {
	sess := testkit.NewFakeSession()
	meta := testkit.SignupForm()

	got := executeRun(sess, meta, validSignupValues())

	assert.Equal(t, testrun.StatusPassed, got.Status)
	assert.Equal(t, meta.SourceURL, sess.NavigatedTo)

	// one step per field plus the submit step, in field order
	require.Len(t, got.Steps, 5)
	assert.Equal(t, "email", got.Steps[0].FieldName)
	assert.Equal(t, testrun.ActionSkip, got.Steps[2].Action) // not-applicable checkbox
	assert.Equal(t, testrun.ActionSubmit, got.Steps[4].Action)
	for _, step := range got.Steps {
		assert.Equal(t, testrun.StepOK, step.Status)
	}

	assert.Equal(t, []testrun.Stage{testrun.StageBefore, testrun.StageAfterFill, testrun.StageAfterSubmit}, sess.Captures)
	assert.Len(t, got.Screenshots, 3)
	assert.False(t, got.FinishedAt.IsZero())
}

func TestExecuteToleratesMissingOptionalField(t *testing.T) {
	sess := testkit.NewFakeSession()
	sess.MissingLocators["#country"] = true // optional field
	meta := testkit.SignupForm()

	got := executeRun(sess, meta, validSignupValues())

	// the run continues past the failed field and is judged by the outcome
	assert.Equal(t, testrun.StatusPassed, got.Status)
	require.Len(t, got.Steps, 5)
	assert.Equal(t, testrun.StepElementNotFound, got.Steps[3].Status)
}

func TestExecuteFailsWhenRequiredFieldUnreachable(t *testing.T) {
	sess := testkit.NewFakeSession()
	sess.MissingLocators["#email"] = true // required field
	meta := testkit.SignupForm()

	got := executeRun(sess, meta, validSignupValues())

	assert.Equal(t, testrun.StatusFailed, got.Status)
	assert.Equal(t, testrun.StepElementNotFound, got.Steps[0].Status)
	assert.Contains(t, got.ErrorSummary, "required field")
	// remaining fields were still attempted
	require.Len(t, got.Steps, 5)
}

func TestExecuteJudgesRejectExpectation(t *testing.T) {
	rejectVals := []gen.GeneratedValue{
		{FieldName: "email", Scenario: gen.ScenarioInvalid, Value: gen.StringValue("not-an-email"), Expected: gen.ExpectReject},
		{FieldName: "age", Scenario: gen.ScenarioInvalid, Value: gen.NumberValue(30), Expected: gen.ExpectAccept},
	}

	t.Run("form rejects as expected", func(t *testing.T) {
		sess := testkit.NewFakeSession()
		sess.Outcome = ports.OutcomeValidationError
		got := executeRun(sess, testkit.SignupForm(), rejectVals)
		assert.Equal(t, testrun.StatusPassed, got.Status)
	})

	t.Run("form accepts what it should reject", func(t *testing.T) {
		sess := testkit.NewFakeSession()
		sess.Outcome = ports.OutcomeSuccess
		got := executeRun(sess, testkit.SignupForm(), rejectVals)
		assert.Equal(t, testrun.StatusFailed, got.Status)
	})
}

func TestExecuteFailsWhenFormRejectsValidValues(t *testing.T) {
	sess := testkit.NewFakeSession()
	sess.Outcome = ports.OutcomeValidationError

	got := executeRun(sess, testkit.SignupForm(), validSignupValues())
	assert.Equal(t, testrun.StatusFailed, got.Status)
}

func TestExecuteErrorsOnUnknownSubmissionOutcome(t *testing.T) {
	sess := testkit.NewFakeSession()
	sess.Outcome = ports.OutcomeUnknown

	got := executeRun(sess, testkit.SignupForm(), validSignupValues())

	assert.Equal(t, testrun.StatusErrored, got.Status)
	assert.Contains(t, got.ErrorSummary, "submission outcome")
	assert.True(t, got.HasErrorScreenshot())
}

func TestExecuteErrorsOnNavigationFailure(t *testing.T) {
	sess := testkit.NewFakeSession()
	sess.NavigateErr = assert.AnError

	got := executeRun(sess, testkit.SignupForm(), validSignupValues())

	assert.Equal(t, testrun.StatusErrored, got.Status)
	assert.Contains(t, got.ErrorSummary, "navigation failed")
	assert.True(t, got.HasErrorScreenshot())
}

func TestExecuteCancelsAtPhaseBoundary(t *testing.T) {
	sess := testkit.NewFakeSession()
	meta := testkit.SignupForm()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := testrun.New(meta.ID, gen.ScenarioValid)
	h := NewRunHandle(run)
	NewMachine(NewStrategy()).Execute(ctx, h, meta, validSignupValues(), sess)

	got := h.Snapshot()
	assert.Equal(t, testrun.StatusCancelled, got.Status)
	assert.Equal(t, "cancelled by request", got.ErrorSummary)
	assert.True(t, got.HasErrorScreenshot())
	assert.Empty(t, got.Steps, "no field was touched after cancellation")
}

func TestExecuteRecordsSubmitLocateFailure(t *testing.T) {
	sess := testkit.NewFakeSession()
	sess.MissingLocators["#submit"] = true

	got := executeRun(sess, testkit.SignupForm(), validSignupValues())

	assert.Equal(t, testrun.StatusErrored, got.Status)
	last := got.Steps[len(got.Steps)-1]
	assert.Equal(t, testrun.ActionSubmit, last.Action)
	assert.Equal(t, testrun.StepElementNotFound, last.Status)
}

func TestExecuteSkipsFieldsWithoutValues(t *testing.T) {
	sess := testkit.NewFakeSession()
	meta := testkit.SignupForm()

	// only the two required fields carry values
	vals := []gen.GeneratedValue{
		{FieldName: "email", Scenario: gen.ScenarioValid, Value: gen.StringValue("a@b.co"), Expected: gen.ExpectAccept},
		{FieldName: "age", Scenario: gen.ScenarioValid, Value: gen.NumberValue(40), Expected: gen.ExpectAccept},
	}
	got := executeRun(sess, meta, vals)

	assert.Equal(t, testrun.StatusPassed, got.Status)
	require.Len(t, got.Steps, 5)
	assert.Equal(t, testrun.ActionSkip, got.Steps[2].Action)
	assert.Equal(t, testrun.ActionSkip, got.Steps[3].Action)
}
