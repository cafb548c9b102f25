package ports

import (
	"context"

	"formprobe/domain/testrun"
)

// Element is an opaque handle to a located DOM element. Only the session
// that produced it may use it.
type Element interface{}

// ActionKind is one primitive browser interaction.
type ActionKind string

const (
	ActFill    ActionKind = "fill"
	ActCheck   ActionKind = "check"
	ActUncheck ActionKind = "uncheck"
	ActSelect  ActionKind = "select"
	ActUpload  ActionKind = "upload"
	ActClick   ActionKind = "click"
)

// BrowserAction is one step of an interaction plan for a single element.
type BrowserAction struct {
	Kind  ActionKind
	Value string
}

// SubmissionOutcome is the form's post-submission state as read from the page.
type SubmissionOutcome string

const (
	OutcomeSuccess         SubmissionOutcome = "success"
	OutcomeValidationError SubmissionOutcome = "validation_error"
	OutcomeUnknown         SubmissionOutcome = "unknown"
)

// BrowserSession is the narrow capability interface the pipeline drives the
// browser through, deliberately decoupled from any automation engine. Every
// call may block; each is a cancellation/timeout checkpoint. A session is
// exclusively owned by one run for the run's lifetime.
type BrowserSession interface {
	// Navigate loads the page under test
	Navigate(ctx context.Context, url string) error

	// Locate resolves a field locator to an element handle.
	// Returns core.ErrElementNotFound when the element is absent.
	Locate(ctx context.Context, locator string) (Element, error)

	// Act applies one primitive action to a located element
	Act(ctx context.Context, el Element, action ActionKind, value string) error

	// IsChecked reads the current boolean state of a checkbox/radio element
	IsChecked(ctx context.Context, el Element) (bool, error)

	// Capture takes a screenshot and returns an opaque storage reference
	Capture(ctx context.Context, stage testrun.Stage) (string, error)

	// ReadSubmissionOutcome inspects the page for success/error indicators
	ReadSubmissionOutcome(ctx context.Context) (SubmissionOutcome, error)
}

// BrowserPool hands out sessions to runs. Release must be called on every
// exit path, including timeout and cancellation.
type BrowserPool interface {
	Acquire(ctx context.Context) (BrowserSession, error)
	Release(session BrowserSession)
}
