package testkit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"formprobe/domain/core"
	"formprobe/domain/testrun"
	"formprobe/ports"
)

// FakeElement is the opaque handle the fake session hands out.
type FakeElement struct {
	Locator string
}

// FakeSession is an in-memory stand-in for a real browser session. Tests
// script which locators resolve, seed checkbox state, choose the submission
// outcome, and inject per-call errors or latency.
type FakeSession struct {
	mu sync.Mutex

	// scripted behavior
	MissingLocators map[string]bool              // locators that fail to resolve
	Checked         map[string]bool              // initial checkbox state by locator
	Outcome         ports.SubmissionOutcome      // what ReadSubmissionOutcome reports
	OutcomeErr      error                        // forces ReadSubmissionOutcome to fail
	ActErr          map[string]error             // per-locator Act failure
	NavigateErr     error                        // forces Navigate to fail
	ActDelay        time.Duration                // sleep inside Act, cancellation-aware
	CaptureErr      error                        // forces Capture to fail

	// recorded activity
	NavigatedTo string
	Actions     []RecordedAction
	Captures    []testrun.Stage
}

// RecordedAction is one Act call as the session saw it.
type RecordedAction struct {
	Locator string
	Kind    ports.ActionKind
	Value   string
}

// NewFakeSession returns a session where every locator resolves and
// submission reports success.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		MissingLocators: make(map[string]bool),
		Checked:         make(map[string]bool),
		ActErr:          make(map[string]error),
		Outcome:         ports.OutcomeSuccess,
	}
}

func (s *FakeSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.NavigatedTo = url
	return nil
}

func (s *FakeSession) Locate(ctx context.Context, locator string) (ports.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MissingLocators[locator] {
		return nil, fmt.Errorf("%q: %w", locator, core.ErrElementNotFound)
	}
	return &FakeElement{Locator: locator}, nil
}

func (s *FakeSession) Act(ctx context.Context, el ports.Element, kind ports.ActionKind, value string) error {
	fe, ok := el.(*FakeElement)
	if !ok {
		return fmt.Errorf("element does not belong to this session")
	}

	s.mu.Lock()
	delay := s.ActDelay
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ActErr[fe.Locator]; err != nil {
		return err
	}
	s.Actions = append(s.Actions, RecordedAction{Locator: fe.Locator, Kind: kind, Value: value})
	switch kind {
	case ports.ActCheck:
		s.Checked[fe.Locator] = true
	case ports.ActUncheck:
		s.Checked[fe.Locator] = false
	}
	return nil
}

func (s *FakeSession) IsChecked(ctx context.Context, el ports.Element) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fe, ok := el.(*FakeElement)
	if !ok {
		return false, fmt.Errorf("element does not belong to this session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Checked[fe.Locator], nil
}

func (s *FakeSession) Capture(ctx context.Context, stage testrun.Stage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CaptureErr != nil {
		return "", s.CaptureErr
	}
	s.Captures = append(s.Captures, stage)
	return fmt.Sprintf("mem://screenshots/%s-%d", stage, len(s.Captures)), nil
}

func (s *FakeSession) ReadSubmissionOutcome(ctx context.Context) (ports.SubmissionOutcome, error) {
	if err := ctx.Err(); err != nil {
		return ports.OutcomeUnknown, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OutcomeErr != nil {
		return ports.OutcomeUnknown, s.OutcomeErr
	}
	return s.Outcome, nil
}

// ActionsFor returns the recorded actions targeting one locator.
func (s *FakeSession) ActionsFor(locator string) []RecordedAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RecordedAction
	for _, a := range s.Actions {
		if a.Locator == locator {
			out = append(out, a)
		}
	}
	return out
}

// FakePool hands out sessions from a factory and tracks balance between
// Acquire and Release plus the high-water mark of sessions out at once.
type FakePool struct {
	mu sync.Mutex

	NewSession func() *FakeSession // defaults to NewFakeSession
	AcquireErr error

	acquired int
	released int
	inFlight int
	peak     int
}

// NewFakePool returns a pool backed by NewFakeSession.
func NewFakePool() *FakePool {
	return &FakePool{}
}

func (p *FakePool) Acquire(ctx context.Context) (ports.BrowserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.AcquireErr != nil {
		return nil, p.AcquireErr
	}
	p.acquired++
	p.inFlight++
	if p.inFlight > p.peak {
		p.peak = p.inFlight
	}
	if p.NewSession != nil {
		return p.NewSession(), nil
	}
	return NewFakeSession(), nil
}

func (p *FakePool) Release(session ports.BrowserSession) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
	p.inFlight--
}

// Acquired returns how many sessions were handed out.
func (p *FakePool) Acquired() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired
}

// Balanced reports whether every acquired session was released.
func (p *FakePool) Balanced() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired == p.released
}

// Peak returns the maximum number of sessions out simultaneously.
func (p *FakePool) Peak() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}
