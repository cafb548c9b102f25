package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"formprobe/domain/core"
	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/domain/testrun"
	"formprobe/ports"
)

// ExecutorConfig bounds the executor's resources.
type ExecutorConfig struct {
	MaxConcurrent int64         // maximum simultaneously Running runs
	RunTimeout    time.Duration // hard backstop per run
	QueueBound    int           // 0 = unbounded FIFO queue
}

// DefaultExecutorConfig returns sensible defaults
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxConcurrent: 4,
		RunTimeout:    2 * time.Minute,
	}
}

type runJob struct {
	handle   *RunHandle
	meta     form.FormMetadata
	scenario gen.Scenario
	seed     int64
	ctx      context.Context
	cancel   context.CancelFunc
}

// Executor accepts execution requests, hands back Pending run handles
// immediately, and drives each run through the state machine on background
// workers. Concurrency is bounded by a weighted semaphore; overflow queues
// FIFO and starts as capacity frees.
type Executor struct {
	cfg       ExecutorConfig
	synth     *Synthesizer
	machine   *Machine
	pool      ports.BrowserPool
	sink      ports.RunSink      // optional, nil disables persistence
	analytics *Aggregator        // optional, nil disables metrics

	sem  *semaphore.Weighted
	wake chan struct{}

	mu      sync.Mutex
	queue   []*runJob
	entries map[core.RunID]*runJob
	closed  bool

	baseCtx   context.Context
	cancelAll context.CancelFunc
	wg        sync.WaitGroup
}

// NewExecutor creates an executor; call Start before submitting.
func NewExecutor(cfg ExecutorConfig, synth *Synthesizer, machine *Machine, pool ports.BrowserPool, sink ports.RunSink, analytics *Aggregator) *Executor {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Executor{
		cfg:       cfg,
		synth:     synth,
		machine:   machine,
		pool:      pool,
		sink:      sink,
		analytics: analytics,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrent),
		wake:      make(chan struct{}, 1),
		entries:   make(map[core.RunID]*runJob),
		baseCtx:   ctx,
		cancelAll: cancel,
	}
}

// Start launches the dispatcher
func (e *Executor) Start() {
	log.Printf("[Executor] starting, max_concurrent=%d run_timeout=%s queue_bound=%d",
		e.cfg.MaxConcurrent, e.cfg.RunTimeout, e.cfg.QueueBound)
	e.wg.Add(1)
	go e.dispatch()
}

// Stop cancels all in-flight runs and waits for workers to drain
func (e *Executor) Stop() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.cancelAll()
	e.signal()
	e.wg.Wait()
}

// SubmitRun creates one Pending run per scenario and enqueues them in
// submission order. It never blocks on execution: the handles come back
// synchronously. With a bounded queue that is full it fails fast with
// ErrOverloaded instead of silently dropping.
func (e *Executor) SubmitRun(meta form.FormMetadata, scenarios []gen.Scenario, seed int64) ([]*testrun.TestRun, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	if len(scenarios) == 0 {
		scenarios = []gen.Scenario{gen.ScenarioValid}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, fmt.Errorf("executor is stopped")
	}
	if e.cfg.QueueBound > 0 && len(e.queue)+len(scenarios) > e.cfg.QueueBound {
		return nil, core.ErrOverloaded
	}

	handles := make([]*testrun.TestRun, 0, len(scenarios))
	for _, scenario := range scenarios {
		run := testrun.New(meta.ID, scenario)
		ctx, cancel := context.WithCancel(e.baseCtx)
		job := &runJob{
			handle:   NewRunHandle(run),
			meta:     meta,
			scenario: scenario,
			seed:     seed,
			ctx:      ctx,
			cancel:   cancel,
		}
		e.entries[run.ID] = job
		e.queue = append(e.queue, job)
		handles = append(handles, job.handle.Snapshot())
	}
	e.signal()
	return handles, nil
}

// GetRun returns a point-in-time snapshot of a run
func (e *Executor) GetRun(id core.RunID) (*testrun.TestRun, error) {
	e.mu.Lock()
	job, ok := e.entries[id]
	e.mu.Unlock()
	if !ok {
		return nil, core.ErrRunNotFound
	}
	return job.handle.Snapshot(), nil
}

// CancelRun requests cooperative cancellation. Cancelling a terminal run is
// a no-op and does not alter its recorded status.
func (e *Executor) CancelRun(id core.RunID) error {
	e.mu.Lock()
	job, ok := e.entries[id]
	e.mu.Unlock()
	if !ok {
		return core.ErrRunNotFound
	}
	if job.handle.Terminal() {
		return nil
	}
	job.cancel()
	return nil
}

func (e *Executor) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// dispatch pops jobs FIFO and starts them as semaphore capacity frees.
func (e *Executor) dispatch() {
	defer e.wg.Done()
	for {
		job := e.next()
		if job == nil {
			return
		}
		if err := e.sem.Acquire(e.baseCtx, 1); err != nil {
			e.finishDirect(job, testrun.StatusCancelled, "executor stopped")
			continue
		}
		e.wg.Add(1)
		go func(j *runJob) {
			defer e.wg.Done()
			defer e.sem.Release(1)
			e.execute(j)
		}(job)
	}
}

func (e *Executor) next() *runJob {
	for {
		e.mu.Lock()
		if len(e.queue) > 0 {
			job := e.queue[0]
			e.queue = e.queue[1:]
			e.mu.Unlock()
			return job
		}
		closed := e.closed
		e.mu.Unlock()
		if closed {
			return nil
		}
		select {
		case <-e.wake:
		case <-e.baseCtx.Done():
			return nil
		}
	}
}

// execute drives one run end to end, releasing the browser session on every
// exit path and guaranteeing a terminal status.
func (e *Executor) execute(job *runJob) {
	defer job.cancel()

	runCtx := job.ctx
	if e.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(job.ctx, e.cfg.RunTimeout)
		defer cancel()
	}

	// cancelled while still queued
	if runCtx.Err() != nil {
		e.finishDirect(job, testrun.StatusCancelled, "cancelled before start")
		return
	}

	sess, err := e.pool.Acquire(runCtx)
	if err != nil {
		if runCtx.Err() != nil {
			e.finishDirect(job, testrun.StatusCancelled, cancelSummary(runCtx))
		} else {
			e.finishDirect(job, testrun.StatusErrored, fmt.Sprintf("browser session unavailable: %v", err))
		}
		return
	}
	defer e.pool.Release(sess)

	generation, err := e.synth.Synthesize(runCtx, job.meta, job.scenario, job.seed)
	if err != nil {
		e.finishDirect(job, testrun.StatusErrored, fmt.Sprintf("value generation failed: %v", err))
		return
	}

	e.machine.Execute(runCtx, job.handle, job.meta, generation.Values, sess)
	e.complete(job)
}

// finishDirect terminates a run that never reached the state machine.
func (e *Executor) finishDirect(job *runJob, status testrun.Status, summary string) {
	if job.handle.Finish(status, summary) {
		e.complete(job)
	}
}

// complete pushes the terminal run to persistence and analytics.
func (e *Executor) complete(job *runJob) {
	snap := job.handle.Snapshot()
	if !snap.Status.Terminal() {
		// state machine bug: a run has to be terminal here
		log.Printf("[Executor] run %s completed without terminal status %s", snap.ID, snap.Status)
		return
	}

	if e.sink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := e.sink.SaveRun(ctx, snap); err != nil {
			log.Printf("[Executor] run %s: persist failed: %v", snap.ID, err)
		}
		cancel()
	}
	if e.analytics != nil {
		e.analytics.Record(snap, fieldTypesOf(job.meta))
	}
}

func cancelSummary(ctx context.Context) string {
	if ctx.Err() == context.DeadlineExceeded {
		return core.ErrRunTimeout.Error()
	}
	return "cancelled by request"
}

func fieldTypesOf(meta form.FormMetadata) map[string]form.SemanticType {
	out := make(map[string]form.SemanticType, len(meta.Fields))
	for _, f := range meta.Fields {
		out[f.Name] = f.Type
	}
	return out
}
