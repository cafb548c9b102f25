package app

import (
	"log"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"formprobe/domain/core"
	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/domain/testrun"
)

const (
	defaultRecentFailures = 50
	durationWindow        = 512
	eventBuffer           = 256
)

// TypeStats counts field interactions per semantic type.
type TypeStats struct {
	Interactions int     `json:"interactions"`
	Failed       int     `json:"failed"`
	FailureRate  float64 `json:"failure_rate"`
}

// FailureRecord is one entry in the bounded recent-failure window.
type FailureRecord struct {
	RunID    core.RunID     `json:"run_id"`
	FormID   core.FormID    `json:"form_id"`
	Scenario gen.Scenario   `json:"scenario"`
	Status   testrun.Status `json:"status"`
	Summary  string         `json:"summary"`
	At       core.Timestamp `json:"at"`
}

// DurationStats summarizes run durations over a sliding sample window.
type DurationStats struct {
	Count    int     `json:"count"`
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`
	P95Ms    float64 `json:"p95_ms"`
}

// AnalyticsSnapshot is a consistent point-in-time view of aggregate state.
type AnalyticsSnapshot struct {
	TotalRuns      int                               `json:"total_runs"`
	ByStatus       map[testrun.Status]int            `json:"by_status"`
	ByScenario     map[gen.Scenario]int              `json:"by_scenario"`
	PassRate       float64                           `json:"pass_rate"`
	PassRateCILow  float64                           `json:"pass_rate_ci_low"`
	PassRateCIHigh float64                           `json:"pass_rate_ci_high"`
	ByFieldType    map[form.SemanticType]TypeStats   `json:"by_field_type"`
	RecentFailures []FailureRecord                   `json:"recent_failures"`
	Durations      DurationStats                     `json:"durations"`
	GeneratedAt    core.Timestamp                    `json:"generated_at"`
}

type analyticsEvent struct {
	run        *testrun.TestRun
	fieldTypes map[string]form.SemanticType
}

type snapshotRequest struct {
	reply chan AnalyticsSnapshot
}

// Aggregator consumes terminal runs over a channel and maintains counters in
// a single owning goroutine, so readers never contend with recorders.
// Recording never blocks run execution: when the buffer is full the event is
// dropped and logged.
type Aggregator struct {
	events    chan analyticsEvent
	snapshots chan snapshotRequest
	done      chan struct{}

	maxRecent int

	// owned by the run() goroutine
	totalRuns   int
	byStatus    map[testrun.Status]int
	byScenario  map[gen.Scenario]int
	byFieldType map[form.SemanticType]*TypeStats
	recent      []FailureRecord
	durations   []float64
	durPos      int
	durFull     bool
}

// NewAggregator creates an aggregator; call Start before recording.
func NewAggregator() *Aggregator {
	return &Aggregator{
		events:      make(chan analyticsEvent, eventBuffer),
		snapshots:   make(chan snapshotRequest),
		done:        make(chan struct{}),
		maxRecent:   defaultRecentFailures,
		byStatus:    make(map[testrun.Status]int),
		byScenario:  make(map[gen.Scenario]int),
		byFieldType: make(map[form.SemanticType]*TypeStats),
		durations:   make([]float64, durationWindow),
	}
}

// Start launches the owning goroutine
func (a *Aggregator) Start() {
	go a.run()
}

// Stop shuts the aggregator down; pending events are discarded.
func (a *Aggregator) Stop() {
	close(a.done)
}

// Record submits a terminal run for aggregation. Non-terminal runs are
// ignored. Never blocks.
func (a *Aggregator) Record(run *testrun.TestRun, fieldTypes map[string]form.SemanticType) {
	if run == nil || !run.Status.Terminal() {
		return
	}
	select {
	case a.events <- analyticsEvent{run: run, fieldTypes: fieldTypes}:
	default:
		log.Printf("[Analytics] event buffer full, dropping run %s", run.ID)
	}
}

// Snapshot returns a consistent copy of the current aggregate state.
func (a *Aggregator) Snapshot() AnalyticsSnapshot {
	req := snapshotRequest{reply: make(chan AnalyticsSnapshot, 1)}
	select {
	case a.snapshots <- req:
		return <-req.reply
	case <-a.done:
		return AnalyticsSnapshot{GeneratedAt: core.Now()}
	}
}

func (a *Aggregator) run() {
	for {
		select {
		case ev := <-a.events:
			a.apply(ev)
		case req := <-a.snapshots:
			req.reply <- a.snapshot()
		case <-a.done:
			return
		}
	}
}

func (a *Aggregator) apply(ev analyticsEvent) {
	run := ev.run
	a.totalRuns++
	a.byStatus[run.Status]++
	a.byScenario[run.Scenario]++

	for _, step := range run.Steps {
		if step.Action == testrun.ActionSubmit || step.Action == testrun.ActionSkip {
			continue
		}
		ft, ok := ev.fieldTypes[step.FieldName]
		if !ok {
			continue
		}
		ts := a.byFieldType[ft]
		if ts == nil {
			ts = &TypeStats{}
			a.byFieldType[ft] = ts
		}
		ts.Interactions++
		if step.Status != testrun.StepOK {
			ts.Failed++
		}
	}

	if run.Status == testrun.StatusFailed || run.Status == testrun.StatusErrored {
		rec := FailureRecord{
			RunID:    run.ID,
			FormID:   run.FormID,
			Scenario: run.Scenario,
			Status:   run.Status,
			Summary:  run.ErrorSummary,
			At:       run.FinishedAt,
		}
		a.recent = append(a.recent, rec)
		if len(a.recent) > a.maxRecent {
			a.recent = a.recent[len(a.recent)-a.maxRecent:]
		}
	}

	if d := run.DurationMs(); d > 0 {
		a.durations[a.durPos] = float64(d)
		a.durPos = (a.durPos + 1) % durationWindow
		if a.durPos == 0 {
			a.durFull = true
		}
	}
}

func (a *Aggregator) snapshot() AnalyticsSnapshot {
	snap := AnalyticsSnapshot{
		TotalRuns:   a.totalRuns,
		ByStatus:    make(map[testrun.Status]int, len(a.byStatus)),
		ByScenario:  make(map[gen.Scenario]int, len(a.byScenario)),
		ByFieldType: make(map[form.SemanticType]TypeStats, len(a.byFieldType)),
		GeneratedAt: core.Now(),
	}
	for k, v := range a.byStatus {
		snap.ByStatus[k] = v
	}
	for k, v := range a.byScenario {
		snap.ByScenario[k] = v
	}
	for k, v := range a.byFieldType {
		ts := *v
		if ts.Interactions > 0 {
			ts.FailureRate = float64(ts.Failed) / float64(ts.Interactions)
		}
		snap.ByFieldType[k] = ts
	}
	snap.RecentFailures = append([]FailureRecord(nil), a.recent...)

	judged := a.byStatus[testrun.StatusPassed] + a.byStatus[testrun.StatusFailed]
	if judged > 0 {
		snap.PassRate = float64(a.byStatus[testrun.StatusPassed]) / float64(judged)
		snap.PassRateCILow, snap.PassRateCIHigh = wilsonInterval(a.byStatus[testrun.StatusPassed], judged)
	}

	snap.Durations = a.durationStats()
	return snap
}

func (a *Aggregator) durationStats() DurationStats {
	n := a.durPos
	if a.durFull {
		n = durationWindow
	}
	if n == 0 {
		return DurationStats{}
	}
	sample := stats.Float64Data(a.durations[:n])
	mean, _ := sample.Mean()
	median, _ := sample.Median()
	p95, _ := sample.Percentile(95)
	return DurationStats{Count: n, MeanMs: mean, MedianMs: median, P95Ms: p95}
}

// wilsonInterval computes a 95% Wilson score interval for a pass proportion.
func wilsonInterval(passed, total int) (float64, float64) {
	if total == 0 {
		return 0, 0
	}
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)
	n := float64(total)
	p := float64(passed) / n
	denom := 1 + z*z/n
	center := (p + z*z/(2*n)) / denom
	half := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}
