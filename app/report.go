package app

import (
	"fmt"
	"sort"
	"strings"

	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/domain/testrun"
)

// BuildReport renders an analytics snapshot as a markdown document. The UI
// serves it raw or converted to HTML.
func BuildReport(snap AnalyticsSnapshot) string {
	var b strings.Builder

	b.WriteString("# Form Test Report\n\n")
	fmt.Fprintf(&b, "Generated at %s\n\n", snap.GeneratedAt.String())

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Total runs: %d\n", snap.TotalRuns)
	fmt.Fprintf(&b, "- Passed: %d\n", snap.ByStatus[testrun.StatusPassed])
	fmt.Fprintf(&b, "- Failed: %d\n", snap.ByStatus[testrun.StatusFailed])
	fmt.Fprintf(&b, "- Errored: %d\n", snap.ByStatus[testrun.StatusErrored])
	fmt.Fprintf(&b, "- Cancelled: %d\n", snap.ByStatus[testrun.StatusCancelled])
	judged := snap.ByStatus[testrun.StatusPassed] + snap.ByStatus[testrun.StatusFailed]
	if judged > 0 {
		fmt.Fprintf(&b, "- Pass rate: %.1f%% (95%% CI %.1f%%–%.1f%%)\n",
			snap.PassRate*100, snap.PassRateCILow*100, snap.PassRateCIHigh*100)
	}
	b.WriteString("\n")

	if len(snap.ByScenario) > 0 {
		b.WriteString("## Runs by Scenario\n\n")
		b.WriteString("| Scenario | Runs |\n|---|---|\n")
		scenarios := make([]string, 0, len(snap.ByScenario))
		for s := range snap.ByScenario {
			scenarios = append(scenarios, string(s))
		}
		sort.Strings(scenarios)
		for _, s := range scenarios {
			fmt.Fprintf(&b, "| %s | %d |\n", s, snap.ByScenario[gen.Scenario(s)])
		}
		b.WriteString("\n")
	}

	if len(snap.ByFieldType) > 0 {
		b.WriteString("## Failure Rate by Field Type\n\n")
		b.WriteString("| Field type | Interactions | Failed | Failure rate |\n|---|---|---|---|\n")
		types := make([]string, 0, len(snap.ByFieldType))
		for t := range snap.ByFieldType {
			types = append(types, string(t))
		}
		sort.Strings(types)
		for _, t := range types {
			ts := snap.ByFieldType[form.SemanticType(t)]
			fmt.Fprintf(&b, "| %s | %d | %d | %.1f%% |\n", t, ts.Interactions, ts.Failed, ts.FailureRate*100)
		}
		b.WriteString("\n")
	}

	if snap.Durations.Count > 0 {
		b.WriteString("## Run Durations\n\n")
		fmt.Fprintf(&b, "- Sample size: %d\n", snap.Durations.Count)
		fmt.Fprintf(&b, "- Mean: %.0f ms\n", snap.Durations.MeanMs)
		fmt.Fprintf(&b, "- Median: %.0f ms\n", snap.Durations.MedianMs)
		fmt.Fprintf(&b, "- P95: %.0f ms\n\n", snap.Durations.P95Ms)
	}

	if len(snap.RecentFailures) > 0 {
		b.WriteString("## Recent Failures\n\n")
		b.WriteString("| Run | Form | Scenario | Status | Summary |\n|---|---|---|---|---|\n")
		for _, rec := range snap.RecentFailures {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				rec.RunID, rec.FormID, rec.Scenario, rec.Status, rec.Summary)
		}
		b.WriteString("\n")
	}

	return b.String()
}
