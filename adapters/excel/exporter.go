package excel

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"formprobe/app"
	"formprobe/domain/form"
	"formprobe/domain/testrun"
)

// Exporter renders an analytics snapshot as an xlsx workbook with one sheet
// per concern: summary counters, per-field-type failure rates, and the
// recent-failure window.
type Exporter struct{}

// NewExporter creates an analytics exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// Write renders the snapshot into w as an xlsx workbook.
func (e *Exporter) Write(w io.Writer, snap app.AnalyticsSnapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummary(f, snap); err != nil {
		return err
	}
	if err := e.writeFieldTypes(f, snap); err != nil {
		return err
	}
	if err := e.writeFailures(f, snap); err != nil {
		return err
	}

	// the default sheet is replaced, not kept alongside
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.Write(w)
}

func (e *Exporter) writeSummary(f *excelize.File, snap app.AnalyticsSnapshot) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total runs", snap.TotalRuns},
		{"Passed", snap.ByStatus[testrun.StatusPassed]},
		{"Failed", snap.ByStatus[testrun.StatusFailed]},
		{"Errored", snap.ByStatus[testrun.StatusErrored]},
		{"Cancelled", snap.ByStatus[testrun.StatusCancelled]},
		{"Pass rate", snap.PassRate},
		{"Pass rate 95% CI low", snap.PassRateCILow},
		{"Pass rate 95% CI high", snap.PassRateCIHigh},
		{"Mean duration (ms)", snap.Durations.MeanMs},
		{"Median duration (ms)", snap.Durations.MedianMs},
		{"P95 duration (ms)", snap.Durations.P95Ms},
		{"Generated at", snap.GeneratedAt.String()},
	}
	return writeRows(f, sheet, rows)
}

func (e *Exporter) writeFieldTypes(f *excelize.File, snap app.AnalyticsSnapshot) error {
	const sheet = "Field Types"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	types := make([]string, 0, len(snap.ByFieldType))
	for t := range snap.ByFieldType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	rows := [][]interface{}{{"Field type", "Interactions", "Failed", "Failure rate"}}
	for _, t := range types {
		ts := snap.ByFieldType[form.SemanticType(t)]
		rows = append(rows, []interface{}{t, ts.Interactions, ts.Failed, ts.FailureRate})
	}
	return writeRows(f, sheet, rows)
}

func (e *Exporter) writeFailures(f *excelize.File, snap app.AnalyticsSnapshot) error {
	const sheet = "Recent Failures"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{{"Run ID", "Form ID", "Scenario", "Status", "Summary", "At"}}
	for _, rec := range snap.RecentFailures {
		rows = append(rows, []interface{}{
			string(rec.RunID), string(rec.FormID), string(rec.Scenario),
			string(rec.Status), rec.Summary, rec.At.String(),
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell coordinates (%d,%d): %w", c+1, r+1, err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}
