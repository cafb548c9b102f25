package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"formprobe/domain/testrun"
	"formprobe/internal/errors"
	"formprobe/ports"
)

// RunSinkImpl persists terminal test runs to PostgreSQL
type RunSinkImpl struct {
	db *sqlx.DB
}

// NewRunSink creates a new PostgreSQL run sink
func NewRunSink(db *sqlx.DB) ports.RunSink {
	return &RunSinkImpl{db: db}
}

// SaveRun writes the run, its steps, and its screenshot references in one
// transaction. Re-saving a run replaces its child rows, so retries after a
// partial failure converge on the final state.
func (r *RunSinkImpl) SaveRun(ctx context.Context, run *testrun.TestRun) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin run save transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO test_runs (id, form_id, scenario, status, error_summary, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			error_summary = EXCLUDED.error_summary,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at`,
		run.ID, run.FormID, run.Scenario, run.Status, run.ErrorSummary,
		run.StartedAt.Time(), run.FinishedAt.Time())
	if err != nil {
		return errors.Wrap(err, "failed to insert test run")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM step_results WHERE run_id = $1`, run.ID); err != nil {
		return errors.Wrap(err, "failed to clear step results")
	}
	for i, step := range run.Steps {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO step_results (run_id, seq, field_name, action, status, offset_ms)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			run.ID, i, step.FieldName, step.Action, step.Status, step.OffsetMs)
		if err != nil {
			return errors.Wrap(err, "failed to insert step result")
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM screenshots WHERE run_id = $1`, run.ID); err != nil {
		return errors.Wrap(err, "failed to clear screenshots")
	}
	for _, shot := range run.Screenshots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO screenshots (id, run_id, stage, ref, captured_at)
			VALUES ($1, $2, $3, $4, $5)`,
			shot.ID, run.ID, shot.Stage, shot.Ref, shot.CapturedAt.Time())
		if err != nil {
			return errors.Wrap(err, "failed to insert screenshot")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit run save")
	}
	return nil
}
