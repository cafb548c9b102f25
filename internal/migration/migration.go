package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"formprobe/internal/errors"
)

// Runner handles database schema migrations
type Runner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *Runner {
	return &Runner{version: "1.0.0"}
}

// Version returns the migration version
func (r *Runner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *Runner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createTestRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create test_runs table")
	}
	if err := r.createStepResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create step_results table")
	}
	if err := r.createScreenshotsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create screenshots table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *Runner) createTestRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS test_runs (
			id UUID PRIMARY KEY,
			form_id VARCHAR(255) NOT NULL,
			scenario VARCHAR(50) NOT NULL,
			status VARCHAR(50) NOT NULL,
			error_summary TEXT,
			started_at TIMESTAMP WITH TIME ZONE,
			finished_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *Runner) createStepResultsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS step_results (
			id BIGSERIAL PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES test_runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			field_name VARCHAR(255) NOT NULL,
			action VARCHAR(50) NOT NULL,
			status VARCHAR(50) NOT NULL,
			offset_ms BIGINT NOT NULL DEFAULT 0
		)
	`)
	return err
}

func (r *Runner) createScreenshotsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS screenshots (
			id UUID PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES test_runs(id) ON DELETE CASCADE,
			stage VARCHAR(50) NOT NULL,
			ref TEXT NOT NULL,
			captured_at TIMESTAMP WITH TIME ZONE
		)
	`)
	return err
}

func (r *Runner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_test_runs_form_id ON test_runs(form_id);
		CREATE INDEX IF NOT EXISTS idx_test_runs_status ON test_runs(status);
		CREATE INDEX IF NOT EXISTS idx_step_results_run_id ON step_results(run_id);
		CREATE INDEX IF NOT EXISTS idx_screenshots_run_id ON screenshots(run_id)
	`)
	return err
}
