package ports

import (
	"context"

	"formprobe/domain/testrun"
)

// RunSink accepts terminal test runs (screenshot references included) for
// durable storage. Write-only from the pipeline's perspective.
type RunSink interface {
	SaveRun(ctx context.Context, run *testrun.TestRun) error
}
