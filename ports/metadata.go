package ports

import (
	"context"

	"formprobe/domain/core"
	"formprobe/domain/form"
)

// MetadataProvider yields extracted form metadata. The extraction subsystem
// owns it; this core only reads.
type MetadataProvider interface {
	FormByID(ctx context.Context, id core.FormID) (*form.FormMetadata, error)
}
