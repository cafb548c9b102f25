package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"formprobe/domain/core"
	"formprobe/domain/form"
	"formprobe/ports"
)

var _ ports.MetadataProvider = (*MemoryRegistry)(nil)

// MemoryRegistry is an in-memory form metadata store. The extraction
// subsystem that discovers forms lives elsewhere; this registry is the
// hand-off point between it and the test pipeline.
type MemoryRegistry struct {
	mu    sync.RWMutex
	forms map[core.FormID]form.FormMetadata
}

// NewMemoryRegistry creates an empty registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{forms: make(map[core.FormID]form.FormMetadata)}
}

// Register validates and stores form metadata, assigning an ID when the
// caller did not provide one. Re-registering an ID replaces the metadata.
func (r *MemoryRegistry) Register(meta form.FormMetadata) (form.FormMetadata, error) {
	if meta.ID == "" {
		meta.ID = core.FormID(core.NewID())
	}
	if err := meta.Validate(); err != nil {
		return form.FormMetadata{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[meta.ID] = meta
	return meta, nil
}

// FormByID resolves registered metadata
func (r *MemoryRegistry) FormByID(ctx context.Context, id core.FormID) (*form.FormMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.forms[id]
	if !ok {
		return nil, fmt.Errorf("form %s: %w", id, core.ErrFormNotFound)
	}
	out := meta
	return &out, nil
}

// List returns all registered forms ordered by ID.
func (r *MemoryRegistry) List() []form.FormMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]form.FormMetadata, 0, len(r.forms))
	for _, meta := range r.forms {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
