package ports

import (
	"context"

	"formprobe/domain/form"
	"formprobe/domain/gen"
)

// GenerationRequest specifies one synthesis call.
type GenerationRequest struct {
	Metadata form.FormMetadata `json:"metadata"`
	Scenario gen.Scenario      `json:"scenario"`
	Seed     int64             `json:"seed"`
}

// GenerationAudit is metadata about a generation call, persisted for
// debugging and replay.
type GenerationAudit struct {
	GeneratorType string `json:"generator_type"` // "ai" | "rules"
	Model         string `json:"model,omitempty"`
	FellBack      bool   `json:"fell_back,omitempty"`
	FallbackCause string `json:"fallback_cause,omitempty"`
}

// Generation is the full output of a synthesis call.
type Generation struct {
	Values []gen.GeneratedValue `json:"values"`
	Audit  GenerationAudit      `json:"audit"`
}

// ValueGenerator produces scenario-tagged value sets for a form. Two
// implementations exist behind this signature: the deterministic rule-based
// generator and the optional AI-backed one.
type ValueGenerator interface {
	GenerateValues(ctx context.Context, req GenerationRequest) (*Generation, error)
}
