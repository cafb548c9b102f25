package app

import (
	"context"
	"log"
	"time"

	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/ports"
)

// Synthesizer produces scenario-tagged value sets for a form. When an
// AI-backed generator is configured it is tried first; any error or timeout
// on that path fails over to the deterministic rule-based generator without
// surfacing the failure to the caller. The fallback is a correctness
// requirement, not an optimization.
type Synthesizer struct {
	primary   ports.ValueGenerator // optional AI path, may be nil
	fallback  ports.ValueGenerator // deterministic rule-based path, never nil
	aiTimeout time.Duration
}

// NewSynthesizer creates a synthesizer over the rule-based generator only
func NewSynthesizer(fallback ports.ValueGenerator) *Synthesizer {
	return &Synthesizer{fallback: fallback}
}

// NewSynthesizerWithAI creates a synthesizer that prefers the AI path
func NewSynthesizerWithAI(primary, fallback ports.ValueGenerator, aiTimeout time.Duration) *Synthesizer {
	return &Synthesizer{primary: primary, fallback: fallback, aiTimeout: aiTimeout}
}

// Synthesize generates one scenario-tagged value set for the form.
// Deterministic for a given (metadata, scenario, seed) when the rule-based
// path serves the request.
func (s *Synthesizer) Synthesize(ctx context.Context, meta form.FormMetadata, scenario gen.Scenario, seed int64) (*ports.Generation, error) {
	req := ports.GenerationRequest{Metadata: meta, Scenario: scenario, Seed: seed}

	if s.primary != nil {
		aiCtx := ctx
		var cancel context.CancelFunc
		if s.aiTimeout > 0 {
			aiCtx, cancel = context.WithTimeout(ctx, s.aiTimeout)
		}
		out, err := s.primary.GenerateValues(aiCtx, req)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return out, nil
		}
		// informational, never an error to the caller
		log.Printf("[Synthesizer] AI generation failed, using rule-based path: %v", err)
		out2, err2 := s.fallback.GenerateValues(ctx, req)
		if err2 != nil {
			return nil, err2
		}
		out2.Audit.FellBack = true
		out2.Audit.FallbackCause = err.Error()
		return out2, nil
	}

	return s.fallback.GenerateValues(ctx, req)
}
