package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formprobe/adapters/rng"
	"formprobe/adapters/rules"
	"formprobe/domain/gen"
	"formprobe/internal/testkit"
	"formprobe/ports"
)

// stubGenerator scripts one generator behavior per test.
type stubGenerator struct {
	out   *ports.Generation
	err   error
	block bool // wait for ctx cancellation instead of returning
	calls int
}

func (s *stubGenerator) GenerateValues(ctx context.Context, req ports.GenerationRequest) (*ports.Generation, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.out, s.err
}

func TestSynthesizeRuleBasedOnly(t *testing.T) {
	synth := NewSynthesizer(rules.NewGenerator(rng.New()))

	out, err := synth.Synthesize(context.Background(), testkit.SignupForm(), gen.ScenarioValid, 42)
	require.NoError(t, err)
	assert.Equal(t, "rules", out.Audit.GeneratorType)
	assert.False(t, out.Audit.FellBack)
	assert.NotEmpty(t, out.Values)
}

func TestSynthesizeFallsBackOnAIError(t *testing.T) {
	primary := &stubGenerator{err: errors.New("model unavailable")}
	synth := NewSynthesizerWithAI(primary, rules.NewGenerator(rng.New()), 0)

	out, err := synth.Synthesize(context.Background(), testkit.SignupForm(), gen.ScenarioValid, 42)
	require.NoError(t, err, "AI failure must not surface to the caller")
	assert.Equal(t, 1, primary.calls)
	assert.True(t, out.Audit.FellBack)
	assert.Contains(t, out.Audit.FallbackCause, "model unavailable")
	assert.Equal(t, "rules", out.Audit.GeneratorType)
	assert.NotEmpty(t, out.Values)
}

func TestSynthesizeFallsBackOnAITimeout(t *testing.T) {
	primary := &stubGenerator{block: true}
	synth := NewSynthesizerWithAI(primary, rules.NewGenerator(rng.New()), 20*time.Millisecond)

	start := time.Now()
	out, err := synth.Synthesize(context.Background(), testkit.SignupForm(), gen.ScenarioInvalid, 7)
	require.NoError(t, err)
	assert.True(t, out.Audit.FellBack)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSynthesizePrefersAIWhenHealthy(t *testing.T) {
	want := &ports.Generation{
		Values: []gen.GeneratedValue{{
			FieldName: "email",
			Scenario:  gen.ScenarioValid,
			Value:     gen.StringValue("ai@example.com"),
			Expected:  gen.ExpectAccept,
		}},
		Audit: ports.GenerationAudit{GeneratorType: "ai", Model: "test-model"},
	}
	primary := &stubGenerator{out: want}
	synth := NewSynthesizerWithAI(primary, rules.NewGenerator(rng.New()), 0)

	out, err := synth.Synthesize(context.Background(), testkit.SignupForm(), gen.ScenarioValid, 42)
	require.NoError(t, err)
	assert.Equal(t, want, out)
	assert.False(t, out.Audit.FellBack)
}
