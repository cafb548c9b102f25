// Package llm implements the AI-backed value generator behind the same
// port as the deterministic rule-based one. Failover between the two lives
// in the synthesizer, not here.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"formprobe/domain/core"
	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/ports"
)

// Generator implements ports.ValueGenerator using an LLM
type Generator struct {
	config Config
	client LLMClient
}

// NewGenerator creates a new LLM value generator
func NewGenerator(config Config) (*Generator, error) {
	client, err := newLLMClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return &Generator{config: config, client: client}, nil
}

// NewGeneratorWithClient injects a client, used by tests
func NewGeneratorWithClient(config Config, client LLMClient) *Generator {
	return &Generator{config: config, client: client}
}

var _ ports.ValueGenerator = (*Generator)(nil)

// GenerateValues implements ports.ValueGenerator
func (g *Generator) GenerateValues(ctx context.Context, req ports.GenerationRequest) (*ports.Generation, error) {
	if err := req.Metadata.Validate(); err != nil {
		return nil, err
	}

	prompt := buildPrompt(req)
	log.Printf("[LLMGenerator] requesting %s values for %d fields, model=%s",
		req.Scenario, len(req.Metadata.Fields), g.config.Model)

	raw, err := g.client.ChatCompletion(ctx, g.config.Model, prompt, g.config.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrGenerationFailed, err)
	}

	values, err := parseResponse(raw, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrGenerationFailed, err)
	}

	return &ports.Generation{
		Values: values,
		Audit:  ports.GenerationAudit{GeneratorType: "ai", Model: g.config.Model},
	}, nil
}

// buildPrompt renders the field specs and scenario policy into a JSON-output
// instruction.
func buildPrompt(req ports.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Generate one test value per form field for the scenario \"")
	b.WriteString(string(req.Scenario))
	b.WriteString("\".\n\nFields:\n")
	for _, f := range req.Metadata.Fields {
		spec, _ := json.Marshal(f)
		b.WriteString("- ")
		b.Write(spec)
		b.WriteString("\n")
	}
	b.WriteString(`
Scenario policy:
- valid: value satisfies every constraint, expected_outcome "accept"
- invalid: value violates exactly one constraint dimension, expected_outcome "reject"; if nothing is violable set not_applicable true
- edge_case: boundary-adjacent but still valid, expected_outcome "accept"
- boundary: emit the inclusive threshold ("accept") and one unit beyond it ("reject") for every closed numeric or length range

Respond with a JSON array only, one object per value:
[{"field_name": "...", "value": "...", "expected_outcome": "accept|reject", "not_applicable": false}]
`)
	return b.String()
}

type responseItem struct {
	FieldName       string      `json:"field_name"`
	Value           interface{} `json:"value"`
	ExpectedOutcome string      `json:"expected_outcome"`
	NotApplicable   bool        `json:"not_applicable"`
}

// parseResponse validates the model output against the metadata: every field
// covered, no unknown field names, outcomes well-formed.
func parseResponse(raw string, req ports.GenerationRequest) ([]gen.GeneratedValue, error) {
	raw = strings.TrimSpace(raw)
	// tolerate fenced output
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var items []responseItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("response is not a JSON array: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("response contained no values")
	}

	covered := make(map[string]bool)
	var values []gen.GeneratedValue
	for i, item := range items {
		field, ok := req.Metadata.Field(item.FieldName)
		if !ok {
			return nil, fmt.Errorf("item %d references unknown field %q", i, item.FieldName)
		}
		covered[item.FieldName] = true

		if item.NotApplicable {
			values = append(values, gen.GeneratedValue{
				FieldName:     item.FieldName,
				Scenario:      req.Scenario,
				Value:         gen.NoValue(),
				NotApplicable: true,
				Reason:        "model marked not applicable",
			})
			continue
		}

		var expected gen.ExpectedOutcome
		switch item.ExpectedOutcome {
		case "accept":
			expected = gen.ExpectAccept
		case "reject":
			expected = gen.ExpectReject
		default:
			return nil, fmt.Errorf("item %d has invalid expected_outcome %q", i, item.ExpectedOutcome)
		}

		values = append(values, gen.GeneratedValue{
			FieldName: item.FieldName,
			Scenario:  req.Scenario,
			Value:     coerceValue(item.Value, field.Type),
			Expected:  expected,
		})
	}

	for _, f := range req.Metadata.Fields {
		if !covered[f.Name] {
			return nil, fmt.Errorf("field %q not covered by response", f.Name)
		}
	}
	return values, nil
}

// coerceValue maps loosely typed JSON into the domain value union according
// to the field's semantic type.
func coerceValue(v interface{}, fieldType form.SemanticType) gen.Value {
	switch x := v.(type) {
	case bool:
		return gen.BoolValue(x)
	case float64:
		if fieldType == form.TypeNumber {
			return gen.NumberValue(x)
		}
		return gen.StringValue(fmt.Sprintf("%v", x))
	case []interface{}:
		list := make([]string, 0, len(x))
		for _, e := range x {
			list = append(list, fmt.Sprintf("%v", e))
		}
		return gen.ListValue(list)
	case string:
		return gen.StringValue(x)
	}
	return gen.StringValue(fmt.Sprintf("%v", v))
}
