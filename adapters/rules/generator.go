// Package rules implements the deterministic, catalog-driven value
// generator. It is the mandatory fallback behind the AI path and the
// default synthesis engine.
package rules

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"formprobe/domain/catalog"
	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/ports"
)

// Generator produces scenario-tagged values from the field type catalog.
// All randomness flows through named seeded streams, so output is identical
// for identical (metadata, scenario, seed) inputs.
type Generator struct {
	rng ports.RNG
}

// NewGenerator creates a rule-based generator
func NewGenerator(rng ports.RNG) *Generator {
	return &Generator{rng: rng}
}

var _ ports.ValueGenerator = (*Generator)(nil)

// GenerateValues implements ports.ValueGenerator
func (g *Generator) GenerateValues(_ context.Context, req ports.GenerationRequest) (*ports.Generation, error) {
	if err := req.Metadata.Validate(); err != nil {
		return nil, err
	}

	var values []gen.GeneratedValue
	for _, field := range req.Metadata.Fields {
		rules, err := catalog.RulesFor(field.Type)
		if err != nil {
			// recovered locally: unknown types use the generic text rule
			log.Printf("[RulesGenerator] field %q: %v, using generic text rule", field.Name, err)
		}
		stream := g.rng.Stream(string(req.Scenario)+"/"+field.Name, req.Seed)
		values = append(values, g.valuesFor(field, rules, req.Scenario, stream)...)
	}

	return &ports.Generation{
		Values: values,
		Audit:  ports.GenerationAudit{GeneratorType: "rules"},
	}, nil
}

// valuesFor applies one scenario policy to one field. Every field yields at
// least one entry; the boundary scenario yields the inclusive/overflow pair
// when the constraints define a closed range.
func (g *Generator) valuesFor(field form.FieldSpec, rules catalog.Rules, scenario gen.Scenario, r *rand.Rand) []gen.GeneratedValue {
	switch scenario {
	case gen.ScenarioValid:
		return []gen.GeneratedValue{{
			FieldName: field.Name,
			Scenario:  scenario,
			Value:     g.validValue(field, rules.Generation, r),
			Expected:  gen.ExpectAccept,
		}}
	case gen.ScenarioInvalid:
		return []gen.GeneratedValue{g.invalidValue(field, rules.Generation, r)}
	case gen.ScenarioEdgeCase:
		return []gen.GeneratedValue{{
			FieldName: field.Name,
			Scenario:  scenario,
			Value:     g.edgeValue(field, rules.Generation, r),
			Expected:  gen.ExpectAccept,
		}}
	case gen.ScenarioBoundary:
		return g.boundaryValues(field, rules.Generation, r)
	}
	// unknown scenario: treat as valid rather than failing generation
	return []gen.GeneratedValue{{
		FieldName: field.Name,
		Scenario:  scenario,
		Value:     g.validValue(field, rules.Generation, r),
		Expected:  gen.ExpectAccept,
	}}
}

func (g *Generator) validValue(field form.FieldSpec, rule catalog.GenerationRule, r *rand.Rand) gen.Value {
	c := field.Constraints
	switch rule {
	case catalog.GenEmail:
		addr := fmt.Sprintf("%s.%s@%s",
			strings.ToLower(pick(r, firstNames)),
			strings.ToLower(pick(r, lastNames)),
			pick(r, emailDomains))
		if c.MaxLength != nil && len(addr) > *c.MaxLength {
			addr = "a@b.co"
		}
		return gen.StringValue(addr)
	case catalog.GenPhone:
		return gen.StringValue(pick(r, validPhoneFormats))
	case catalog.GenPassword:
		return gen.StringValue(g.password(c, r))
	case catalog.GenNumber:
		lo, hi := numericBounds(c)
		return gen.NumberValue(float64(lo + r.Int63n(hi-lo+1)))
	case catalog.GenDate:
		day := time.Now().AddDate(0, 0, r.Intn(730)-365)
		return gen.StringValue(day.Format("2006-01-02"))
	case catalog.GenTime:
		return gen.StringValue(fmt.Sprintf("%02d:%02d", r.Intn(24), r.Intn(60)))
	case catalog.GenDateTime:
		day := time.Now().AddDate(0, 0, r.Intn(730)-365)
		return gen.StringValue(fmt.Sprintf("%sT%02d:%02d", day.Format("2006-01-02"), r.Intn(24), r.Intn(60)))
	case catalog.GenURL:
		return gen.StringValue(fmt.Sprintf("https://www.%s/page", pick(r, emailDomains[:3])))
	case catalog.GenBoolean:
		return gen.BoolValue(r.Intn(2) == 1)
	case catalog.GenOption:
		if len(c.Options) > 0 {
			return gen.StringValue(pick(r, c.Options))
		}
		return gen.StringValue("option1")
	case catalog.GenOptions:
		if len(c.Options) > 0 {
			n := 1 + r.Intn(len(c.Options))
			return gen.ListValue(append([]string(nil), c.Options[:n]...))
		}
		return gen.ListValue([]string{"option1"})
	case catalog.GenLongText:
		text := "This is a sample textarea content with multiple lines.\nIt contains realistic text for testing purposes."
		return gen.StringValue(clampLength(text, c))
	case catalog.GenFile:
		return gen.StringValue("sample_file" + pick(r, fileExtensions))
	case catalog.GenOpaque:
		return gen.StringValue(fmt.Sprintf("hidden-%08x", r.Uint32()))
	default: // free text
		return gen.StringValue(clampLength(g.contextText(field, r), c))
	}
}

// invalidValue violates exactly one constraint dimension. Fields with no
// violable dimension are recorded as not-applicable instead of fabricating
// a false violation.
func (g *Generator) invalidValue(field form.FieldSpec, rule catalog.GenerationRule, r *rand.Rand) gen.GeneratedValue {
	out := gen.GeneratedValue{
		FieldName: field.Name,
		Scenario:  gen.ScenarioInvalid,
		Expected:  gen.ExpectReject,
	}
	c := field.Constraints

	switch rule {
	case catalog.GenEmail:
		out.Value = gen.StringValue(pick(r, invalidEmails))
		out.Reason = "malformed email"
	case catalog.GenPhone:
		out.Value = gen.StringValue(pick(r, invalidPhones))
		out.Reason = "malformed phone"
	case catalog.GenNumber:
		out.Value = gen.StringValue("not_a_number")
		out.Reason = "wrong type for numeric field"
	case catalog.GenDate:
		out.Value = gen.StringValue("2023-13-45")
		out.Reason = "impossible calendar date"
	case catalog.GenTime:
		out.Value = gen.StringValue("25:70")
		out.Reason = "impossible time of day"
	case catalog.GenDateTime:
		out.Value = gen.StringValue("2023-13-45T25:70")
		out.Reason = "impossible datetime"
	case catalog.GenURL:
		out.Value = gen.StringValue("not-a-url")
		out.Reason = "malformed url"
	case catalog.GenOption, catalog.GenOptions:
		if len(c.Options) == 0 {
			return notApplicable(out, "no option constraint to violate")
		}
		if rule == catalog.GenOptions {
			out.Value = gen.ListValue([]string{"invalid_option"})
		} else {
			out.Value = gen.StringValue("invalid_option")
		}
		out.Reason = "value outside allowed options"
	case catalog.GenBoolean:
		return notApplicable(out, "boolean state cannot be invalid")
	case catalog.GenOpaque:
		return notApplicable(out, "hidden field has no violable constraint")
	case catalog.GenFile:
		out.Value = gen.StringValue("file_without_extension")
		out.Reason = "missing file extension"
	default: // free text, long text, password
		switch {
		case c.MinLength != nil && *c.MinLength > 0:
			out.Value = gen.StringValue(strings.Repeat("x", *c.MinLength-1))
			out.Reason = "below minimum length"
		case c.MaxLength != nil:
			out.Value = gen.StringValue(strings.Repeat("x", *c.MaxLength+1))
			out.Reason = "above maximum length"
		case c.Pattern != "":
			out.Value = gen.StringValue("§§§")
			out.Reason = "does not match pattern"
		case field.Required:
			out.Value = gen.StringValue("")
			out.Reason = "empty required field"
		default:
			return notApplicable(out, "free text with no violable constraint")
		}
	}
	return out
}

func (g *Generator) edgeValue(field form.FieldSpec, rule catalog.GenerationRule, r *rand.Rand) gen.Value {
	c := field.Constraints
	switch rule {
	case catalog.GenEmail:
		return gen.StringValue(pick(r, edgeEmails))
	case catalog.GenPhone:
		return gen.StringValue("+1 (555) 123-4567")
	case catalog.GenPassword:
		min := 8
		if c.MinLength != nil {
			min = *c.MinLength
		}
		if min < 4 {
			return gen.StringValue(strings.Repeat("x", min))
		}
		return gen.StringValue(strings.Repeat("x", min-4) + "A1!a")
	case catalog.GenNumber:
		lo, _ := numericBounds(c)
		return gen.NumberValue(float64(lo))
	case catalog.GenDate:
		return gen.StringValue("1900-01-01")
	case catalog.GenTime:
		return gen.StringValue("00:00")
	case catalog.GenDateTime:
		return gen.StringValue("1900-01-01T00:00")
	case catalog.GenURL:
		return gen.StringValue("https://example.com")
	case catalog.GenBoolean:
		return gen.BoolValue(true)
	case catalog.GenOption:
		if len(c.Options) > 0 {
			return gen.StringValue(c.Options[len(c.Options)-1])
		}
		return gen.StringValue("option1")
	case catalog.GenOptions:
		if len(c.Options) > 0 {
			return gen.ListValue(append([]string(nil), c.Options...))
		}
		return gen.ListValue([]string{"option1"})
	case catalog.GenLongText:
		if c.MaxLength != nil {
			return gen.StringValue(strings.Repeat("A", *c.MaxLength))
		}
		return gen.StringValue(strings.Repeat("A", 500))
	case catalog.GenFile:
		return gen.StringValue("test.txt")
	case catalog.GenOpaque:
		return gen.StringValue(fmt.Sprintf("hidden-%08x", r.Uint32()))
	default:
		// maximum-length string when bounded, unicode text otherwise
		if c.MaxLength != nil {
			return gen.StringValue(strings.Repeat("x", *c.MaxLength))
		}
		return gen.StringValue(pick(r, unicodeNames))
	}
}

// boundaryValues emits the exact inclusive thresholds with expected accept
// and the adjacent out-of-range values with expected reject. Fields without
// a numeric or length range get a single accept value.
func (g *Generator) boundaryValues(field form.FieldSpec, rule catalog.GenerationRule, r *rand.Rand) []gen.GeneratedValue {
	c := field.Constraints
	mk := func(v gen.Value, expected gen.ExpectedOutcome) gen.GeneratedValue {
		return gen.GeneratedValue{
			FieldName: field.Name,
			Scenario:  gen.ScenarioBoundary,
			Value:     v,
			Expected:  expected,
		}
	}

	if rule == catalog.GenNumber && (c.MinValue != nil || c.MaxValue != nil) {
		var out []gen.GeneratedValue
		if c.MinValue != nil {
			out = append(out, mk(gen.NumberValue(*c.MinValue), gen.ExpectAccept))
		}
		if c.MaxValue != nil {
			out = append(out, mk(gen.NumberValue(*c.MaxValue), gen.ExpectAccept))
		}
		if c.MinValue != nil {
			out = append(out, mk(gen.NumberValue(*c.MinValue-1), gen.ExpectReject))
		}
		if c.MaxValue != nil {
			out = append(out, mk(gen.NumberValue(*c.MaxValue+1), gen.ExpectReject))
		}
		return out
	}

	if c.MinLength != nil || c.MaxLength != nil {
		var out []gen.GeneratedValue
		if c.MinLength != nil {
			out = append(out, mk(gen.StringValue(strings.Repeat("x", *c.MinLength)), gen.ExpectAccept))
		}
		if c.MaxLength != nil {
			out = append(out, mk(gen.StringValue(strings.Repeat("x", *c.MaxLength)), gen.ExpectAccept))
		}
		if c.MinLength != nil && *c.MinLength > 0 {
			out = append(out, mk(gen.StringValue(strings.Repeat("x", *c.MinLength-1)), gen.ExpectReject))
		}
		if c.MaxLength != nil {
			out = append(out, mk(gen.StringValue(strings.Repeat("x", *c.MaxLength+1)), gen.ExpectReject))
		}
		return out
	}

	return []gen.GeneratedValue{mk(g.validValue(field, rule, r), gen.ExpectAccept)}
}

// contextText derives realistic free text from the field's name and label,
// the way a human tester would.
func (g *Generator) contextText(field form.FieldSpec, r *rand.Rand) string {
	ctx := strings.ToLower(field.Label + " " + field.Name)
	switch {
	case containsAny(ctx, "first", "given"):
		return pick(r, firstNames)
	case containsAny(ctx, "last", "family", "surname"):
		return pick(r, lastNames)
	case containsAny(ctx, "name"):
		return pick(r, firstNames) + " " + pick(r, lastNames)
	case containsAny(ctx, "city", "town"):
		return pick(r, cities)
	case containsAny(ctx, "state", "province"):
		return pick(r, states)
	case containsAny(ctx, "address", "street"):
		return fmt.Sprintf("%d %s St", 100+r.Intn(9900), pick(r, streetNames))
	case containsAny(ctx, "zip", "postal"):
		return fmt.Sprintf("%05d", 10000+r.Intn(90000))
	case containsAny(ctx, "company", "organization"):
		return pick(r, companies)
	}
	return fmt.Sprintf("Sample text %d", 1+r.Intn(1000))
}

func (g *Generator) password(c form.Constraints, r *rand.Rand) string {
	min, max := 8, 20
	if c.MinLength != nil {
		min = *c.MinLength
	}
	if c.MaxLength != nil {
		max = *c.MaxLength
	}
	if max < min {
		max = min
	}
	length := min
	if max > min {
		length = min + r.Intn(max-min+1)
	}
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
	b := make([]byte, length)
	for i := range b {
		b[i] = chars[r.Intn(len(chars))]
	}
	// guarantee character-class coverage
	if length >= 4 {
		copy(b[length-4:], "A1!a")
	}
	return string(b)
}

func numericBounds(c form.Constraints) (int64, int64) {
	lo, hi := int64(0), int64(1000)
	if c.MinValue != nil {
		lo = int64(*c.MinValue)
	}
	if c.MaxValue != nil {
		hi = int64(*c.MaxValue)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func clampLength(s string, c form.Constraints) string {
	if c.MaxLength != nil && len(s) > *c.MaxLength {
		s = s[:*c.MaxLength]
	}
	if c.MinLength != nil && len(s) < *c.MinLength {
		s = s + strings.Repeat("x", *c.MinLength-len(s))
	}
	return s
}

func notApplicable(v gen.GeneratedValue, reason string) gen.GeneratedValue {
	v.NotApplicable = true
	v.Expected = ""
	v.Value = gen.NoValue()
	v.Reason = reason
	return v
}

func pick(r *rand.Rand, pool []string) string {
	return pool[r.Intn(len(pool))]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
