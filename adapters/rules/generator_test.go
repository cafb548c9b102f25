package rules

import (
	"context"
	"reflect"
	"regexp"
	"testing"

	"formprobe/adapters/rng"
	"formprobe/domain/core"
	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/ports"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

const emailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

// signupForm mirrors the canonical scenario: an email field with a pattern
// constraint and an age field with range 18-65.
func signupForm() form.FormMetadata {
	return form.FormMetadata{
		ID:        core.FormID("form-signup"),
		SourceURL: "https://example.com/signup",
		Fields: []form.FieldSpec{
			{
				Name:     "email",
				Type:     form.TypeEmail,
				Required: true,
				Constraints: form.Constraints{
					Pattern:   emailPattern,
					MaxLength: intPtr(254),
				},
				Locator: "#email",
			},
			{
				Name:     "age",
				Type:     form.TypeNumber,
				Required: true,
				Constraints: form.Constraints{
					MinValue: floatPtr(18),
					MaxValue: floatPtr(65),
				},
				Locator: "#age",
			},
		},
		SubmitLocator: "#submit",
	}
}

func generate(t *testing.T, meta form.FormMetadata, scenario gen.Scenario, seed int64) []gen.GeneratedValue {
	t.Helper()
	g := NewGenerator(rng.New())
	out, err := g.GenerateValues(context.Background(), ports.GenerationRequest{
		Metadata: meta, Scenario: scenario, Seed: seed,
	})
	if err != nil {
		t.Fatalf("GenerateValues failed: %v", err)
	}
	return out.Values
}

func TestValidValuesSatisfyConstraints(t *testing.T) {
	meta := signupForm()
	emailRe := regexp.MustCompile(emailPattern)

	for seed := int64(0); seed < 20; seed++ {
		values := generate(t, meta, gen.ScenarioValid, seed)
		if len(values) != 2 {
			t.Fatalf("seed %d: got %d values, want 2", seed, len(values))
		}
		for _, v := range values {
			if v.Expected != gen.ExpectAccept {
				t.Errorf("seed %d: valid value for %s expects %s", seed, v.FieldName, v.Expected)
			}
			switch v.FieldName {
			case "email":
				if !emailRe.MatchString(v.Value.Str) {
					t.Errorf("seed %d: email %q does not match pattern", seed, v.Value.Str)
				}
			case "age":
				if v.Value.Num < 18 || v.Value.Num > 65 {
					t.Errorf("seed %d: age %v out of range", seed, v.Value.Num)
				}
			}
		}
	}
}

func TestInvalidScenarioViolatesOneDimension(t *testing.T) {
	meta := signupForm()
	emailRe := regexp.MustCompile(emailPattern)
	values := generate(t, meta, gen.ScenarioInvalid, 7)

	for _, v := range values {
		if v.NotApplicable {
			t.Errorf("field %s unexpectedly not applicable", v.FieldName)
			continue
		}
		if v.Expected != gen.ExpectReject {
			t.Errorf("invalid value for %s expects %s, want reject", v.FieldName, v.Expected)
		}
		switch v.FieldName {
		case "email":
			if emailRe.MatchString(v.Value.Str) {
				t.Errorf("invalid email %q matches the pattern", v.Value.Str)
			}
		case "age":
			if v.Value.Kind == gen.KindNumber {
				t.Error("invalid age should be non-numeric")
			}
		}
	}
}

func TestInvalidScenarioMarksUnviolableFieldsNotApplicable(t *testing.T) {
	meta := form.FormMetadata{
		ID:        core.FormID("form-plain"),
		SourceURL: "https://example.com/plain",
		Fields: []form.FieldSpec{
			{Name: "comment", Type: form.TypeText, Locator: "#comment"},
			{Name: "newsletter", Type: form.TypeCheckbox, Locator: "#newsletter"},
		},
		SubmitLocator: "#submit",
	}
	values := generate(t, meta, gen.ScenarioInvalid, 1)

	if len(values) != 2 {
		t.Fatalf("got %d values, want 2", len(values))
	}
	for _, v := range values {
		if !v.NotApplicable {
			t.Errorf("field %s should be not-applicable, got value %+v", v.FieldName, v.Value)
		}
		if v.Reason == "" {
			t.Errorf("field %s missing not-applicable reason", v.FieldName)
		}
	}
}

func TestBoundaryYieldsThresholdAndOverflow(t *testing.T) {
	meta := signupForm()
	values := generate(t, meta, gen.ScenarioBoundary, 3)

	got := map[float64]gen.ExpectedOutcome{}
	for _, v := range values {
		if v.FieldName == "age" {
			got[v.Value.Num] = v.Expected
		}
	}

	want := map[float64]gen.ExpectedOutcome{
		18: gen.ExpectAccept,
		65: gen.ExpectAccept,
		17: gen.ExpectReject,
		66: gen.ExpectReject,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("boundary ages = %v, want %v", got, want)
	}
}

func TestBoundaryLengthRange(t *testing.T) {
	meta := form.FormMetadata{
		ID:        core.FormID("form-user"),
		SourceURL: "https://example.com/user",
		Fields: []form.FieldSpec{
			{
				Name: "username", Type: form.TypeText, Required: true,
				Constraints: form.Constraints{MinLength: intPtr(3), MaxLength: intPtr(12)},
				Locator:     "#username",
			},
		},
		SubmitLocator: "#submit",
	}
	values := generate(t, meta, gen.ScenarioBoundary, 11)

	got := map[int]gen.ExpectedOutcome{}
	for _, v := range values {
		got[len(v.Value.Str)] = v.Expected
	}
	want := map[int]gen.ExpectedOutcome{
		3:  gen.ExpectAccept,
		12: gen.ExpectAccept,
		2:  gen.ExpectReject,
		13: gen.ExpectReject,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("boundary lengths = %v, want %v", got, want)
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	meta := signupForm()
	for _, scenario := range gen.AllScenarios() {
		a := generate(t, meta, scenario, 99)
		b := generate(t, meta, scenario, 99)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("scenario %s: same seed produced different values", scenario)
		}
	}
}

func TestUnknownTypeStillProducesValue(t *testing.T) {
	meta := form.FormMetadata{
		ID:        core.FormID("form-odd"),
		SourceURL: "https://example.com/odd",
		Fields: []form.FieldSpec{
			{Name: "mystery", Type: form.SemanticType("captcha"), Locator: "#mystery"},
		},
		SubmitLocator: "#submit",
	}
	values := generate(t, meta, gen.ScenarioValid, 5)
	if len(values) != 1 {
		t.Fatalf("got %d values, want 1", len(values))
	}
	if values[0].Value.Kind != gen.KindString || values[0].Value.Str == "" {
		t.Errorf("unknown type produced no usable value: %+v", values[0].Value)
	}
}

func TestSelectMembership(t *testing.T) {
	opts := []string{"US", "CA", "MX"}
	meta := form.FormMetadata{
		ID:        core.FormID("form-country"),
		SourceURL: "https://example.com/country",
		Fields: []form.FieldSpec{
			{
				Name: "country", Type: form.TypeSelect, Required: true,
				Constraints: form.Constraints{Options: opts},
				Locator:     "#country",
			},
		},
		SubmitLocator: "#submit",
	}

	valid := generate(t, meta, gen.ScenarioValid, 2)[0]
	member := false
	for _, o := range opts {
		if valid.Value.Str == o {
			member = true
		}
	}
	if !member {
		t.Errorf("valid select value %q not in options", valid.Value.Str)
	}

	invalid := generate(t, meta, gen.ScenarioInvalid, 2)[0]
	for _, o := range opts {
		if invalid.Value.Str == o {
			t.Errorf("invalid select value %q is a member of options", invalid.Value.Str)
		}
	}
}
