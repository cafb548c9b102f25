package gen

import (
	"fmt"
	"strconv"
	"strings"
)

// Scenario is a named intent for data synthesis. It drives both value
// generation and the expected judgment of the form under test.
type Scenario string

const (
	ScenarioValid    Scenario = "valid"
	ScenarioInvalid  Scenario = "invalid"
	ScenarioEdgeCase Scenario = "edge_case"
	ScenarioBoundary Scenario = "boundary"
)

// ParseScenario validates a scenario name
func ParseScenario(s string) (Scenario, error) {
	switch Scenario(s) {
	case ScenarioValid, ScenarioInvalid, ScenarioEdgeCase, ScenarioBoundary:
		return Scenario(s), nil
	}
	return "", fmt.Errorf("unknown scenario: %q", s)
}

// AllScenarios lists every synthesis scenario in canonical order.
func AllScenarios() []Scenario {
	return []Scenario{ScenarioValid, ScenarioInvalid, ScenarioEdgeCase, ScenarioBoundary}
}

// ExpectedOutcome is the synthesizer's prediction of whether the form
// should accept or reject a value.
type ExpectedOutcome string

const (
	ExpectAccept ExpectedOutcome = "accept"
	ExpectReject ExpectedOutcome = "reject"
)

// ValueKind discriminates the typed union carried by Value.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
	KindList   ValueKind = "list"
	KindNone   ValueKind = "none"
)

// Value is a tagged union: string, number, bool, or a list of strings
// for multi-select fields.
type Value struct {
	Kind ValueKind `json:"kind"`
	Str  string    `json:"str,omitempty"`
	Num  float64   `json:"num,omitempty"`
	Bool bool      `json:"bool,omitempty"`
	List []string  `json:"list,omitempty"`
}

func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func ListValue(l []string) Value  { return Value{Kind: KindList, List: l} }
func NoValue() Value              { return Value{Kind: KindNone} }

// AsString renders the value the way it would be typed into a form control.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		return strings.Join(v.List, ",")
	}
	return ""
}

// GeneratedValue is one scenario-tagged input for one field, together with
// the outcome the synthesizer predicts for it.
type GeneratedValue struct {
	FieldName     string          `json:"field_name"`
	Scenario      Scenario        `json:"scenario"`
	Value         Value           `json:"value"`
	Expected      ExpectedOutcome `json:"expected_outcome"`
	NotApplicable bool            `json:"not_applicable,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}

// AggregateExpectation folds a value set into the run-level prediction:
// the run expects rejection if any applied value expects rejection.
// Not-applicable entries carry no expectation.
func AggregateExpectation(values []GeneratedValue) ExpectedOutcome {
	for _, v := range values {
		if v.NotApplicable {
			continue
		}
		if v.Expected == ExpectReject {
			return ExpectReject
		}
	}
	return ExpectAccept
}

// CoversRequired checks that every name in required is covered by the value
// set: exactly one entry per field, except for the boundary scenario where a
// closed range legitimately yields the inclusive/overflow companion pair.
func CoversRequired(values []GeneratedValue, required []string) error {
	counts := make(map[string]int)
	boundary := false
	for _, v := range values {
		if v.Scenario == ScenarioBoundary {
			boundary = true
		}
		counts[v.FieldName]++
	}
	for _, name := range required {
		switch {
		case counts[name] == 0:
			return fmt.Errorf("required field %q has no generated value", name)
		case counts[name] > 1 && !boundary:
			return fmt.Errorf("required field %q covered %d times", name, counts[name])
		}
	}
	return nil
}
