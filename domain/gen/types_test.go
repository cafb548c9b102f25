package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScenario(t *testing.T) {
	for _, s := range AllScenarios() {
		got, err := ParseScenario(string(s))
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseScenario("chaotic")
	assert.Error(t, err)
}

func TestValueAsString(t *testing.T) {
	assert.Equal(t, "hello", StringValue("hello").AsString())
	assert.Equal(t, "42", NumberValue(42).AsString())
	assert.Equal(t, "42.5", NumberValue(42.5).AsString())
	assert.Equal(t, "true", BoolValue(true).AsString())
	assert.Equal(t, "a,b", ListValue([]string{"a", "b"}).AsString())
	assert.Equal(t, "", NoValue().AsString())
}

func TestAggregateExpectation(t *testing.T) {
	accept := GeneratedValue{FieldName: "a", Expected: ExpectAccept}
	reject := GeneratedValue{FieldName: "b", Expected: ExpectReject}
	na := GeneratedValue{FieldName: "c", Expected: ExpectReject, NotApplicable: true}

	assert.Equal(t, ExpectAccept, AggregateExpectation(nil))
	assert.Equal(t, ExpectAccept, AggregateExpectation([]GeneratedValue{accept}))
	assert.Equal(t, ExpectReject, AggregateExpectation([]GeneratedValue{accept, reject}))
	assert.Equal(t, ExpectAccept, AggregateExpectation([]GeneratedValue{accept, na}),
		"not-applicable entries carry no expectation")
}

func TestCoversRequired(t *testing.T) {
	vals := []GeneratedValue{
		{FieldName: "email", Scenario: ScenarioValid},
		{FieldName: "age", Scenario: ScenarioValid},
	}
	assert.NoError(t, CoversRequired(vals, []string{"email", "age"}))
	assert.Error(t, CoversRequired(vals, []string{"email", "age", "name"}))

	dup := append(vals, GeneratedValue{FieldName: "email", Scenario: ScenarioValid})
	assert.Error(t, CoversRequired(dup, []string{"email"}))

	// boundary scenarios legitimately cover a field more than once
	boundaryPair := []GeneratedValue{
		{FieldName: "age", Scenario: ScenarioBoundary},
		{FieldName: "age", Scenario: ScenarioBoundary},
	}
	assert.NoError(t, CoversRequired(boundaryPair, []string{"age"}))
}
