package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/domain/testrun"
	"formprobe/internal/testkit"
	"formprobe/ports"
)

func planFor(t *testing.T, sess *testkit.FakeSession, field form.FieldSpec, value gen.GeneratedValue) PlannedStep {
	t.Helper()
	el, err := sess.Locate(context.Background(), field.Locator)
	require.NoError(t, err)
	plan, err := NewStrategy().ActionsFor(context.Background(), sess, el, field, value)
	require.NoError(t, err)
	return plan
}

func TestToggleIsIdempotent(t *testing.T) {
	field := form.FieldSpec{Name: "newsletter", Type: form.TypeCheckbox, Locator: "#newsletter"}

	tests := []struct {
		name    string
		current bool
		desired bool
		want    []ports.BrowserAction
	}{
		{"already checked stays put", true, true, nil},
		{"already unchecked stays put", false, false, nil},
		{"check when unchecked", false, true, []ports.BrowserAction{{Kind: ports.ActCheck}}},
		{"uncheck when checked", true, false, []ports.BrowserAction{{Kind: ports.ActUncheck}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := testkit.NewFakeSession()
			sess.Checked["#newsletter"] = tt.current

			plan := planFor(t, sess, field, gen.GeneratedValue{
				FieldName: "newsletter",
				Value:     gen.BoolValue(tt.desired),
			})
			assert.Equal(t, testrun.ActionCheck, plan.Action)
			assert.Equal(t, tt.want, plan.Actions)
		})
	}
}

func TestNotApplicableSkips(t *testing.T) {
	sess := testkit.NewFakeSession()
	field := form.FieldSpec{Name: "comment", Type: form.TypeTextarea, Locator: "#comment"}

	plan := planFor(t, sess, field, gen.GeneratedValue{
		FieldName:     "comment",
		NotApplicable: true,
		Reason:        "no constraints to violate",
	})
	assert.Equal(t, testrun.ActionSkip, plan.Action)
	assert.Empty(t, plan.Actions)
}

func TestMultiSelectSelectsEveryOption(t *testing.T) {
	sess := testkit.NewFakeSession()
	field := form.FieldSpec{Name: "tags", Type: form.TypeMultiSelect, Locator: "#tags"}

	plan := planFor(t, sess, field, gen.GeneratedValue{
		FieldName: "tags",
		Value:     gen.ListValue([]string{"red", "green"}),
	})
	assert.Equal(t, testrun.ActionSelect, plan.Action)
	assert.Equal(t, []ports.BrowserAction{
		{Kind: ports.ActSelect, Value: "red"},
		{Kind: ports.ActSelect, Value: "green"},
	}, plan.Actions)
}

func TestSelectAndUploadAndFill(t *testing.T) {
	sess := testkit.NewFakeSession()

	plan := planFor(t, sess, form.FieldSpec{Name: "country", Type: form.TypeSelect, Locator: "#country"},
		gen.GeneratedValue{FieldName: "country", Value: gen.StringValue("CA")})
	assert.Equal(t, testrun.ActionSelect, plan.Action)
	assert.Equal(t, []ports.BrowserAction{{Kind: ports.ActSelect, Value: "CA"}}, plan.Actions)

	plan = planFor(t, sess, form.FieldSpec{Name: "resume", Type: form.TypeFile, Locator: "#resume"},
		gen.GeneratedValue{FieldName: "resume", Value: gen.StringValue("resume.pdf")})
	assert.Equal(t, testrun.ActionUpload, plan.Action)

	plan = planFor(t, sess, form.FieldSpec{Name: "email", Type: form.TypeEmail, Locator: "#email"},
		gen.GeneratedValue{FieldName: "email", Value: gen.StringValue("a@b.co")})
	assert.Equal(t, testrun.ActionFill, plan.Action)
	assert.Equal(t, []ports.BrowserAction{{Kind: ports.ActFill, Value: "a@b.co"}}, plan.Actions)
}

func TestUnknownTypePlansAFill(t *testing.T) {
	sess := testkit.NewFakeSession()
	field := form.FieldSpec{Name: "widget", Type: form.SemanticType("color-wheel"), Locator: "#widget"}

	plan := planFor(t, sess, field, gen.GeneratedValue{
		FieldName: "widget",
		Value:     gen.StringValue("anything"),
	})
	assert.Equal(t, testrun.ActionFill, plan.Action)
}
