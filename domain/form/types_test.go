package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func validMetadata() FormMetadata {
	return FormMetadata{
		ID:        "form-1",
		SourceURL: "https://example.test/f",
		Fields: []FieldSpec{
			{Name: "email", Type: TypeEmail, Required: true, Locator: "#email"},
			{Name: "age", Type: TypeNumber, Locator: "#age"},
		},
		SubmitLocator: "#submit",
	}
}

func TestValidate(t *testing.T) {
	meta := validMetadata()
	assert.NoError(t, meta.Validate())

	noFields := validMetadata()
	noFields.Fields = nil
	assert.Error(t, noFields.Validate())

	noSubmit := validMetadata()
	noSubmit.SubmitLocator = ""
	assert.Error(t, noSubmit.Validate())

	unnamed := validMetadata()
	unnamed.Fields[0].Name = ""
	assert.Error(t, unnamed.Validate())

	dup := validMetadata()
	dup.Fields[1].Name = "email"
	assert.Error(t, dup.Validate())
}

func TestFieldLookup(t *testing.T) {
	meta := validMetadata()

	f, ok := meta.Field("age")
	assert.True(t, ok)
	assert.Equal(t, TypeNumber, f.Type)

	_, ok = meta.Field("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"email"}, meta.RequiredFields())
}

func TestConstraintsHelpers(t *testing.T) {
	assert.True(t, Constraints{}.IsEmpty())
	assert.False(t, Constraints{Pattern: ".*"}.IsEmpty())

	c := Constraints{MinLength: intPtr(1), MaxLength: intPtr(10)}
	assert.True(t, c.HasLengthRange())
	assert.False(t, c.HasValueRange())

	n := Constraints{MinValue: floatPtr(0), MaxValue: floatPtr(9)}
	assert.True(t, n.HasValueRange())
	assert.False(t, Constraints{MinValue: floatPtr(0)}.HasValueRange())
}
