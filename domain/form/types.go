package form

import (
	"formprobe/domain/core"
)

// SemanticType classifies what kind of input a form field accepts.
type SemanticType string

const (
	TypeText        SemanticType = "text"
	TypeEmail       SemanticType = "email"
	TypePhone       SemanticType = "phone"
	TypePassword    SemanticType = "password"
	TypeNumber      SemanticType = "number"
	TypeDate        SemanticType = "date"
	TypeTime        SemanticType = "time"
	TypeDateTime    SemanticType = "datetime"
	TypeCheckbox    SemanticType = "checkbox"
	TypeRadio       SemanticType = "radio"
	TypeSelect      SemanticType = "select"
	TypeMultiSelect SemanticType = "multiselect"
	TypeTextarea    SemanticType = "textarea"
	TypeFile        SemanticType = "file"
	TypeHidden      SemanticType = "hidden"
	TypeURL         SemanticType = "url"
)

// Constraints captures the validation rules attached to a field.
// Pointer fields are nil when the dimension is unconstrained.
type Constraints struct {
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MinValue  *float64 `json:"min_value,omitempty"`
	MaxValue  *float64 `json:"max_value,omitempty"`
	Options   []string `json:"options,omitempty"`
}

// HasLengthRange reports whether both length bounds are defined.
func (c Constraints) HasLengthRange() bool {
	return c.MinLength != nil && c.MaxLength != nil
}

// HasValueRange reports whether both numeric bounds are defined.
func (c Constraints) HasValueRange() bool {
	return c.MinValue != nil && c.MaxValue != nil
}

// IsEmpty reports whether no constraint dimension is set.
func (c Constraints) IsEmpty() bool {
	return c.MinLength == nil && c.MaxLength == nil && c.Pattern == "" &&
		c.MinValue == nil && c.MaxValue == nil && len(c.Options) == 0
}

// FieldSpec describes one form input, independent of any page instance.
// Immutable once extracted.
type FieldSpec struct {
	Name        string       `json:"name"`
	Label       string       `json:"label,omitempty"`
	Type        SemanticType `json:"type"`
	Required    bool         `json:"required"`
	Constraints Constraints  `json:"constraints"`
	Locator     string       `json:"locator"`
}

// FormMetadata is the extracted description of a form: an ordered field
// sequence plus the submit action locator and source identity. Read-only
// input to the pipeline.
type FormMetadata struct {
	ID            core.FormID `json:"id"`
	SourceURL     string      `json:"source_url"`
	Fields        []FieldSpec `json:"fields"`
	SubmitLocator string      `json:"submit_locator"`
}

// Validate checks if the metadata is usable for a test run
func (m *FormMetadata) Validate() error {
	if len(m.Fields) == 0 {
		return core.NewValidationError("fields", "must contain at least one field")
	}
	if m.SubmitLocator == "" {
		return core.NewValidationError("submit_locator", "cannot be empty")
	}

	seenNames := make(map[string]bool)
	for _, f := range m.Fields {
		if f.Name == "" {
			return core.NewValidationError("field", "name cannot be empty")
		}
		if seenNames[f.Name] {
			return core.NewValidationError("field", "duplicate field name: "+f.Name)
		}
		seenNames[f.Name] = true
	}
	return nil
}

// Field returns the spec for the named field, if present.
func (m *FormMetadata) Field(name string) (FieldSpec, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// RequiredFields returns the names of all required fields in order.
func (m *FormMetadata) RequiredFields() []string {
	var names []string
	for _, f := range m.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}
