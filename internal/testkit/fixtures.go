package testkit

import (
	"formprobe/domain/core"
	"formprobe/domain/form"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

// SignupForm returns a small realistic form: required email with a pattern,
// required bounded age, an optional newsletter checkbox, and a country select.
func SignupForm() form.FormMetadata {
	return form.FormMetadata{
		ID:        core.FormID("form-signup"),
		SourceURL: "https://example.test/signup",
		Fields: []form.FieldSpec{
			{
				Name:     "email",
				Label:    "Email address",
				Type:     form.TypeEmail,
				Required: true,
				Constraints: form.Constraints{
					Pattern: `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`,
				},
				Locator: "#email",
			},
			{
				Name:     "age",
				Label:    "Age",
				Type:     form.TypeNumber,
				Required: true,
				Constraints: form.Constraints{
					MinValue: floatPtr(18),
					MaxValue: floatPtr(65),
				},
				Locator: "#age",
			},
			{
				Name:    "newsletter",
				Label:   "Subscribe to newsletter",
				Type:    form.TypeCheckbox,
				Locator: "#newsletter",
			},
			{
				Name:  "country",
				Label: "Country",
				Type:  form.TypeSelect,
				Constraints: form.Constraints{
					Options: []string{"US", "CA", "GB", "DE"},
				},
				Locator: "#country",
			},
		},
		SubmitLocator: "#submit",
	}
}

// ContactForm returns a minimal form with a single required free-text field,
// handy when a test only needs one fill step.
func ContactForm() form.FormMetadata {
	return form.FormMetadata{
		ID:        core.FormID("form-contact"),
		SourceURL: "https://example.test/contact",
		Fields: []form.FieldSpec{
			{
				Name:     "message",
				Label:    "Message",
				Type:     form.TypeTextarea,
				Required: true,
				Constraints: form.Constraints{
					MinLength: intPtr(5),
					MaxLength: intPtr(200),
				},
				Locator: "#message",
			},
		},
		SubmitLocator: "#send",
	}
}
