// Package catalog maps each semantic field type to its generation and
// interaction rules. Adding a field type is a table entry, not a new branch.
package catalog

import (
	"formprobe/domain/core"
	"formprobe/domain/form"
)

// GenerationRule names the value family the synthesizer draws from.
type GenerationRule string

const (
	GenFreeText  GenerationRule = "free_text"
	GenEmail     GenerationRule = "email"
	GenPhone     GenerationRule = "phone"
	GenPassword  GenerationRule = "password"
	GenNumber    GenerationRule = "number"
	GenDate      GenerationRule = "date"
	GenTime      GenerationRule = "time"
	GenDateTime  GenerationRule = "datetime"
	GenBoolean   GenerationRule = "boolean"
	GenOption    GenerationRule = "option"
	GenOptions   GenerationRule = "options"
	GenLongText  GenerationRule = "long_text"
	GenFile      GenerationRule = "file"
	GenOpaque    GenerationRule = "opaque"
	GenURL       GenerationRule = "url"
)

// InteractionRule names how a value reaches the field in the browser.
type InteractionRule string

const (
	InteractFill      InteractionRule = "fill"
	InteractToggle    InteractionRule = "toggle"
	InteractSelectOne InteractionRule = "select_one"
	InteractSelectAll InteractionRule = "select_all"
	InteractUpload    InteractionRule = "upload"
)

// Rules pairs the two rule dimensions for one semantic type.
type Rules struct {
	Generation  GenerationRule
	Interaction InteractionRule
}

var table = map[form.SemanticType]Rules{
	form.TypeText:        {GenFreeText, InteractFill},
	form.TypeEmail:       {GenEmail, InteractFill},
	form.TypePhone:       {GenPhone, InteractFill},
	form.TypePassword:    {GenPassword, InteractFill},
	form.TypeNumber:      {GenNumber, InteractFill},
	form.TypeDate:        {GenDate, InteractFill},
	form.TypeTime:        {GenTime, InteractFill},
	form.TypeDateTime:    {GenDateTime, InteractFill},
	form.TypeCheckbox:    {GenBoolean, InteractToggle},
	form.TypeRadio:       {GenOption, InteractSelectOne},
	form.TypeSelect:      {GenOption, InteractSelectOne},
	form.TypeMultiSelect: {GenOptions, InteractSelectAll},
	form.TypeTextarea:    {GenLongText, InteractFill},
	form.TypeFile:        {GenFile, InteractUpload},
	form.TypeHidden:      {GenOpaque, InteractFill},
	form.TypeURL:         {GenURL, InteractFill},
}

// genericText is the fallback for unknown semantic types: generation must
// always produce some value for every field.
var genericText = Rules{GenFreeText, InteractFill}

// RulesFor looks up the rules for a semantic type. Unknown types return the
// generic text rules together with ErrUnsupportedFieldType so the caller can
// log the fallback without aborting the run.
func RulesFor(t form.SemanticType) (Rules, error) {
	if r, ok := table[t]; ok {
		return r, nil
	}
	return genericText, core.NewUnsupportedFieldTypeError(string(t))
}

// KnownTypes returns every semantic type the catalog has an entry for.
func KnownTypes() []form.SemanticType {
	types := make([]form.SemanticType, 0, len(table))
	for t := range table {
		types = append(types, t)
	}
	return types
}
