package app

import (
	"context"

	"formprobe/domain/catalog"
	"formprobe/domain/form"
	"formprobe/domain/gen"
	"formprobe/domain/testrun"
	"formprobe/ports"
)

// PlannedStep is the interaction plan for one field: the step label that
// will be recorded and the primitive browser actions that realize it. An
// empty action list is a legal plan (skip, or a toggle already in the
// desired state).
type PlannedStep struct {
	Action  testrun.StepAction
	Actions []ports.BrowserAction
}

// Strategy maps a field and a generated value to browser actions.
type Strategy struct{}

// NewStrategy creates an interaction strategy
func NewStrategy() *Strategy {
	return &Strategy{}
}

// ActionsFor plans the interaction for one located element. Toggles read
// the element's current state through the capability interface first:
// re-checking an already-checked box is a no-op, not a toggle.
func (s *Strategy) ActionsFor(ctx context.Context, sess ports.BrowserSession, el ports.Element, field form.FieldSpec, value gen.GeneratedValue) (PlannedStep, error) {
	if value.NotApplicable {
		return PlannedStep{Action: testrun.ActionSkip}, nil
	}

	rules, _ := catalog.RulesFor(field.Type) // unknown types fall back to fill

	switch rules.Interaction {
	case catalog.InteractToggle:
		desired := value.Value.Bool
		current, err := sess.IsChecked(ctx, el)
		if err != nil {
			return PlannedStep{Action: testrun.ActionCheck}, err
		}
		if desired == current {
			return PlannedStep{Action: testrun.ActionCheck}, nil
		}
		kind := ports.ActCheck
		if !desired {
			kind = ports.ActUncheck
		}
		return PlannedStep{
			Action:  testrun.ActionCheck,
			Actions: []ports.BrowserAction{{Kind: kind}},
		}, nil

	case catalog.InteractSelectOne:
		return PlannedStep{
			Action:  testrun.ActionSelect,
			Actions: []ports.BrowserAction{{Kind: ports.ActSelect, Value: value.Value.AsString()}},
		}, nil

	case catalog.InteractSelectAll:
		var actions []ports.BrowserAction
		for _, opt := range value.Value.List {
			actions = append(actions, ports.BrowserAction{Kind: ports.ActSelect, Value: opt})
		}
		return PlannedStep{Action: testrun.ActionSelect, Actions: actions}, nil

	case catalog.InteractUpload:
		return PlannedStep{
			Action:  testrun.ActionUpload,
			Actions: []ports.BrowserAction{{Kind: ports.ActUpload, Value: value.Value.AsString()}},
		}, nil

	default: // fill
		return PlannedStep{
			Action:  testrun.ActionFill,
			Actions: []ports.BrowserAction{{Kind: ports.ActFill, Value: value.Value.AsString()}},
		}, nil
	}
}
