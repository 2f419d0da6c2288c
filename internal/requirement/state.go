// Package requirement folds the tag-validation verdict into the
// three-way requirement state and the event-creation policy derived from
// it. Both are pure mappings evaluated fresh on every request.
package requirement

import (
	"evidon/internal/tags"
	"evidon/internal/validator"
)

// State is the three-way verdict gating event creation.
type State string

const (
	StateEvaluatable State = "EVALUATABLE"
	StateUnstable    State = "UNSTABLE"
	StateInvalid     State = "INVALID"
)

// StateResult carries the state with the reason codes that produced it,
// deduplicated in order of first occurrence.
type StateResult struct {
	State       State    `json:"state"`
	ReasonCodes []string `json:"reason_codes"`
}

// EvaluateState maps a tag-validation result onto the requirement state:
// fail -> INVALID, warn -> UNSTABLE, pass -> EVALUATABLE.
func EvaluateState(tagValidation validator.Result) StateResult {
	codes := dedupe(tagValidation.Codes())

	switch tagValidation.Status {
	case validator.StatusFail:
		return StateResult{State: StateInvalid, ReasonCodes: codes}
	case validator.StatusWarn:
		return StateResult{State: StateUnstable, ReasonCodes: codes}
	default:
		return StateResult{State: StateEvaluatable, ReasonCodes: codes}
	}
}

// EvaluateStateFromTags validates the tags first, then maps the verdict.
func EvaluateStateFromTags(ts []tags.Tag) StateResult {
	return EvaluateState(tags.Validate(ts))
}

func dedupe(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
