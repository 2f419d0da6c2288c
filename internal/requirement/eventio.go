package requirement

import (
	"evidon/internal/schema"
	"evidon/internal/tags"
	"evidon/internal/validator"
)

// Policy is the machine-decidable event-creation decision.
type Policy string

const (
	PolicyDeny             Policy = "deny"
	PolicyAllow            Policy = "allow"
	PolicyAllowWithCaution Policy = "allow_with_caution"
)

// CautionUnstable is the only caution tag the policy emits.
const CautionUnstable = "UNSTABLE"

// EventIO is the downstream contract for whether an event record may be
// created from this evidence, with machine-readable reasoning.
type EventIO struct {
	CanCreateEvent          bool     `json:"can_create_event"`
	Policy                  Policy   `json:"policy"`
	ReasonCodes             []string `json:"reason_codes"`
	RequiredEvidenceTopKeys []string `json:"required_evidence_top_keys"`
	CautionTag              string   `json:"caution_tag,omitempty"`
}

// EvaluateEventIO maps a requirement state to the event policy. Reason
// codes pass through unchanged; requiredKeys defaults to the fixed
// schema key set when nil.
func EvaluateEventIO(state StateResult, requiredKeys []string) EventIO {
	keys := requiredKeys
	if keys == nil {
		keys = append([]string(nil), schema.RequiredTopLevelKeys...)
	}
	codes := append([]string(nil), state.ReasonCodes...)

	switch state.State {
	case StateInvalid:
		return EventIO{
			CanCreateEvent:          false,
			Policy:                  PolicyDeny,
			ReasonCodes:             codes,
			RequiredEvidenceTopKeys: keys,
		}
	case StateUnstable:
		return EventIO{
			CanCreateEvent:          true,
			Policy:                  PolicyAllowWithCaution,
			ReasonCodes:             codes,
			RequiredEvidenceTopKeys: keys,
			CautionTag:              CautionUnstable,
		}
	default:
		return EventIO{
			CanCreateEvent:          true,
			Policy:                  PolicyAllow,
			ReasonCodes:             codes,
			RequiredEvidenceTopKeys: keys,
		}
	}
}

// ServiceResult bundles everything the requirement stage derives from a
// run's evidence tags.
type ServiceResult struct {
	TagValidation validator.Result `json:"tag_validation"`
	State         StateResult      `json:"requirement_state"`
	EventIO       EventIO          `json:"event_io"`
}

// Evaluate runs tag validation, the state machine, and the event policy
// in one step.
func Evaluate(ts []tags.Tag, requiredKeys []string) ServiceResult {
	tagValidation := tags.Validate(ts)
	state := EvaluateState(tagValidation)
	return ServiceResult{
		TagValidation: tagValidation,
		State:         state,
		EventIO:       EvaluateEventIO(state, requiredKeys),
	}
}
