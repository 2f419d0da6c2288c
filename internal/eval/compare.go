package eval

import "evidon/internal/requirement"

// Mismatch codes attached to failed cases.
const (
	codeStateMismatch      = "E_REQ_STATE_MISMATCH"
	codeReasonCodesMissing = "E_REQ_REASON_CODES_MISSING"
	codePolicyMismatch     = "E_EVENT_POLICY_MISMATCH"
	codeCanCreateMismatch  = "E_EVENT_CAN_CREATE_MISMATCH"
	codeCautionTagMismatch = "E_EVENT_CAUTION_TAG_MISMATCH"
	codeTagStatusMismatch  = "E_TAG_VALIDATION_STATUS_MISMATCH"
	codeTagCodesMissing    = "E_TAG_VALIDATION_CODES_MISSING"
)

// compareCase checks the actual requirement outcome against the case
// contract and returns every mismatch code, in check order.
func compareCase(c Case, actual requirement.ServiceResult) []string {
	var mismatches []string

	if string(actual.State.State) != c.Expected.RequirementState.State {
		mismatches = append(mismatches, codeStateMismatch)
	}
	if !containsAll(c.Expected.RequirementState.ReasonCodesContain, actual.State.ReasonCodes) {
		mismatches = append(mismatches, codeReasonCodesMissing)
	}

	if string(actual.EventIO.Policy) != c.Expected.EventIO.Policy {
		mismatches = append(mismatches, codePolicyMismatch)
	}
	if want := c.Expected.EventIO.CanCreateEvent; want != nil && actual.EventIO.CanCreateEvent != *want {
		mismatches = append(mismatches, codeCanCreateMismatch)
	}
	if want := c.Expected.EventIO.CautionTag; want != nil && actual.EventIO.CautionTag != *want {
		mismatches = append(mismatches, codeCautionTagMismatch)
	}

	if tv := c.Expected.TagValidation; tv != nil {
		if tv.Status != "" && string(actual.TagValidation.Status) != tv.Status {
			mismatches = append(mismatches, codeTagStatusMismatch)
		}
		if !containsAll(tv.CodesContain, actual.TagValidation.Codes()) {
			mismatches = append(mismatches, codeTagCodesMissing)
		}
	}

	return mismatches
}

func containsAll(required, actual []string) bool {
	set := make(map[string]struct{}, len(actual))
	for _, a := range actual {
		set[a] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}
