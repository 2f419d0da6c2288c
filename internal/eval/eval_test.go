package eval

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"evidon/internal/requirement"
	"evidon/internal/validator"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func unstableResult() requirement.ServiceResult {
	return requirement.ServiceResult{
		TagValidation: validator.Result{
			Status: validator.StatusWarn,
			Messages: []validator.Message{
				{Code: "W_ANCHOR_NOT_FOUND"},
				{Code: "W_CONFIDENCE_WITHOUT_ANCHOR"},
			},
		},
		State: requirement.StateResult{
			State:       requirement.StateUnstable,
			ReasonCodes: []string{"W_ANCHOR_NOT_FOUND", "W_CONFIDENCE_WITHOUT_ANCHOR"},
		},
		EventIO: requirement.EventIO{
			CanCreateEvent: true,
			Policy:         requirement.PolicyAllowWithCaution,
			ReasonCodes:    []string{"W_ANCHOR_NOT_FOUND", "W_CONFIDENCE_WITHOUT_ANCHOR"},
			CautionTag:     requirement.CautionUnstable,
		},
	}
}

func TestCompareCase_Match(t *testing.T) {
	c := Case{
		Expected: Expected{
			RequirementState: ExpectedRequirementState{
				State:              "UNSTABLE",
				ReasonCodesContain: []string{"W_ANCHOR_NOT_FOUND"},
			},
			EventIO: ExpectedEventIO{
				Policy:         "allow_with_caution",
				CanCreateEvent: boolPtr(true),
				CautionTag:     strPtr("UNSTABLE"),
			},
			TagValidation: &ExpectedTagValidation{
				Status:       "warn",
				CodesContain: []string{"W_CONFIDENCE_WITHOUT_ANCHOR"},
			},
		},
	}

	if got := compareCase(c, unstableResult()); len(got) != 0 {
		t.Fatalf("mismatches = %v, want none", got)
	}
}

func TestCompareCase_EveryMismatch(t *testing.T) {
	c := Case{
		Expected: Expected{
			RequirementState: ExpectedRequirementState{
				State:              "EVALUATABLE",
				ReasonCodesContain: []string{"X_NOT_THERE"},
			},
			EventIO: ExpectedEventIO{
				Policy:         "allow",
				CanCreateEvent: boolPtr(false),
				CautionTag:     strPtr(""),
			},
			TagValidation: &ExpectedTagValidation{
				Status:       "pass",
				CodesContain: []string{"X_ALSO_NOT_THERE"},
			},
		},
	}

	got := compareCase(c, unstableResult())
	want := []string{
		codeStateMismatch,
		codeReasonCodesMissing,
		codePolicyMismatch,
		codeCanCreateMismatch,
		codeCautionTagMismatch,
		codeTagStatusMismatch,
		codeTagCodesMissing,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch codes (-want +got):\n%s", diff)
	}
}

func TestCompareCase_NilPointersAreDontCare(t *testing.T) {
	c := Case{
		Expected: Expected{
			RequirementState: ExpectedRequirementState{State: "UNSTABLE"},
			EventIO:          ExpectedEventIO{Policy: "allow_with_caution"},
		},
	}

	if got := compareCase(c, unstableResult()); len(got) != 0 {
		t.Fatalf("mismatches = %v, want none with don't-care fields", got)
	}
}

func TestLoadSuite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	content := `version: evalset_v0
name: smoke
cases:
  - case_id: text_unstable
    input:
      kind: text
      text: "연락하지 마"
    expected:
      requirement_state:
        state: UNSTABLE
      event_io:
        policy: allow_with_caution
        caution_tag: UNSTABLE
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	suite, err := LoadSuite(path)
	require.NoError(t, err)
	require.Equal(t, "smoke", suite.Name)
	require.Len(t, suite.Cases, 1)
	c := suite.Cases[0]
	require.Equal(t, InputText, c.Input.Kind)
	require.Equal(t, "UNSTABLE", c.Expected.RequirementState.State)
	require.NotNil(t, c.Expected.EventIO.CautionTag)
	require.Equal(t, "UNSTABLE", *c.Expected.EventIO.CautionTag)
}

func TestLoadSuite_RejectsWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: evalset_v9\nname: x\n"), 0o644))

	if _, err := LoadSuite(path); err == nil {
		t.Fatal("LoadSuite() accepted an unsupported version")
	}
}

func anchoredMockOutput() map[string]any {
	field := func(conf string, span any) map[string]any {
		return map[string]any{
			"value":           "값",
			"confidence":      conf,
			"evidence_span":   span,
			"evidence_anchor": nil,
		}
	}
	doc := map[string]any{
		"evidence_metadata": field("low", nil),
		"parties":           field("low", nil),
		"period":            field("low", nil),
		"frequency":         field("low", nil),
		"channel":           field("high", "전화했다"),
		"locations":         field("low", nil),
		"action_types":      field("low", nil),
		"refusal_signal":    field("low", nil),
		"threat_indicators": field("low", nil),
		"impact_on_victim":  field("low", nil),
		"report_or_record":  field("low", nil),
	}
	return doc
}

func TestRunner_RunSuite(t *testing.T) {
	suite := &Suite{
		Version: SuiteVersion,
		Name:    "runner",
		Cases: []Case{
			{
				CaseID: "mock_is_unstable",
				Input:  Input{Kind: InputText, Text: "지금 어디야"},
				Expected: Expected{
					RequirementState: ExpectedRequirementState{
						State:              "UNSTABLE",
						ReasonCodesContain: []string{"W_ANCHOR_NOT_FOUND"},
					},
					EventIO: ExpectedEventIO{Policy: "allow_with_caution"},
				},
			},
			{
				CaseID: "anchored_fixture_is_evaluatable",
				Input:  Input{Kind: InputText, Text: "어제 전화했다"},
				Expected: Expected{
					RequirementState: ExpectedRequirementState{State: "EVALUATABLE"},
					EventIO: ExpectedEventIO{
						Policy:         "allow",
						CanCreateEvent: boolPtr(true),
					},
				},
				MockModelOutput: anchoredMockOutput(),
			},
			{
				CaseID: "wrong_expectation_fails",
				Input:  Input{Kind: InputText, Text: "지금 어디야"},
				Expected: Expected{
					RequirementState: ExpectedRequirementState{State: "INVALID"},
					EventIO:          ExpectedEventIO{Policy: "deny"},
				},
			},
		},
	}

	runner := &Runner{Parallelism: 2}
	report, err := runner.RunSuite(context.Background(), suite)
	require.NoError(t, err)

	require.Len(t, report.Cases, 3)
	// Results keep suite order regardless of parallelism.
	require.Equal(t, "mock_is_unstable", report.Cases[0].CaseID)
	require.Equal(t, "anchored_fixture_is_evaluatable", report.Cases[1].CaseID)
	require.Equal(t, "wrong_expectation_fails", report.Cases[2].CaseID)

	require.Equal(t, CaseWarn, report.Cases[0].Status)
	require.Equal(t, CasePass, report.Cases[1].Status)
	require.Equal(t, CaseFail, report.Cases[2].Status)

	require.Equal(t, 1, report.Passed)
	require.Equal(t, 1, report.Warned)
	require.Equal(t, 1, report.Failed)
	require.False(t, report.OK())

	require.Contains(t, report.Cases[2].ReasonCodes, codeStateMismatch)
	require.Positive(t, report.Cases[0].Usage.InputChars)
	require.Positive(t, report.Cases[0].Usage.OutputChars)
}

func TestRunner_RunSuite_BadInputKind(t *testing.T) {
	suite := &Suite{
		Version: SuiteVersion,
		Name:    "broken",
		Cases: []Case{
			{CaseID: "bad", Input: Input{Kind: "audio"}},
		},
	}

	report, err := (&Runner{}).RunSuite(context.Background(), suite)
	require.NoError(t, err)
	require.Equal(t, CaseFail, report.Cases[0].Status)
	require.Equal(t, []string{"E_CASE_INPUT"}, report.Cases[0].ReasonCodes)
}
