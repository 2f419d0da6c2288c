package validator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type stubRule struct {
	name string
	out  Outcome
}

func (s stubRule) Name() string { return s.name }
func (s stubRule) Check(any) Outcome { return s.out }

func TestRunner_Run_PassWhenSilent(t *testing.T) {
	r := NewRunner(nil, stubRule{name: "a"}, stubRule{name: "b"})

	res := r.Run(map[string]any{})
	if res.Status != StatusPass {
		t.Fatalf("Status = %q, want pass", res.Status)
	}
	if len(res.Messages) != 0 {
		t.Fatalf("Messages = %d, want 0", len(res.Messages))
	}
}

func TestRunner_Run_WarnOnNonErrorMessage(t *testing.T) {
	r := NewRunner(nil, stubRule{name: "a", out: Outcome{
		Messages: []Message{{Code: "W_SOMETHING", Text: "minor"}},
	}})

	res := r.Run(nil)
	if res.Status != StatusWarn {
		t.Fatalf("Status = %q, want warn", res.Status)
	}
}

func TestRunner_Run_FailOnErrorCode(t *testing.T) {
	r := NewRunner(nil,
		stubRule{name: "a", out: Outcome{Messages: []Message{{Code: "W_FIRST"}}}},
		stubRule{name: "b", out: Outcome{Messages: []Message{{Code: "E_SECOND"}}}},
	)

	res := r.Run(nil)
	if res.Status != StatusFail {
		t.Fatalf("Status = %q, want fail", res.Status)
	}
	if res.IsValid() {
		t.Fatal("IsValid() = true for failed result")
	}
}

func TestRunner_Run_MessageOrderFollowsRuleOrder(t *testing.T) {
	r := NewRunner(nil,
		stubRule{name: "first", out: Outcome{Messages: []Message{{Code: "W_A"}, {Code: "W_B"}}}},
		stubRule{name: "second", out: Outcome{Messages: []Message{{Code: "W_C"}}}},
	)

	res := r.Run(nil)
	want := []string{"W_A", "W_B", "W_C"}
	if diff := cmp.Diff(want, res.Codes()); diff != "" {
		t.Fatalf("code order mismatch (-want +got):\n%s", diff)
	}
}

func TestRunner_Run_ExplicitStatusDominates(t *testing.T) {
	tests := []struct {
		name     string
		explicit []Status
		want     Status
	}{
		{"single pass", []Status{StatusPass}, StatusPass},
		{"warn beats pass", []Status{StatusPass, StatusWarn}, StatusWarn},
		{"fail beats warn", []Status{StatusWarn, StatusFail, StatusPass}, StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := make([]Rule, len(tt.explicit))
			for i, s := range tt.explicit {
				rules[i] = stubRule{name: "r", out: Outcome{Explicit: Explicit(s)}}
			}
			res := NewRunner(nil, rules...).Run(nil)
			if res.Status != tt.want {
				t.Fatalf("Status = %q, want %q", res.Status, tt.want)
			}
		})
	}
}

func TestRunner_Run_ExplicitPassOverridesErrorMessages(t *testing.T) {
	// When any rule takes an explicit stance, code-derived severity is
	// ignored for the aggregate status.
	r := NewRunner(nil,
		stubRule{name: "a", out: Outcome{Messages: []Message{{Code: "E_SOMETHING"}}}},
		stubRule{name: "b", out: Outcome{Explicit: Explicit(StatusPass)}},
	)

	res := r.Run(nil)
	if res.Status != StatusPass {
		t.Fatalf("Status = %q, want pass", res.Status)
	}
	if len(res.Messages) != 1 {
		t.Fatalf("Messages = %d, want messages preserved", len(res.Messages))
	}
}

func TestRunner_Add(t *testing.T) {
	r := NewRunner(nil)
	r.Add(stubRule{name: "late", out: Outcome{Messages: []Message{{Code: "E_X"}}}})

	if res := r.Run(nil); res.Status != StatusFail {
		t.Fatalf("Status = %q, want fail from added rule", res.Status)
	}
}
