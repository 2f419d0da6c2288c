// Package validator runs ordered, independent rules over structured
// documents and folds their messages into a single pass/warn/fail verdict.
package validator

// Status is the three-way validation verdict.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Message is one coded finding from a rule. Codes carry the severity
// convention: E_* escalates to fail, W_* to warn.
type Message struct {
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
	Text  string `json:"message"`
}

// Result aggregates all rule messages under a derived status.
type Result struct {
	Status   Status    `json:"status"`
	Messages []Message `json:"messages"`
}

// IsValid reports whether the result is usable downstream (not fail).
func (r Result) IsValid() bool {
	return r.Status != StatusFail
}

// Codes returns the message codes in emission order.
func (r Result) Codes() []string {
	codes := make([]string, len(r.Messages))
	for i, m := range r.Messages {
		codes[i] = m.Code
	}
	return codes
}
