package trial

import "fmt"

// Truncation reason codes. Informational only: they explain that output
// was shortened, they never alter a level.
const (
	CodeInputTruncated    = "W_INPUT_TRUNCATED"
	CodeEvidenceTruncated = "W_EVIDENCE_TRUNCATED"
	CodeOutputTruncated   = "W_OUTPUT_TRUNCATED"
)

// Limits holds the independently configurable truncation budgets. All
// character budgets count runes, matching anchor offsets.
type Limits struct {
	FullTextMaxChars     int `yaml:"full_text_max_chars" json:"full_text_max_chars"`
	EvidenceSpanMaxChars int `yaml:"evidence_span_max_chars" json:"evidence_span_max_chars"`
	SummaryMaxChars      int `yaml:"summary_max_chars" json:"summary_max_chars"`
	ReasonCodesMaxItems  int `yaml:"reason_codes_max_items" json:"reason_codes_max_items"`
}

// DefaultLimits returns the standard budgets.
func DefaultLimits() Limits {
	return Limits{
		FullTextMaxChars:     1000,
		EvidenceSpanMaxChars: 240,
		SummaryMaxChars:      80,
		ReasonCodesMaxItems:  8,
	}
}

// Tag encodes the budgets into a short string used to key cached
// signal files, so different budget configurations never collide.
func (l Limits) Tag() string {
	return fmt.Sprintf("ft%d_es%d_s%d_rc%d",
		l.FullTextMaxChars, l.EvidenceSpanMaxChars, l.SummaryMaxChars, l.ReasonCodesMaxItems)
}

// truncateRunes shortens s to at most max runes. A non-positive max
// disables the budget.
func truncateRunes(s string, max int) (string, bool) {
	if max <= 0 {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s, false
	}
	return string(runes[:max]), true
}

// truncateEvidence applies the span budget to every item, clamping each
// anchor's end so it never outlives the shortened span.
func truncateEvidence(items []Evidence, maxChars int) ([]Evidence, bool) {
	truncated := false
	out := make([]Evidence, len(items))
	for i, ev := range items {
		short, cut := truncateRunes(ev.EvidenceSpan, maxChars)
		if cut {
			truncated = true
			ev.EvidenceSpan = short
			if ev.EvidenceAnchor != nil {
				a := *ev.EvidenceAnchor
				clamped := a.StartChar + len([]rune(short))
				if clamped < a.EndChar {
					a.EndChar = clamped
				}
				ev.EvidenceAnchor = &a
			}
		}
		out[i] = ev
	}
	return out, truncated
}

// capReasonCodes bounds a code list to max items by dropping the tail
// and placing the truncation sentinel in the last slot.
func capReasonCodes(codes []string, max int) []string {
	if max <= 0 || len(codes) <= max {
		return codes
	}
	out := append([]string(nil), codes[:max-1]...)
	return append(out, CodeOutputTruncated)
}
