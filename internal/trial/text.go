package trial

import (
	"regexp"
	"strings"

	"evidon/internal/schema"
)

// Threat and refusal keyword patterns, matched case-insensitively
// against the raw text. First matching pattern wins and supplies the
// evidence span.
var threatPatterns = compilePatterns([]string{
	`죽(?:여|인다|이겠)`,
	`가만두지\s*않`,
	`해코지`,
	`찾아가(?:겠|서)`,
	`때리(?:겠|고)`,
	`폭로`,
})

var refusalPatterns = compilePatterns([]string{
	`그만`,
	`하지\s*마`,
	`싫어`,
	`연락\s*하지\s*마`,
	`차단`,
	`거절`,
})

func compilePatterns(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?im)` + e)
	}
	return out
}

// spanMatch is a located keyword hit in rune offsets.
type spanMatch struct {
	span  string
	start int
	end   int
}

func findFirstMatch(fullText string, patterns []*regexp.Regexp) *spanMatch {
	for _, re := range patterns {
		loc := re.FindStringIndex(fullText)
		if loc == nil {
			continue
		}
		span := fullText[loc[0]:loc[1]]
		if span == "" {
			continue
		}
		start := len([]rune(fullText[:loc[0]]))
		return &spanMatch{
			span:  span,
			start: start,
			end:   start + len([]rune(span)),
		}
	}
	return nil
}

func textEvidence(m *spanMatch) []Evidence {
	if m == nil {
		return nil
	}
	return []Evidence{{
		EvidenceSpan: m.span,
		EvidenceAnchor: &schema.Anchor{
			Modality:  schema.ModalityText,
			StartChar: m.start,
			EndChar:   m.end,
		},
		Source: "text",
	}}
}

// FromText derives the text-mode signals (repetition, threat, refusal)
// from raw incident text, before any structuring happens.
func FromText(fullText string, lim Limits) Output {
	text, inputTruncated := truncateRunes(fullText, lim.FullTextMaxChars)

	signals := []Signal{
		repetitionSignal(text),
		threatSignal(text),
		refusalSignal(text),
	}

	for i := range signals {
		if inputTruncated {
			signals[i].ReasonCodes = append(signals[i].ReasonCodes, CodeInputTruncated)
		}
		ev, cut := truncateEvidence(signals[i].Evidence, lim.EvidenceSpanMaxChars)
		signals[i].Evidence = ev
		if cut {
			signals[i].ReasonCodes = append(signals[i].ReasonCodes, CodeEvidenceTruncated)
		}
		signals[i].ReasonCodes = capReasonCodes(signals[i].ReasonCodes, lim.ReasonCodesMaxItems)
	}

	summary, _ := truncateRunes("TRIAL signals v0 (text)", lim.SummaryMaxChars)
	return Output{
		Mode:    ModeText,
		Version: Version,
		Summary: summary,
		Signals: signals,
	}
}

// repetitionSignal tokenizes on whitespace, ignores tokens shorter than
// four runes, and grades the most frequent remaining token. Ties break
// toward the token seen first.
func repetitionSignal(text string) Signal {
	freq := make(map[string]int)
	var order []string
	for _, tok := range strings.Fields(text) {
		if len([]rune(tok)) < 4 {
			continue
		}
		if _, seen := freq[tok]; !seen {
			order = append(order, tok)
		}
		freq[tok]++
	}

	if len(order) == 0 {
		return Signal{
			Name:        SignalRepetition,
			Level:       LevelInsufficient,
			ReasonCodes: []string{"T_REPETITION_NO_TOKENS"},
		}
	}

	top := order[0]
	for _, tok := range order[1:] {
		if freq[tok] > freq[top] {
			top = tok
		}
	}

	locate := func() []Evidence {
		return textEvidence(findFirstMatch(text, []*regexp.Regexp{
			regexp.MustCompile(`(?im)` + regexp.QuoteMeta(top)),
		}))
	}

	switch {
	case freq[top] >= 3:
		return Signal{
			Name:        SignalRepetition,
			Level:       LevelSufficient,
			ReasonCodes: []string{"T_REPETITION_TOKEN_X3"},
			Evidence:    locate(),
		}
	case freq[top] == 2:
		return Signal{
			Name:        SignalRepetition,
			Level:       LevelWarning,
			ReasonCodes: []string{"T_REPETITION_TOKEN_X2"},
			Evidence:    locate(),
		}
	default:
		return Signal{
			Name:        SignalRepetition,
			Level:       LevelInsufficient,
			ReasonCodes: []string{"T_REPETITION_TOKEN_X1"},
		}
	}
}

func threatSignal(text string) Signal {
	m := findFirstMatch(text, threatPatterns)
	if m == nil {
		return Signal{
			Name:        SignalThreat,
			Level:       LevelInsufficient,
			ReasonCodes: []string{"T_THREAT_NO_MATCH"},
		}
	}
	return Signal{
		Name:        SignalThreat,
		Level:       LevelSufficient,
		ReasonCodes: []string{"T_THREAT_KEYWORD_MATCH"},
		Evidence:    textEvidence(m),
	}
}

func refusalSignal(text string) Signal {
	m := findFirstMatch(text, refusalPatterns)
	if m == nil {
		return Signal{
			Name:        SignalRefusal,
			Level:       LevelInsufficient,
			ReasonCodes: []string{"T_REFUSAL_NO_MATCH"},
		}
	}
	return Signal{
		Name:        SignalRefusal,
		Level:       LevelSufficient,
		ReasonCodes: []string{"T_REFUSAL_KEYWORD_MATCH"},
		Evidence:    textEvidence(m),
	}
}
