// Package anchor locates claimed evidence spans inside source text and
// applies the resulting offsets to structured documents. Matching is
// deterministic: a span resolves only when it occurs exactly once in the
// NFC-normalized text, otherwise it has no anchor at all.
package anchor

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"evidon/internal/schema"
)

// Matcher resolves an evidence span against the full source text.
type Matcher interface {
	// Match returns the anchor for span inside fullText, or nil when the
	// span is empty, absent, or occurs more than once.
	Match(fullText, span string) *schema.Anchor
}

// ExactMatcher is the production matcher: NFC normalization plus exact,
// unique substring search. Ambiguity is treated identically to absence.
type ExactMatcher struct{}

// Match implements Matcher. Offsets in the returned anchor are rune
// offsets into the NFC-normalized full text, half-open.
func (ExactMatcher) Match(fullText, span string) *schema.Anchor {
	if span == "" {
		return nil
	}

	full := norm.NFC.String(fullText)
	needle := strings.TrimSpace(norm.NFC.String(span))
	if needle == "" {
		return nil
	}

	first := -1
	for from := 0; ; {
		idx := strings.Index(full[from:], needle)
		if idx < 0 {
			break
		}
		if first >= 0 {
			// Second occurrence: ambiguous, no anchor.
			return nil
		}
		first = from + idx
		_, width := utf8.DecodeRuneInString(full[first:])
		from = first + width
	}
	if first < 0 {
		return nil
	}

	start := utf8.RuneCountInString(full[:first])
	return &schema.Anchor{
		Modality:  schema.ModalityText,
		StartChar: start,
		EndChar:   start + utf8.RuneCountInString(needle),
	}
}
