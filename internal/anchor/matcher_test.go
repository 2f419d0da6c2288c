package anchor

import (
	"testing"

	"evidon/internal/schema"
)

func TestExactMatcher_Match_Unique(t *testing.T) {
	m := ExactMatcher{}

	full := "어제 밤에 전화했다. 그리고 문자를 보냈다."
	got := m.Match(full, "전화했다")
	if got == nil {
		t.Fatal("Match() = nil, want anchor")
	}
	if got.Modality != schema.ModalityText {
		t.Fatalf("Modality = %q, want %q", got.Modality, schema.ModalityText)
	}
	if got.StartChar != 6 || got.EndChar != 10 {
		t.Fatalf("anchor = [%d,%d), want [6,10)", got.StartChar, got.EndChar)
	}
}

func TestExactMatcher_Match_RuneOffsets(t *testing.T) {
	m := ExactMatcher{}

	// Offsets are characters, not bytes; the Hangul prefix is 3 runes
	// but 9 bytes.
	got := m.Match("한글 텍스트 abc", "abc")
	if got == nil {
		t.Fatal("Match() = nil, want anchor")
	}
	if got.StartChar != 7 || got.EndChar != 10 {
		t.Fatalf("anchor = [%d,%d), want [7,10)", got.StartChar, got.EndChar)
	}
}

func TestExactMatcher_Match_AmbiguousReturnsNil(t *testing.T) {
	m := ExactMatcher{}

	full := "전화했다. 또 전화했다."
	if got := m.Match(full, "전화했다"); got != nil {
		t.Fatalf("Match() = %+v, want nil for ambiguous span", got)
	}
}

func TestExactMatcher_Match_NotFoundReturnsNil(t *testing.T) {
	m := ExactMatcher{}

	if got := m.Match("어제 만났다", "전화했다"); got != nil {
		t.Fatalf("Match() = %+v, want nil for missing span", got)
	}
}

func TestExactMatcher_Match_EmptySpan(t *testing.T) {
	m := ExactMatcher{}

	if got := m.Match("본문", ""); got != nil {
		t.Fatalf("Match() = %+v, want nil for empty span", got)
	}
	if got := m.Match("본문", "   "); got != nil {
		t.Fatalf("Match() = %+v, want nil for whitespace span", got)
	}
}

func TestExactMatcher_Match_SpanTrimmed(t *testing.T) {
	m := ExactMatcher{}

	got := m.Match("그가 찾아왔다", "  찾아왔다 ")
	if got == nil {
		t.Fatal("Match() = nil, want anchor for trimmed span")
	}
	if got.StartChar != 3 || got.EndChar != 7 {
		t.Fatalf("anchor = [%d,%d), want [3,7)", got.StartChar, got.EndChar)
	}
}

func TestExactMatcher_Match_UnicodeNormalization(t *testing.T) {
	m := ExactMatcher{}

	// Decomposed e + combining acute matches the precomposed form.
	got := m.Match("café latte", "café")
	if got == nil {
		t.Fatal("Match() = nil, want anchor across NFC forms")
	}
	if got.StartChar != 0 || got.EndChar != 4 {
		t.Fatalf("anchor = [%d,%d), want [0,4)", got.StartChar, got.EndChar)
	}
}

func TestExactMatcher_Match_OverlappingOccurrences(t *testing.T) {
	m := ExactMatcher{}

	// "aaa" contains "aa" twice at overlapping offsets.
	if got := m.Match("aaa", "aa"); got != nil {
		t.Fatalf("Match() = %+v, want nil for overlapping occurrences", got)
	}
}
