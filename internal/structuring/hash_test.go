package structuring

import (
	"regexp"
	"testing"
)

var hexRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

func sampleInput() Input {
	return Input{
		Modality:   "text",
		SourceType: SourceSTT,
		Language:   "ko",
		FullText:   "지금 어디야 안 받으면 찾아갈 거야",
		Segments: []Segment{
			{Text: "지금 어디야", Start: 0, End: 1.5},
			{Text: "안 받으면 찾아갈 거야", Start: 1.5, End: 4.0},
		},
	}
}

func TestInputHash_Stable(t *testing.T) {
	a := InputHash(sampleInput(), SchemaVersion, PromptVersion)
	b := InputHash(sampleInput(), SchemaVersion, PromptVersion)

	if a != b {
		t.Fatalf("identical inputs hashed differently: %s vs %s", a, b)
	}
	if !hexRe.MatchString(a) {
		t.Fatalf("hash %q is not 64 hex chars", a)
	}
}

func TestInputHash_SensitiveToContent(t *testing.T) {
	base := InputHash(sampleInput(), SchemaVersion, PromptVersion)

	changed := sampleInput()
	changed.FullText += "."
	if InputHash(changed, SchemaVersion, PromptVersion) == base {
		t.Fatal("full text change did not change the hash")
	}

	changed = sampleInput()
	changed.Segments[0].End = 2.0
	if InputHash(changed, SchemaVersion, PromptVersion) == base {
		t.Fatal("segment timing change did not change the hash")
	}
}

func TestInputHash_VersionBumpInvalidates(t *testing.T) {
	base := InputHash(sampleInput(), SchemaVersion, PromptVersion)

	if InputHash(sampleInput(), "v1.4", PromptVersion) == base {
		t.Fatal("schema version bump did not change the hash")
	}
	if InputHash(sampleInput(), SchemaVersion, "v1.1") == base {
		t.Fatal("prompt version bump did not change the hash")
	}
}

func TestInputHash_NFCNormalization(t *testing.T) {
	composed := sampleInput()
	composed.FullText = "café"

	decomposed := sampleInput()
	decomposed.FullText = "café"

	if InputHash(composed, SchemaVersion, PromptVersion) != InputHash(decomposed, SchemaVersion, PromptVersion) {
		t.Fatal("NFC-equivalent texts hashed differently")
	}
}

func TestInputHash_IgnoresNonContentFields(t *testing.T) {
	// Language and source type are run metadata; the hash keys content.
	a := sampleInput()
	b := sampleInput()
	b.Language = "en"
	b.SourceType = SourceOCR

	if InputHash(a, SchemaVersion, PromptVersion) != InputHash(b, SchemaVersion, PromptVersion) {
		t.Fatal("metadata fields leaked into the hash")
	}
}
