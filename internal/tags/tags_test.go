package tags

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"evidon/internal/anchor"
	"evidon/internal/validator"
)

func passResult() validator.Result {
	return validator.Result{Status: validator.StatusPass}
}

func TestGenerate_AnchoredValidDocument(t *testing.T) {
	stats := anchor.Stats{TotalSpans: 2, MatchedSpans: 2}
	doc := map[string]any{
		"channel": map[string]any{"confidence": "high"},
	}

	got := Generate(stats, passResult(), doc)
	want := []Tag{
		{Name: AnchorOK, Source: SourceAnchor},
		{Name: StructValid, Source: SourceStructure},
		{Name: ConfidencePresent, Source: SourceConfidence},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_NoMatches(t *testing.T) {
	stats := anchor.Stats{TotalSpans: 1, UnmatchedSpans: 1}
	doc := map[string]any{
		"channel": map[string]any{"confidence": "low"},
	}

	got := NewSet(Generate(stats, passResult(), doc))
	if !got.Has(AnchorNotFound) {
		t.Fatal("want ANCHOR_NOT_FOUND")
	}
	if got.Note(AnchorNotFound) != "no unique anchor match" {
		t.Fatalf("note = %q", got.Note(AnchorNotFound))
	}
	if !got.Has(ConfidenceWithoutAnchor) {
		t.Fatal("confidence without any match must tag CONFIDENCE_WITHOUT_ANCHOR")
	}
}

func TestGenerate_NoSpansAtAll(t *testing.T) {
	got := NewSet(Generate(anchor.Stats{}, passResult(), map[string]any{}))
	if !got.Has(AnchorNotFound) {
		t.Fatal("zero spans must tag ANCHOR_NOT_FOUND")
	}
	if got.Note(AnchorNotFound) != "" {
		t.Fatalf("note = %q, want empty when nothing was unmatched", got.Note(AnchorNotFound))
	}
	if got.Has(ConfidencePresent) {
		t.Fatal("no confidence keys, no CONFIDENCE_PRESENT")
	}
}

func TestGenerate_StructInvalidCarriesHeadMessage(t *testing.T) {
	res := validator.Result{
		Status: validator.StatusFail,
		Messages: []validator.Message{
			{Code: "E_REQUIRED_KEY_MISSING", Text: "missing required top-level keys: [parties]"},
			{Code: "E_INVALID_CONFIDENCE", Text: "second finding"},
		},
	}

	got := NewSet(Generate(anchor.Stats{MatchedSpans: 1}, res, nil))
	if !got.Has(StructInvalid) {
		t.Fatal("want STRUCT_INVALID")
	}
	wantNote := "E_REQUIRED_KEY_MISSING: missing required top-level keys: [parties]"
	if got.Note(StructInvalid) != wantNote {
		t.Fatalf("note = %q, want %q", got.Note(StructInvalid), wantNote)
	}
}

func TestGenerate_WarnStillTagsStructInvalid(t *testing.T) {
	res := validator.Result{Status: validator.StatusWarn}
	got := NewSet(Generate(anchor.Stats{MatchedSpans: 1}, res, nil))
	if !got.Has(StructInvalid) {
		t.Fatal("non-pass validation must tag STRUCT_INVALID")
	}
}

func TestHasConfidence_Nested(t *testing.T) {
	doc := map[string]any{
		"action_types": []any{
			map[string]any{"value": "x"},
			map[string]any{"nested": map[string]any{"confidence": "medium"}},
		},
	}
	if !HasConfidence(doc) {
		t.Fatal("HasConfidence() = false, want true for nested key")
	}
	if HasConfidence(map[string]any{"value": 1}) {
		t.Fatal("HasConfidence() = true for document without confidence")
	}
}

func TestValidate_EmptyTags(t *testing.T) {
	res := Validate(nil)
	if res.Status != validator.StatusWarn {
		t.Fatalf("Status = %q, want warn", res.Status)
	}
	if len(res.Messages) != 1 || res.Messages[0].Code != "W_NO_TAGS" {
		t.Fatalf("Messages = %v, want W_NO_TAGS", res.Messages)
	}
}

func TestValidate_StructInvalidShortCircuits(t *testing.T) {
	ts := []Tag{
		{Name: StructInvalid, Source: SourceStructure, Note: "E_NOT_OBJECT: not an object"},
		{Name: AnchorNotFound, Source: SourceAnchor},
		{Name: ConfidenceWithoutAnchor, Source: SourceConfidence},
	}

	res := Validate(ts)
	if res.Status != validator.StatusFail {
		t.Fatalf("Status = %q, want fail", res.Status)
	}
	if len(res.Messages) != 1 || res.Messages[0].Code != "E_STRUCT_INVALID" {
		t.Fatalf("Messages = %v, want only E_STRUCT_INVALID", res.Messages)
	}
	if res.Messages[0].Text != "structured output is invalid (E_NOT_OBJECT: not an object)" {
		t.Fatalf("Text = %q", res.Messages[0].Text)
	}
}

func TestValidate_CleanTagsPass(t *testing.T) {
	ts := []Tag{
		{Name: AnchorOK, Source: SourceAnchor},
		{Name: StructValid, Source: SourceStructure},
		{Name: ConfidencePresent, Source: SourceConfidence},
	}

	res := Validate(ts)
	if res.Status != validator.StatusPass {
		t.Fatalf("Status = %q, want pass", res.Status)
	}
	if len(res.Messages) != 0 {
		t.Fatalf("Messages = %v, want none", res.Messages)
	}
}

func TestValidate_AmbiguousBeatsNotFound(t *testing.T) {
	ts := []Tag{
		{Name: AnchorAmbiguous, Source: SourceAnchor},
		{Name: AnchorNotFound, Source: SourceAnchor},
		{Name: StructValid, Source: SourceStructure},
	}

	res := Validate(ts)
	if res.Status != validator.StatusWarn {
		t.Fatalf("Status = %q, want warn", res.Status)
	}
	codes := res.Codes()
	if len(codes) != 1 || codes[0] != "W_ANCHOR_AMBIGUOUS" {
		t.Fatalf("codes = %v, want only W_ANCHOR_AMBIGUOUS", codes)
	}
}

func TestValidate_WarnAccumulation(t *testing.T) {
	ts := []Tag{
		{Name: AnchorNotFound, Source: SourceAnchor},
		{Name: ConfidenceWithoutAnchor, Source: SourceConfidence},
	}

	res := Validate(ts)
	want := []string{"W_ANCHOR_NOT_FOUND", "W_CONFIDENCE_WITHOUT_ANCHOR", "W_TAGS_INCOMPLETE"}
	if diff := cmp.Diff(want, res.Codes()); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if res.Status != validator.StatusWarn {
		t.Fatalf("Status = %q, want warn", res.Status)
	}
}
