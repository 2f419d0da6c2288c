package tags

import (
	"evidon/internal/anchor"
	"evidon/internal/validator"
)

// Generate derives the evidence tags for one run from its anchor
// statistics, structural validation result, and the anchored document
// (scanned for confidence keys).
//
// ANCHOR_AMBIGUOUS is part of the vocabulary but is not produced here:
// the anchor matcher folds ambiguity into "no match", so the statistics
// cannot distinguish the two outcomes. Downstream rules still honor the
// tag when a stricter producer supplies it.
func Generate(stats anchor.Stats, validation validator.Result, doc any) []Tag {
	var out []Tag

	if stats.MatchedSpans > 0 {
		out = append(out, Tag{Name: AnchorOK, Source: SourceAnchor})
	} else {
		t := Tag{Name: AnchorNotFound, Source: SourceAnchor}
		if stats.UnmatchedSpans > 0 {
			t.Note = "no unique anchor match"
		}
		out = append(out, t)
	}

	if validation.Status == validator.StatusPass {
		out = append(out, Tag{Name: StructValid, Source: SourceStructure})
	} else {
		t := Tag{Name: StructInvalid, Source: SourceStructure}
		if len(validation.Messages) > 0 {
			head := validation.Messages[0]
			t.Note = head.Code + ": " + head.Text
		}
		out = append(out, t)
	}

	if HasConfidence(doc) {
		out = append(out, Tag{Name: ConfidencePresent, Source: SourceConfidence})
		if stats.MatchedSpans == 0 {
			out = append(out, Tag{Name: ConfidenceWithoutAnchor, Source: SourceConfidence})
		}
	}

	return out
}

// HasConfidence reports whether any object node anywhere in the document
// carries a "confidence" key.
func HasConfidence(doc any) bool {
	switch n := doc.(type) {
	case map[string]any:
		if _, ok := n["confidence"]; ok {
			return true
		}
		for _, v := range n {
			if HasConfidence(v) {
				return true
			}
		}
	case []any:
		for _, v := range n {
			if HasConfidence(v) {
				return true
			}
		}
	}
	return false
}
