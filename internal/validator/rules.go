package validator

import (
	"fmt"

	"evidon/internal/schema"
)

// SchemaExists rejects anything that is not a JSON object.
type SchemaExists struct{}

func (SchemaExists) Name() string { return "schema_exists" }

func (SchemaExists) Check(doc any) Outcome {
	if _, ok := doc.(map[string]any); !ok {
		return Outcome{Messages: []Message{{
			Code: "E_NOT_OBJECT",
			Text: "structured output is not a JSON object",
		}}}
	}
	return Outcome{}
}

// RequiredTopLevelKeys checks that every fixed schema key is present.
// Keys defaults to schema.RequiredTopLevelKeys when empty.
type RequiredTopLevelKeys struct {
	Keys []string
}

func (RequiredTopLevelKeys) Name() string { return "required_top_level_keys" }

func (r RequiredTopLevelKeys) Check(doc any) Outcome {
	obj, ok := doc.(map[string]any)
	if !ok {
		return Outcome{}
	}
	keys := r.Keys
	if len(keys) == 0 {
		keys = schema.RequiredTopLevelKeys
	}
	var missing []string
	for _, k := range keys {
		if _, present := obj[k]; !present {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return Outcome{}
	}
	return Outcome{Messages: []Message{{
		Code:  "E_REQUIRED_KEY_MISSING",
		Field: ".",
		Text:  fmt.Sprintf("missing required top-level keys: %v", missing),
	}}}
}

// ConfidenceAndEvidence verifies, per field object, that confidence is a
// known grade and that the span/anchor pair is consistent: no anchor
// without a span, anchor modality "text", and integer start < end. The
// walk stops at the first problem found.
type ConfidenceAndEvidence struct{}

func (ConfidenceAndEvidence) Name() string { return "confidence_and_evidence" }

func (ConfidenceAndEvidence) Check(doc any) Outcome {
	obj, ok := doc.(map[string]any)
	if !ok {
		return Outcome{}
	}
	for _, key := range sortedKeys(obj) {
		field, ok := obj[key].(map[string]any)
		if !ok {
			continue
		}
		if msg := checkConfidence(field, key); msg != nil {
			return Outcome{Messages: []Message{*msg}}
		}
		if msg := checkEvidencePair(field, key); msg != nil {
			return Outcome{Messages: []Message{*msg}}
		}
	}
	return Outcome{}
}

func checkConfidence(field map[string]any, path string) *Message {
	c, _ := field["confidence"].(string)
	if !schema.Confidence(c).Valid() {
		return &Message{
			Code:  "E_INVALID_CONFIDENCE",
			Field: path + ".confidence",
			Text:  fmt.Sprintf("invalid confidence value: %v", field["confidence"]),
		}
	}
	return nil
}

func checkEvidencePair(field map[string]any, path string) *Message {
	span := field["evidence_span"]
	rawAnchor := field["evidence_anchor"]

	if span == nil {
		if rawAnchor != nil {
			return &Message{
				Code:  "E_ANCHOR_WITHOUT_SPAN",
				Field: path + ".evidence_anchor",
				Text:  "evidence_anchor present while evidence_span is null",
			}
		}
		return nil
	}
	if rawAnchor == nil {
		return nil
	}

	obj, ok := rawAnchor.(map[string]any)
	if !ok {
		return &Message{
			Code:  "E_INVALID_ANCHOR_RANGE",
			Field: path + ".evidence_anchor",
			Text:  "evidence_anchor is not an object",
		}
	}
	if modality, _ := obj["modality"].(string); modality != schema.ModalityText {
		return &Message{
			Code:  "E_INVALID_ANCHOR_MODALITY",
			Field: path + ".evidence_anchor.modality",
			Text:  `evidence_anchor.modality must be "text"`,
		}
	}
	a, err := schema.ParseAnchor(obj)
	if err != nil || a.StartChar >= a.EndChar {
		return &Message{
			Code:  "E_INVALID_ANCHOR_RANGE",
			Field: path + ".evidence_anchor",
			Text:  "evidence_anchor start_char/end_char range is invalid",
		}
	}
	return nil
}

// AnchorConsistency reports every span/anchor inconsistency in the
// document instead of stopping at the first, for diagnostic listings.
type AnchorConsistency struct{}

func (AnchorConsistency) Name() string { return "anchor_consistency" }

func (AnchorConsistency) Check(doc any) Outcome {
	obj, ok := doc.(map[string]any)
	if !ok {
		return Outcome{}
	}
	var msgs []Message
	for _, key := range sortedKeys(obj) {
		field, ok := obj[key].(map[string]any)
		if !ok {
			continue
		}
		span := field["evidence_span"]
		rawAnchor := field["evidence_anchor"]

		if span == nil && rawAnchor != nil {
			msgs = append(msgs, Message{
				Code:  "E_ANCHOR_WITHOUT_SPAN",
				Field: key,
				Text:  "evidence_anchor must be null when evidence_span is null",
			})
			continue
		}
		anchorObj, ok := rawAnchor.(map[string]any)
		if !ok {
			continue
		}
		a, err := schema.ParseAnchor(anchorObj)
		if err != nil {
			msgs = append(msgs, Message{
				Code:  "E_ANCHOR_INVALID_RANGE",
				Field: key,
				Text:  "evidence_anchor start_char and end_char must be integers",
			})
			continue
		}
		if a.StartChar >= a.EndChar {
			msgs = append(msgs, Message{
				Code:  "E_ANCHOR_INVALID_RANGE",
				Field: key,
				Text:  "evidence_anchor start_char must be less than end_char",
			})
		}
	}
	return Outcome{Messages: msgs}
}

// ConfidencePolicy enforces the confidence-evidence contract as an
// explicit verdict: every field needs a confidence grade, and
// confidence=high requires a non-null evidence_span. Any finding fails
// the document outright.
type ConfidencePolicy struct{}

func (ConfidencePolicy) Name() string { return "confidence_policy" }

func (ConfidencePolicy) Check(doc any) Outcome {
	obj, ok := doc.(map[string]any)
	if !ok {
		return Outcome{}
	}
	var msgs []Message
	for _, key := range sortedKeys(obj) {
		field, ok := obj[key].(map[string]any)
		if !ok {
			continue
		}
		c, present := field["confidence"]
		if !present || c == nil {
			msgs = append(msgs, Message{
				Code:  "E_CONFIDENCE_MISSING",
				Field: key,
				Text:  "confidence field is missing",
			})
			continue
		}
		grade, _ := c.(string)
		if !schema.Confidence(grade).Valid() {
			msgs = append(msgs, Message{
				Code:  "E_CONFIDENCE_INVALID_VALUE",
				Field: key,
				Text:  fmt.Sprintf("invalid confidence value: %v", c),
			})
			continue
		}
		if schema.Confidence(grade) == schema.ConfidenceHigh && field["evidence_span"] == nil {
			msgs = append(msgs, Message{
				Code:  "E_CONFIDENCE_HIGH_REQUIRES_EVIDENCE",
				Field: key,
				Text:  "confidence=high requires evidence_span",
			})
		}
	}
	if len(msgs) > 0 {
		return Outcome{Messages: msgs, Explicit: Explicit(StatusFail)}
	}
	return Outcome{Explicit: Explicit(StatusPass)}
}
