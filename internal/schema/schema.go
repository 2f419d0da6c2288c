// Package schema defines the evidence document model shared by the
// structuring pipeline, the validator, and the trial-signal generator.
//
// A document is a fixed set of top-level fields, each carrying a value, a
// confidence grade, and an optional evidence span with its resolved anchor.
// Unknown top-level keys coming back from the model are preserved in an
// Extra bucket so round-tripping never drops data.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Confidence grades a field as asserted by the upstream model. The core
// never second-guesses the grade, it only verifies traceability.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Valid reports whether c is one of the three allowed grades.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// ModalityText is the only anchor modality the pipeline produces.
const ModalityText = "text"

// Anchor is a half-open rune-offset range into the NFC-normalized full
// text. StartChar < EndChar always holds for anchors the matcher emits.
type Anchor struct {
	Modality  string `json:"modality"`
	StartChar int    `json:"start_char"`
	EndChar   int    `json:"end_char"`
}

// Field is one top-level entry of an evidence document.
type Field struct {
	Value          any        `json:"value"`
	Confidence     Confidence `json:"confidence"`
	EvidenceSpan   *string    `json:"evidence_span"`
	EvidenceAnchor *Anchor    `json:"evidence_anchor"`
}

// RequiredTopLevelKeys is the fixed key set of the evidence schema,
// in declaration order. Iteration over a Document follows this order.
var RequiredTopLevelKeys = []string{
	"evidence_metadata",
	"parties",
	"period",
	"frequency",
	"channel",
	"locations",
	"action_types",
	"refusal_signal",
	"threat_indicators",
	"impact_on_victim",
	"report_or_record",
}

// Document is the typed view of a structured evidence document. Fields
// absent from the source JSON stay nil; keys outside the fixed set land
// in Extra.
type Document struct {
	EvidenceMetadata *Field
	Parties          *Field
	Period           *Field
	Frequency        *Field
	Channel          *Field
	Locations        *Field
	ActionTypes      *Field
	RefusalSignal    *Field
	ThreatIndicators *Field
	ImpactOnVictim   *Field
	ReportOrRecord   *Field

	Extra map[string]*Field
}

// fieldSlot maps a fixed key to its slot in the struct.
func (d *Document) fieldSlot(key string) **Field {
	switch key {
	case "evidence_metadata":
		return &d.EvidenceMetadata
	case "parties":
		return &d.Parties
	case "period":
		return &d.Period
	case "frequency":
		return &d.Frequency
	case "channel":
		return &d.Channel
	case "locations":
		return &d.Locations
	case "action_types":
		return &d.ActionTypes
	case "refusal_signal":
		return &d.RefusalSignal
	case "threat_indicators":
		return &d.ThreatIndicators
	case "impact_on_victim":
		return &d.ImpactOnVictim
	case "report_or_record":
		return &d.ReportOrRecord
	}
	return nil
}

// NamedField pairs a top-level key with its field.
type NamedField struct {
	Key   string
	Field *Field
}

// Fields returns the document's present fields: fixed keys in schema
// order first, then Extra keys sorted for determinism.
func (d *Document) Fields() []NamedField {
	var out []NamedField
	for _, key := range RequiredTopLevelKeys {
		if f := *d.fieldSlot(key); f != nil {
			out = append(out, NamedField{Key: key, Field: f})
		}
	}
	extraKeys := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		out = append(out, NamedField{Key: k, Field: d.Extra[k]})
	}
	return out
}

// Get returns the field stored under key, fixed or extra.
func (d *Document) Get(key string) *Field {
	if slot := d.fieldSlot(key); slot != nil {
		return *slot
	}
	return d.Extra[key]
}

// ParseDocument builds a typed document from a decoded JSON object.
// Non-object field values are rejected; the raw payload should have been
// run through the validator first if malformed input is possible.
func ParseDocument(raw map[string]any) (*Document, error) {
	doc := &Document{}
	for key, val := range raw {
		obj, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: expected object, got %T", key, val)
		}
		field, err := parseField(obj)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		doc.put(key, field)
	}
	return doc, nil
}

// ParseDocumentLenient builds a typed document keeping whatever parses:
// top-level values that are not objects are skipped, and a field whose
// evidence_anchor fails to decode keeps its span with a nil anchor. One
// malformed field never discards its siblings.
func ParseDocumentLenient(raw map[string]any) *Document {
	doc := &Document{}
	for key, val := range raw {
		obj, ok := val.(map[string]any)
		if !ok {
			continue
		}
		field, err := parseField(obj)
		if err != nil {
			field = parseFieldBase(obj)
		}
		doc.put(key, field)
	}
	return doc
}

func (d *Document) put(key string, f *Field) {
	if slot := d.fieldSlot(key); slot != nil {
		*slot = f
		return
	}
	if d.Extra == nil {
		d.Extra = make(map[string]*Field)
	}
	d.Extra[key] = f
}

func parseField(obj map[string]any) (*Field, error) {
	f := parseFieldBase(obj)
	if a, ok := obj["evidence_anchor"].(map[string]any); ok {
		anchor, err := ParseAnchor(a)
		if err != nil {
			return nil, err
		}
		f.EvidenceAnchor = anchor
	}
	return f, nil
}

func parseFieldBase(obj map[string]any) *Field {
	f := &Field{Value: obj["value"]}
	if c, ok := obj["confidence"].(string); ok {
		f.Confidence = Confidence(c)
	}
	if s, ok := obj["evidence_span"].(string); ok {
		f.EvidenceSpan = &s
	}
	return f
}

// ParseAnchor decodes an anchor object. Offsets must be whole numbers;
// JSON decoding yields float64, so fractional values are rejected.
func ParseAnchor(obj map[string]any) (*Anchor, error) {
	start, ok1 := intValue(obj["start_char"])
	end, ok2 := intValue(obj["end_char"])
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("anchor offsets must be integers")
	}
	modality, _ := obj["modality"].(string)
	return &Anchor{Modality: modality, StartChar: start, EndChar: end}, nil
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

// ToMap renders the document back to a generic JSON object.
func (d *Document) ToMap() map[string]any {
	out := make(map[string]any)
	for _, nf := range d.Fields() {
		out[nf.Key] = nf.Field.toMap()
	}
	return out
}

func (f *Field) toMap() map[string]any {
	obj := map[string]any{
		"value":           f.Value,
		"confidence":      string(f.Confidence),
		"evidence_span":   nil,
		"evidence_anchor": nil,
	}
	if f.EvidenceSpan != nil {
		obj["evidence_span"] = *f.EvidenceSpan
	}
	if f.EvidenceAnchor != nil {
		obj["evidence_anchor"] = map[string]any{
			"modality":   f.EvidenceAnchor.Modality,
			"start_char": f.EvidenceAnchor.StartChar,
			"end_char":   f.EvidenceAnchor.EndChar,
		}
	}
	return obj
}
