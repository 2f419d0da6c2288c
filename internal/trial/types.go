// Package trial derives coarse, explainable risk signals either from raw
// incident text (keyword heuristics) or from structured, anchored
// evidence (confidence and tag aggregation). Output size is bounded by
// hard truncation budgets; truncation appends explanatory reason codes
// but never changes a computed level.
package trial

import "evidon/internal/schema"

// Version is the trial-signal contract version this package produces.
const Version = "v0"

// Mode selects the signal vocabulary.
type Mode string

const (
	ModeText     Mode = "text"
	ModeEvidence Mode = "evidence"
)

// Signal names, per mode.
const (
	SignalRepetition = "repetition"
	SignalThreat     = "threat"
	SignalRefusal    = "refusal"

	SignalEvidenceStrength = "evidence_strength"
	SignalClarity          = "clarity"
	SignalSafety           = "safety"
)

// Text-mode levels. The labels are the human-facing Korean triage terms.
const (
	LevelInsufficient = "부족"
	LevelWarning      = "경고"
	LevelSufficient   = "충분"
)

// Evidence-mode levels.
const (
	LevelRisk = "위험"
	LevelSafe = "안전"
	// LevelWarning is shared between the two vocabularies.
)

// Evidence is one supporting span attached to a signal, at most three
// per signal in output.
type Evidence struct {
	EvidenceSpan   string         `json:"evidence_span"`
	EvidenceAnchor *schema.Anchor `json:"evidence_anchor"`
	Source         string         `json:"source"` // "text" or "structuring"
	SourceField    string         `json:"source_field,omitempty"`
}

// Signal is one named, leveled risk indicator with its reasoning.
type Signal struct {
	Name        string     `json:"name"`
	Level       string     `json:"level"`
	ReasonCodes []string   `json:"reason_codes"`
	Evidence    []Evidence `json:"evidence"`
}

// Output is the complete trial-signal result for one input.
type Output struct {
	Mode    Mode     `json:"mode"`
	Version string   `json:"version"`
	Summary string   `json:"summary"`
	Signals []Signal `json:"signals"`
}
