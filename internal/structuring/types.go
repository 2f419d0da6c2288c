// Package structuring orchestrates the evidence pipeline: normalized
// input through the model boundary, anchor application, validation, and
// derived statistics, with content-hash keyed caching along the way.
package structuring

import (
	"evidon/internal/anchor"
	"evidon/internal/ocr"
	"evidon/internal/stt"
	"evidon/internal/validator"
)

// Versions participating in the content hash. Bumping either one
// invalidates every cached artifact derived under it.
const (
	SchemaVersion = "v1.3"
	PromptVersion = "v1.0"
)

// SourceType identifies the front-end that produced the input text.
type SourceType string

const (
	SourceSTT SourceType = "stt"
	SourceOCR SourceType = "ocr"
)

// Segment is one time-aligned slice of the input text.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Input is the normalized structuring input. Immutable once built.
type Input struct {
	Modality   string     `json:"modality"` // always "text"
	SourceType SourceType `json:"source_type"`
	Language   string     `json:"language,omitempty"`
	FullText   string     `json:"full_text"`
	Segments   []Segment  `json:"segments"`
}

// FromSTT converts a transcription result into a structuring input.
func FromSTT(r *stt.Result) Input {
	segments := make([]Segment, len(r.Segments))
	for i, seg := range r.Segments {
		segments[i] = Segment{Text: seg.Text, Start: seg.Start, End: seg.End}
	}
	return Input{
		Modality:   "text",
		SourceType: SourceSTT,
		Language:   r.Language,
		FullText:   r.FullText,
		Segments:   segments,
	}
}

// FromOCR converts an OCR result into a structuring input, applying
// segment preprocessing first.
func FromOCR(r *ocr.Result) Input {
	cleaned := ocr.PreprocessSegments(r.Segments)
	segments := make([]Segment, len(cleaned))
	for i, seg := range cleaned {
		s := Segment{Text: seg.Text}
		if seg.Start != nil {
			s.Start = *seg.Start
		}
		if seg.End != nil {
			s.End = *seg.End
		}
		segments[i] = s
	}
	return Input{
		Modality:   "text",
		SourceType: SourceOCR,
		Language:   r.Language,
		FullText:   r.FullText,
		Segments:   segments,
	}
}

// Validation is the pipeline-facing summary of structural validation.
type Validation struct {
	Status     string   `json:"status"` // PASS | WARN | FAIL
	ErrorCodes []string `json:"error_codes"`
	Message    string   `json:"message,omitempty"`
}

// Result is one structuring run's outcome.
type Result struct {
	OutputJSON  any          `json:"output_json"`
	CacheHit    bool         `json:"cache_hit"`
	AnchorStats anchor.Stats `json:"anchor_stats"`
	Validation  Validation   `json:"validation"`
	RunID       string       `json:"run_id"`

	// RawValidation keeps the full rule-engine result for tag
	// generation; the JSON form carries only the summary above.
	RawValidation validator.Result `json:"-"`
}
