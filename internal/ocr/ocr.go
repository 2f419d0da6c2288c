// Package ocr defines the optical-character-recognition boundary and the
// segment preprocessing applied before structuring. The OCR engine
// itself is an external collaborator.
package ocr

import "strings"

// Segment is one recognized line of text with optional layout hints.
type Segment struct {
	Text  string   `json:"text"`
	Page  *int     `json:"page,omitempty"`
	Line  *int     `json:"line,omitempty"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
}

// Result is a full OCR pass over one document or image.
type Result struct {
	FullText string    `json:"full_text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
	Engine   string    `json:"engine"`
}

// PreprocessSegments drops empty and punctuation-only segments and
// collapses line breaks and doubled spaces, filling missing time bounds
// with zero.
func PreprocessSegments(segments []Segment) []Segment {
	out := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" || punctuationOnly(text) {
			continue
		}
		text = strings.ReplaceAll(text, "\n", " ")
		text = strings.ReplaceAll(text, "\r", " ")
		text = strings.ReplaceAll(text, "  ", " ")

		cleaned := seg
		cleaned.Text = text
		if cleaned.Start == nil {
			zero := 0.0
			cleaned.Start = &zero
		}
		if cleaned.End == nil {
			zero := 0.0
			cleaned.End = &zero
		}
		out = append(out, cleaned)
	}
	return out
}

func punctuationOnly(text string) bool {
	const punct = `!@#$%^&*()_+=[]{}|;:'",.<>?/\ `
	for _, r := range text {
		if !strings.ContainsRune(punct, r) {
			return false
		}
	}
	return true
}
