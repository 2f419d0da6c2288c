// Package stt defines the speech-to-text boundary. Real engines are
// external collaborators; the package ships the result types and a mock
// engine good enough for demos and the eval harness.
package stt

import "context"

// Segment is one transcribed utterance with its time window in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is a full transcription.
type Result struct {
	FullText string    `json:"full_text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language,omitempty"`
	Engine   string    `json:"engine"`
}

// Engine transcribes an audio source into text segments.
type Engine interface {
	Transcribe(ctx context.Context, source string) (*Result, error)
}
