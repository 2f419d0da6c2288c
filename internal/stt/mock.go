package stt

import (
	"context"
	"strings"
)

// MockEngine passes its source string through as the transcript instead
// of touching audio, which lets text-only cases drive the full pipeline.
// An empty source yields a canned two-segment Korean transcript.
type MockEngine struct{}

// Transcribe implements Engine.
func (MockEngine) Transcribe(_ context.Context, source string) (*Result, error) {
	text := strings.TrimSpace(source)
	if text != "" {
		return &Result{
			FullText: text,
			Segments: []Segment{{Start: 0, End: 0, Text: text}},
			Language: "ko",
			Engine:   "mock",
		}, nil
	}

	segments := []Segment{
		{Start: 0.0, End: 2.5, Text: "지금 어디야"},
		{Start: 3.0, End: 6.2, Text: "안 받으면 찾아갈 거야"},
	}
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.Text
	}
	return &Result{
		FullText: strings.Join(parts, " "),
		Segments: segments,
		Language: "ko",
		Engine:   "mock",
	}, nil
}
