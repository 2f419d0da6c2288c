package stt

import (
	"context"
	"testing"
)

func TestMockEngine_PassesTextThrough(t *testing.T) {
	r, err := MockEngine{}.Transcribe(context.Background(), "  연락하지 마  ")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if r.FullText != "연락하지 마" {
		t.Fatalf("FullText = %q", r.FullText)
	}
	if len(r.Segments) != 1 || r.Segments[0].Text != "연락하지 마" {
		t.Fatalf("segments = %+v", r.Segments)
	}
	if r.Engine != "mock" || r.Language != "ko" {
		t.Fatalf("engine/language = %s/%s", r.Engine, r.Language)
	}
}

func TestMockEngine_EmptySourceYieldsCannedTranscript(t *testing.T) {
	r, err := MockEngine{}.Transcribe(context.Background(), "")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(r.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(r.Segments))
	}
	if r.FullText != "지금 어디야 안 받으면 찾아갈 거야" {
		t.Fatalf("FullText = %q", r.FullText)
	}
	if r.Segments[1].Start <= r.Segments[0].End {
		t.Fatalf("segment times not ordered: %+v", r.Segments)
	}
}
