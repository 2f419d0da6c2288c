package prompt

import (
	"strings"
	"testing"
)

func TestSystemPrompt_Embedded(t *testing.T) {
	if strings.TrimSpace(SystemPrompt()) == "" {
		t.Fatal("embedded system prompt is empty")
	}
}

func TestBuild(t *testing.T) {
	segments := []map[string]any{
		{"text": "지금 어디야", "start": 0.0, "end": 2.5},
	}

	msgs, err := Build("지금 어디야", segments)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != SystemPrompt() {
		t.Fatalf("first message = %s", msgs[0].Role)
	}
	if msgs[1].Role != "user" {
		t.Fatalf("second role = %s, want user", msgs[1].Role)
	}
	if !strings.Contains(msgs[1].Content, "### INPUT TEXT (anchor base)") {
		t.Fatal("user message missing input-text section")
	}
	if !strings.Contains(msgs[1].Content, "지금 어디야") {
		t.Fatal("user message missing the full text")
	}
	if !strings.Contains(msgs[1].Content, "### SEGMENTS (json)") {
		t.Fatal("user message missing segments section")
	}
}

func TestBuild_UnmarshalableSegments(t *testing.T) {
	if _, err := Build("text", func() {}); err == nil {
		t.Fatal("Build() accepted unmarshalable segments")
	}
}
