// Package prompt builds the structuring messages sent across the model
// boundary. The system prompt ships embedded so a deployed binary needs
// no prompt files on disk.
package prompt

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"evidon/internal/llm"
)

//go:embed system_prompt_v0.txt
var systemPrompt string

// SystemPrompt returns the embedded structuring system prompt.
func SystemPrompt() string { return systemPrompt }

// Build assembles the two-message structuring conversation: the system
// prompt plus the anchor-base text and its segments as JSON. segments
// may be any JSON-marshalable slice.
func Build(fullText string, segments any) ([]llm.Message, error) {
	segmentsJSON, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal segments: %w", err)
	}

	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{
			Role: "user",
			Content: "### INPUT TEXT (anchor base)\n\n" +
				fullText +
				"\n\n### SEGMENTS (json)\n\n" +
				string(segmentsJSON),
		},
	}, nil
}
