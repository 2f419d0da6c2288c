package llm

import (
	"context"
	"encoding/json"

	"evidon/internal/schema"
)

// MockClient returns the canonical all-unknown, all-low-confidence
// evidence document regardless of input. Useful for offline runs and as
// the eval harness default.
type MockClient struct{}

// Generate implements Client.
func (MockClient) Generate(_ context.Context, _ []Message) (string, error) {
	raw, err := json.Marshal(mockDocument())
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func mockDocument() map[string]any {
	lowField := func(value any) map[string]any {
		return map[string]any{
			"value":           value,
			"confidence":      string(schema.ConfidenceLow),
			"evidence_span":   nil,
			"evidence_anchor": nil,
		}
	}

	return map[string]any{
		"evidence_metadata": lowField(map[string]any{
			"evidence_type": "text",
			"source":        "unknown",
			"sources":       []any{"unknown"},
			"created_at":    "unknown",
		}),
		"parties": lowField(map[string]any{
			"actor":        "unknown",
			"target":       "unknown",
			"relationship": "unknown",
		}),
		"period":            lowField("unknown"),
		"frequency":         lowField("unknown"),
		"channel":           lowField([]any{"unknown"}),
		"locations":         lowField([]any{"unknown"}),
		"action_types":      lowField([]any{}),
		"refusal_signal":    lowField("unknown"),
		"threat_indicators": lowField([]any{}),
		"impact_on_victim":  lowField([]any{}),
		"report_or_record":  lowField("unknown"),
	}
}
