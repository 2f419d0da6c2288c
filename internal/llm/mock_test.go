package llm

import (
	"context"
	"encoding/json"
	"testing"

	"evidon/internal/schema"
)

func TestMockClient_ProducesCompleteDocument(t *testing.T) {
	raw, err := MockClient{}.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("mock output is not JSON: %v", err)
	}

	for _, key := range schema.RequiredTopLevelKeys {
		field, ok := doc[key].(map[string]any)
		if !ok {
			t.Fatalf("key %q missing or not an object", key)
		}
		if field["confidence"] != string(schema.ConfidenceLow) {
			t.Fatalf("key %q confidence = %v, want low", key, field["confidence"])
		}
		if field["evidence_span"] != nil {
			t.Fatalf("key %q evidence_span = %v, want null", key, field["evidence_span"])
		}
	}
}
