// Package llm is the model-call boundary: structuring messages in, one
// evidence-document JSON string out. Retries and timeouts are the
// caller's concern; the pipeline treats the client as opaque.
package llm

import "context"

// Message is one chat turn handed to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client generates a single JSON document as text from a message list.
type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}
