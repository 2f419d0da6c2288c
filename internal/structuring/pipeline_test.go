package structuring

import (
	"context"
	"errors"
	"testing"

	"evidon/internal/anchor"
	"evidon/internal/llm"
	"evidon/internal/ocr"
	"evidon/internal/stt"
	"evidon/internal/tags"
)

// fixedClient returns a canned JSON payload and counts calls.
type fixedClient struct {
	payload string
	calls   int
}

func (c *fixedClient) Generate(context.Context, []llm.Message) (string, error) {
	c.calls++
	return c.payload, nil
}

type failingClient struct{}

func (failingClient) Generate(context.Context, []llm.Message) (string, error) {
	return "", errors.New("model unavailable")
}

// memCache is a map-backed Cache for tests.
type memCache struct {
	data map[string]any
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string]any)} }

func (c *memCache) Get(key string) (any, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(key string, doc any) error {
	c.sets++
	c.data[key] = doc
	return nil
}

type memAnchors struct {
	saved map[string][]anchor.Located
}

func (s *memAnchors) SaveAnchors(_, inputHash string, located []anchor.Located) error {
	if s.saved == nil {
		s.saved = make(map[string][]anchor.Located)
	}
	s.saved[inputHash] = located
	return nil
}

func textInput(fullText string) Input {
	return Input{
		Modality:   "text",
		SourceType: SourceSTT,
		Language:   "ko",
		FullText:   fullText,
		Segments:   []Segment{{Text: fullText, Start: 0, End: 1}},
	}
}

const anchoredPayload = `{
	"channel": {
		"value": "전화",
		"confidence": "high",
		"evidence_span": "전화했다",
		"evidence_anchor": null
	}
}`

func TestPipeline_Run_AnchorsAndValidates(t *testing.T) {
	client := &fixedClient{payload: anchoredPayload}
	p := NewPipeline(client, anchor.ExactMatcher{}, NewSchemaValidator(nil), Options{})

	result, err := p.Run(context.Background(), textInput("어제 전화했다"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.CacheHit {
		t.Fatal("CacheHit = true without a cache")
	}
	if result.AnchorStats.TotalSpans != 1 || result.AnchorStats.MatchedSpans != 1 {
		t.Fatalf("stats = %+v", result.AnchorStats)
	}
	// Only one top-level key: required keys are missing.
	if result.Validation.Status != "FAIL" {
		t.Fatalf("Validation.Status = %s, want FAIL", result.Validation.Status)
	}
	if len(result.Validation.ErrorCodes) == 0 || result.Validation.ErrorCodes[0] != "E_REQUIRED_KEY_MISSING" {
		t.Fatalf("ErrorCodes = %v", result.Validation.ErrorCodes)
	}
	if result.RunID == "" {
		t.Fatal("RunID is empty")
	}

	// The anchored output must carry the resolved anchor.
	doc := result.OutputJSON.(map[string]any)
	field := doc["channel"].(map[string]any)
	if field["evidence_anchor"] == nil {
		t.Fatal("evidence_anchor not resolved")
	}
}

func TestPipeline_Run_MockClientPasses(t *testing.T) {
	p := NewPipeline(llm.MockClient{}, anchor.ExactMatcher{}, NewSchemaValidator(nil), Options{})

	result, err := p.Run(context.Background(), textInput("지금 어디야"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Validation.Status != "PASS" {
		t.Fatalf("Validation = %+v, want PASS for canonical mock document", result.Validation)
	}
	if result.AnchorStats.TotalSpans != 0 {
		t.Fatalf("stats = %+v, want no spans in mock document", result.AnchorStats)
	}
}

func TestPipeline_Run_CacheRoundTrip(t *testing.T) {
	client := &fixedClient{payload: anchoredPayload}
	cache := newMemCache()
	p := NewPipeline(client, anchor.ExactMatcher{}, NewSchemaValidator(nil), Options{Cache: cache})

	in := textInput("어제 전화했다")

	first, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.CacheHit {
		t.Fatal("first run must miss")
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	second, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !second.CacheHit {
		t.Fatal("second run must hit")
	}
	if client.calls != 1 {
		t.Fatalf("model calls = %d, want 1", client.calls)
	}
	if first.RunID != second.RunID {
		t.Fatalf("run ids differ for identical input: %s vs %s", first.RunID, second.RunID)
	}
}

func TestPipeline_Run_PersistsAnchors(t *testing.T) {
	client := &fixedClient{payload: anchoredPayload}
	anchors := &memAnchors{}
	p := NewPipeline(client, anchor.ExactMatcher{}, NewSchemaValidator(nil), Options{Anchors: anchors})

	in := textInput("어제 전화했다")
	result, err := p.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	located, ok := anchors.saved[result.RunID]
	if !ok {
		t.Fatalf("anchors not saved under run id %s", result.RunID)
	}
	if len(located) != 1 || located[0].JSONPath != "$.channel" {
		t.Fatalf("saved anchors = %+v", located)
	}
}

func TestPipeline_Run_ModelError(t *testing.T) {
	p := NewPipeline(failingClient{}, anchor.ExactMatcher{}, NewSchemaValidator(nil), Options{})

	if _, err := p.Run(context.Background(), textInput("본문")); err == nil {
		t.Fatal("Run() error = nil, want model error")
	}
}

func TestPipeline_Run_BadModelJSON(t *testing.T) {
	client := &fixedClient{payload: "not json"}
	p := NewPipeline(client, anchor.ExactMatcher{}, NewSchemaValidator(nil), Options{})

	if _, err := p.Run(context.Background(), textInput("본문")); err == nil {
		t.Fatal("Run() error = nil, want parse error")
	}
}

func TestPipeline_RunWithTags(t *testing.T) {
	p := NewPipeline(llm.MockClient{}, anchor.ExactMatcher{}, NewSchemaValidator(nil), Options{})

	_, ts, err := p.RunWithTags(context.Background(), textInput("지금 어디야"))
	if err != nil {
		t.Fatalf("RunWithTags() error = %v", err)
	}

	set := tags.NewSet(ts)
	if !set.Has(tags.StructValid) {
		t.Fatal("want STRUCT_VALID for canonical mock document")
	}
	if !set.Has(tags.AnchorNotFound) {
		t.Fatal("want ANCHOR_NOT_FOUND when no spans exist")
	}
	if !set.Has(tags.ConfidencePresent) {
		t.Fatal("want CONFIDENCE_PRESENT")
	}
}

func TestFromSTT(t *testing.T) {
	r := &stt.Result{
		FullText: "지금 어디야 안 받으면 찾아갈 거야",
		Segments: []stt.Segment{
			{Start: 0, End: 2.5, Text: "지금 어디야"},
			{Start: 3.0, End: 6.2, Text: "안 받으면 찾아갈 거야"},
		},
		Language: "ko",
		Engine:   "mock",
	}

	in := FromSTT(r)
	if in.SourceType != SourceSTT || in.Modality != "text" {
		t.Fatalf("input = %+v", in)
	}
	if in.Language != "ko" {
		t.Fatalf("language = %q", in.Language)
	}
	if len(in.Segments) != 2 || in.Segments[1].Text != "안 받으면 찾아갈 거야" {
		t.Fatalf("segments = %+v", in.Segments)
	}
}

func TestFromOCR(t *testing.T) {
	r := &ocr.Result{
		FullText: "지금 어디야",
		Segments: []ocr.Segment{
			{Text: "지금 어디야"},
			{Text: "..."},
			{Text: "   "},
		},
		Language: "ko",
		Engine:   "mock",
	}

	in := FromOCR(r)
	if in.SourceType != SourceOCR {
		t.Fatalf("source = %s", in.SourceType)
	}
	// Punctuation-only and blank segments are dropped in preprocessing.
	if len(in.Segments) != 1 || in.Segments[0].Text != "지금 어디야" {
		t.Fatalf("segments = %+v", in.Segments)
	}
	if in.Segments[0].Start != 0 || in.Segments[0].End != 0 {
		t.Fatalf("missing time bounds not zero-filled: %+v", in.Segments[0])
	}
}
