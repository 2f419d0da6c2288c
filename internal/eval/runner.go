package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"evidon/internal/anchor"
	"evidon/internal/llm"
	"evidon/internal/requirement"
	"evidon/internal/stt"
	"evidon/internal/structuring"
	"evidon/internal/validator"
)

// CaseStatus mirrors the validation vocabulary: fail on contract
// mismatch, warn when the pipeline only warned, pass otherwise.
type CaseStatus string

const (
	CasePass CaseStatus = "pass"
	CaseWarn CaseStatus = "warn"
	CaseFail CaseStatus = "fail"
)

// UsageMetrics is the per-case resource summary.
type UsageMetrics struct {
	DurationMS  int64 `json:"duration_ms"`
	InputChars  int   `json:"input_chars"`
	OutputChars int   `json:"output_chars"`
	CacheHit    bool  `json:"cache_hit"`
}

// CaseResult is one executed case.
type CaseResult struct {
	CaseID      string       `json:"case_id"`
	Status      CaseStatus   `json:"status"`
	ReasonCodes []string     `json:"reason_codes"`
	Err         string       `json:"error,omitempty"`
	Usage       UsageMetrics `json:"usage_metrics"`
}

// Report aggregates a suite run.
type Report struct {
	Suite  string       `json:"suite"`
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Warned int          `json:"warned"`
	Failed int          `json:"failed"`
}

// OK reports whether no case failed.
func (r *Report) OK() bool { return r.Failed == 0 }

// Runner executes eval suites against the structuring pipeline.
type Runner struct {
	// Client overrides the per-case model client; when nil, cases use
	// their fixture output or the canonical mock.
	Client llm.Client
	// Cache is handed to every case's pipeline; optional.
	Cache structuring.Cache
	// Parallelism bounds concurrent cases; <=1 runs sequentially.
	Parallelism int
	Log         *zap.Logger
}

// RunSuite executes every case and aggregates the report. Case order in
// the report matches suite order regardless of parallelism.
func (r *Runner) RunSuite(ctx context.Context, suite *Suite) (*Report, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	report := &Report{
		Suite: suite.Name,
		Cases: make([]CaseResult, len(suite.Cases)),
	}

	g, ctx := errgroup.WithContext(ctx)
	limit := r.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	var mu sync.Mutex
	for i, c := range suite.Cases {
		g.Go(func() error {
			result := r.runCase(ctx, c)
			mu.Lock()
			report.Cases[i] = result
			mu.Unlock()
			log.Info("eval case finished",
				zap.String("case_id", c.CaseID),
				zap.String("status", string(result.Status)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, c := range report.Cases {
		switch c.Status {
		case CasePass:
			report.Passed++
		case CaseWarn:
			report.Warned++
		default:
			report.Failed++
		}
	}
	return report, nil
}

func (r *Runner) runCase(ctx context.Context, c Case) CaseResult {
	in, err := r.buildInput(ctx, c)
	if err != nil {
		return CaseResult{
			CaseID:      c.CaseID,
			Status:      CaseFail,
			ReasonCodes: []string{"E_CASE_INPUT"},
			Err:         err.Error(),
		}
	}

	pipeline := structuring.NewPipeline(
		r.clientFor(c),
		anchor.ExactMatcher{},
		structuring.NewSchemaValidator(nil),
		structuring.Options{Cache: r.Cache},
	)

	start := time.Now()
	result, ts, err := pipeline.RunWithTags(ctx, in)
	if err != nil {
		// Pipeline exceptions are hard failures with the error identity
		// preserved as a reason code.
		return CaseResult{
			CaseID:      c.CaseID,
			Status:      CaseFail,
			ReasonCodes: []string{"E_PIPELINE_ERROR"},
			Err:         err.Error(),
		}
	}

	svc := requirement.Evaluate(ts, nil)
	mismatches := compareCase(c, svc)

	status := CasePass
	switch {
	case len(mismatches) > 0:
		status = CaseFail
	case svc.TagValidation.Status == validator.StatusWarn:
		status = CaseWarn
	}

	codes := mismatches
	codes = appendUnique(codes, svc.State.ReasonCodes...)
	codes = appendUnique(codes, svc.TagValidation.Codes()...)

	return CaseResult{
		CaseID:      c.CaseID,
		Status:      status,
		ReasonCodes: codes,
		Usage: UsageMetrics{
			DurationMS:  time.Since(start).Milliseconds(),
			InputChars:  len([]rune(in.FullText)),
			OutputChars: jsonChars(result.OutputJSON),
			CacheHit:    result.CacheHit,
		},
	}
}

func (r *Runner) buildInput(ctx context.Context, c Case) (structuring.Input, error) {
	switch c.Input.Kind {
	case InputText:
		transcript, err := stt.MockEngine{}.Transcribe(ctx, c.Input.Text)
		if err != nil {
			return structuring.Input{}, err
		}
		return structuring.FromSTT(transcript), nil
	case InputStructuring:
		spec := c.Input.StructuringInput
		if spec == nil {
			return structuring.Input{}, fmt.Errorf("case %s: structuring_input is required", c.CaseID)
		}
		segments := make([]structuring.Segment, len(spec.Segments))
		for i, s := range spec.Segments {
			segments[i] = structuring.Segment{Text: s.Text, Start: s.Start, End: s.End}
		}
		return structuring.Input{
			Modality:   spec.Modality,
			SourceType: structuring.SourceType(spec.SourceType),
			Language:   spec.Language,
			FullText:   spec.FullText,
			Segments:   segments,
		}, nil
	default:
		return structuring.Input{}, fmt.Errorf("case %s: unknown input kind %q", c.CaseID, c.Input.Kind)
	}
}

func (r *Runner) clientFor(c Case) llm.Client {
	if c.MockModelOutput != nil {
		return fixtureClient{doc: c.MockModelOutput}
	}
	if r.Client != nil {
		return r.Client
	}
	return llm.MockClient{}
}

// fixtureClient replays a case's canned model output.
type fixtureClient struct {
	doc map[string]any
}

func (f fixtureClient) Generate(_ context.Context, _ []llm.Message) (string, error) {
	raw, err := json.Marshal(f.doc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func appendUnique(dst []string, codes ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, c := range dst {
		seen[c] = struct{}{}
	}
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		dst = append(dst, c)
	}
	return dst
}

func jsonChars(v any) int {
	raw, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len([]rune(string(raw)))
}
