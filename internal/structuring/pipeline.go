package structuring

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evidon/internal/anchor"
	"evidon/internal/llm"
	"evidon/internal/prompt"
	"evidon/internal/tags"
	"evidon/internal/trial"
)

// Cache is the externally-provided structured-result cache: get/set by
// content hash, no ordering guarantee across concurrent callers. Two
// concurrent identical requests may both hit the model.
type Cache interface {
	Get(key string) (any, bool, error)
	Set(key string, doc any) error
}

// AnchorStore persists the collected anchor list for one run.
type AnchorStore interface {
	SaveAnchors(schemaVersion, inputHash string, anchors []anchor.Located) error
}

// Options carries the optional pipeline collaborators.
type Options struct {
	Cache   Cache
	Anchors AnchorStore
	Logger  *zap.Logger
}

// Pipeline runs one structuring request end to end. All stages after
// the model call are deterministic, side-effect-free transforms, so a
// Pipeline is safe to share across goroutines.
type Pipeline struct {
	client    llm.Client
	matcher   anchor.Matcher
	validator DocumentValidator
	cache     Cache
	anchors   AnchorStore
	log       *zap.Logger
}

// NewPipeline wires a pipeline. Cache and anchor store are optional.
func NewPipeline(client llm.Client, matcher anchor.Matcher, validator DocumentValidator, opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		client:    client,
		matcher:   matcher,
		validator: validator,
		cache:     opts.Cache,
		anchors:   opts.Anchors,
		log:       log,
	}
}

// Run executes: cache check, model call, anchor application, anchor
// collection and persistence, then validation.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	var (
		cacheKey string
		output   any
		cacheHit bool
	)

	if p.cache != nil || p.anchors != nil {
		cacheKey = InputHash(in, SchemaVersion, PromptVersion)
	}

	if p.cache != nil {
		cached, ok, err := p.cache.Get(cacheKey)
		if err != nil {
			return nil, fmt.Errorf("cache get: %w", err)
		}
		if ok {
			output = cached
			cacheHit = true
			p.log.Debug("structured result served from cache", zap.String("key", cacheKey))
		}
	}

	if output == nil {
		var err error
		output, err = p.callModel(ctx, in)
		if err != nil {
			return nil, err
		}
		if p.cache != nil {
			if err := p.cache.Set(cacheKey, output); err != nil {
				return nil, fmt.Errorf("cache set: %w", err)
			}
		}
	}

	anchored := anchor.Apply(output, in.FullText, p.matcher)
	located := anchor.Collect(anchored)
	stats := anchor.StatsOf(located)

	if p.anchors != nil {
		if err := p.anchors.SaveAnchors(SchemaVersion, cacheKey, located); err != nil {
			return nil, fmt.Errorf("save anchors: %w", err)
		}
	}

	validation, raw := p.validator.Validate(anchored)

	runID := cacheKey
	if runID == "" {
		runID = uuid.NewString()
	}

	p.log.Info("structuring run complete",
		zap.String("run_id", runID),
		zap.Bool("cache_hit", cacheHit),
		zap.Int("total_spans", stats.TotalSpans),
		zap.Int("matched_spans", stats.MatchedSpans),
		zap.String("validation", validation.Status))

	return &Result{
		OutputJSON:    anchored,
		CacheHit:      cacheHit,
		AnchorStats:   stats,
		Validation:    validation,
		RunID:         runID,
		RawValidation: raw,
	}, nil
}

// RunWithTags runs the pipeline and generates the evidence tags.
func (p *Pipeline) RunWithTags(ctx context.Context, in Input) (*Result, []tags.Tag, error) {
	result, err := p.Run(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return result, tags.Generate(result.AnchorStats, result.RawValidation, result.OutputJSON), nil
}

// RunWithTrialSignals additionally derives evidence-mode trial signals.
func (p *Pipeline) RunWithTrialSignals(ctx context.Context, in Input, maxEvidence int, lim trial.Limits) (*Result, []tags.Tag, *trial.Output, error) {
	result, ts, err := p.RunWithTags(ctx, in)
	if err != nil {
		return nil, nil, nil, err
	}
	out := trial.FromDocument(result.OutputJSON, ts, maxEvidence, lim)
	return result, ts, &out, nil
}

func (p *Pipeline) callModel(ctx context.Context, in Input) (any, error) {
	messages, err := prompt.Build(in.FullText, in.Segments)
	if err != nil {
		return nil, err
	}
	raw, err := p.client.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}
	var output any
	if err := json.Unmarshal([]byte(raw), &output); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	return output, nil
}
