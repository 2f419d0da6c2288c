package trial

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"evidon/internal/store"
	"evidon/internal/tags"
)

// FileCache persists evidence-mode signal outputs as JSON files keyed by
// input hash plus the truncation-budget tag, so runs under different
// budgets never collide.
type FileCache struct {
	dataDir string
	log     *zap.Logger
}

// NewFileCache builds a cache rooted at dataDir.
func NewFileCache(dataDir string, log *zap.Logger) *FileCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileCache{dataDir: dataDir, log: log}
}

type cachePayload struct {
	Metadata cacheMetadata `json:"_metadata"`
	Result   Output        `json:"result"`
}

type cacheMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	PromptVersion string    `json:"prompt_version"`
	TrialVersion  string    `json:"trial_version"`
	Mode          Mode      `json:"mode"`
	InputHash     string    `json:"input_hash"`
	MaxEvidence   int       `json:"max_evidence"`
	Limits        Limits    `json:"limits"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *FileCache) path(inputHash string, maxEvidence int, lim Limits) string {
	filename := fmt.Sprintf("signals__mode_evidence__m%d__%s.json", maxEvidence, lim.Tag())
	return filepath.Join(c.dataDir, "trial_signals", Version, inputHash, filename)
}

// GetOrCreate returns the cached evidence-mode output for inputHash
// under these budgets, generating and persisting it on a miss. The
// second return reports a cache hit.
func (c *FileCache) GetOrCreate(
	inputHash, schemaVersion, promptVersion string,
	doc any, ts []tags.Tag,
	maxEvidence int, lim Limits,
) (Output, bool, error) {
	if maxEvidence <= 0 {
		maxEvidence = DefaultMaxEvidence
	}
	path := c.path(inputHash, maxEvidence, lim)

	var cached cachePayload
	ok, err := store.LoadJSON(path, &cached)
	if err != nil {
		return Output{}, false, fmt.Errorf("load trial signals: %w", err)
	}
	if ok {
		c.log.Debug("trial signals served from cache", zap.String("path", path))
		return cached.Result, true, nil
	}

	out := FromDocument(doc, ts, maxEvidence, lim)

	payload := cachePayload{
		Metadata: cacheMetadata{
			SchemaVersion: schemaVersion,
			PromptVersion: promptVersion,
			TrialVersion:  Version,
			Mode:          ModeEvidence,
			InputHash:     inputHash,
			MaxEvidence:   maxEvidence,
			Limits:        lim,
			CreatedAt:     time.Now().UTC(),
		},
		Result: out,
	}
	if err := store.SaveJSON(path, payload); err != nil {
		return Output{}, false, fmt.Errorf("save trial signals: %w", err)
	}
	return out, false, nil
}
