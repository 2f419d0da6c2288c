package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"evidon/internal/anchor"
)

// AnchorFileStore writes collected anchor lists as JSON files under
// <dataDir>/anchors/<schema_version>/<input_hash>.json.
type AnchorFileStore struct {
	dataDir string
	log     *zap.Logger
}

// NewAnchorFileStore builds a store rooted at dataDir.
func NewAnchorFileStore(dataDir string, log *zap.Logger) *AnchorFileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnchorFileStore{dataDir: dataDir, log: log}
}

type anchorPayload struct {
	SchemaVersion string           `json:"schema_version"`
	InputHash     string           `json:"input_hash"`
	Anchors       []anchor.Located `json:"anchors"`
	CreatedAt     time.Time        `json:"created_at"`
}

// SaveAnchors implements the pipeline's AnchorStore boundary.
func (s *AnchorFileStore) SaveAnchors(schemaVersion, inputHash string, anchors []anchor.Located) error {
	path := filepath.Join(s.dataDir, "anchors", schemaVersion, inputHash+".json")
	payload := anchorPayload{
		SchemaVersion: schemaVersion,
		InputHash:     inputHash,
		Anchors:       anchors,
		CreatedAt:     time.Now().UTC(),
	}
	if err := SaveJSON(path, payload); err != nil {
		return fmt.Errorf("save anchors: %w", err)
	}
	s.log.Debug("anchors saved",
		zap.String("path", path),
		zap.Int("count", len(anchors)))
	return nil
}

// LoadAnchors reads back a persisted anchor list.
func (s *AnchorFileStore) LoadAnchors(schemaVersion, inputHash string) ([]anchor.Located, error) {
	path := filepath.Join(s.dataDir, "anchors", schemaVersion, inputHash+".json")
	var payload anchorPayload
	ok, err := LoadJSON(path, &payload)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return payload.Anchors, nil
}

// SaveJSON writes v as indented JSON at path, creating parent
// directories as needed.
func SaveJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadJSON decodes the file at path into v. Returns (false, nil) when
// the file does not exist.
func LoadJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}
