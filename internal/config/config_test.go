package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evidon/internal/trial"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EVIDON_DATA_DIR", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, trial.DefaultMaxEvidence, cfg.Trial.MaxEvidence)
	assert.Equal(t, trial.DefaultLimits(), cfg.Trial.Limits)
	assert.Equal(t, 1, cfg.Eval.Parallelism)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EVIDON_DATA_DIR", "")

	path := filepath.Join(t.TempDir(), "evidon.yaml")
	cfg := DefaultConfig()
	cfg.DataDir = "/var/lib/evidon"
	cfg.LLM.Provider = "gemini"
	cfg.LLM.Model = "gemini-2.5-flash"
	cfg.Trial.Limits.FullTextMaxChars = 500
	cfg.Eval.Parallelism = 4
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/evidon", loaded.DataDir)
	assert.Equal(t, "gemini", loaded.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", loaded.LLM.Model)
	assert.Equal(t, 500, loaded.Trial.Limits.FullTextMaxChars)
	assert.Equal(t, 240, loaded.Trial.Limits.EvidenceSpanMaxChars)
	assert.Equal(t, 4, loaded.Eval.Parallelism)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("EVIDON_DATA_DIR", "/tmp/evidon-data")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini", cfg.LLM.Provider, "api key in env flips the mock provider")
	assert.Equal(t, "/tmp/evidon-data", cfg.DataDir)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: [unclosed"), 0o644))

	if _, err := Load(path); err == nil {
		t.Fatal("Load() accepted malformed yaml")
	}
}
