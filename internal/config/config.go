// Package config holds the evidon configuration: data locations, model
// provider settings, trial-signal budgets, and eval options. Files are
// YAML; a few settings can be overridden from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"evidon/internal/trial"
)

// Config is the full evidon configuration.
type Config struct {
	// DataDir roots every persisted artifact (cache db, anchors,
	// trial signals).
	DataDir string `yaml:"data_dir"`

	LLM   LLMConfig   `yaml:"llm"`
	Trial TrialConfig `yaml:"trial"`
	Eval  EvalConfig  `yaml:"eval"`
}

// LLMConfig configures the model boundary.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, mock
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// TrialConfig configures trial-signal generation.
type TrialConfig struct {
	MaxEvidence int          `yaml:"max_evidence"`
	Limits      trial.Limits `yaml:"limits"`
}

// EvalConfig configures the eval harness.
type EvalConfig struct {
	Parallelism int `yaml:"parallelism"`
}

// DefaultConfig returns the standard settings.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "data",
		LLM: LLMConfig{
			Provider: "mock",
			Model:    "",
		},
		Trial: TrialConfig{
			MaxEvidence: trial.DefaultMaxEvidence,
			Limits:      trial.DefaultLimits(),
		},
		Eval: EvalConfig{
			Parallelism: 1,
		},
	}
}

// Load reads a config file and applies environment overrides. A missing
// file yields the defaults (still with overrides applied).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" || c.LLM.Provider == "mock" {
			c.LLM.Provider = "gemini"
		}
	}
	if dir := os.Getenv("EVIDON_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
}
