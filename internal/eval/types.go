// Package eval runs named suites of pipeline cases and compares each
// outcome against an expected requirement-state / event-policy /
// tag-validation triple.
package eval

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SuiteVersion is the suite file format this runner accepts.
const SuiteVersion = "evalset_v0"

// InputKind selects how a case feeds the pipeline.
type InputKind string

const (
	InputText        InputKind = "text"
	InputStructuring InputKind = "structuring_input"
)

// Input is one case's pipeline input: either raw text (run through the
// mock transcriber) or a ready structuring input.
type Input struct {
	Kind InputKind `yaml:"kind" json:"kind"`
	Text string    `yaml:"text,omitempty" json:"text,omitempty"`

	StructuringInput *StructuringInputSpec `yaml:"structuring_input,omitempty" json:"structuring_input,omitempty"`
}

// StructuringInputSpec mirrors structuring.Input for suite files.
type StructuringInputSpec struct {
	Modality   string        `yaml:"modality" json:"modality"`
	SourceType string        `yaml:"source_type" json:"source_type"`
	Language   string        `yaml:"language,omitempty" json:"language,omitempty"`
	FullText   string        `yaml:"full_text" json:"full_text"`
	Segments   []SegmentSpec `yaml:"segments" json:"segments"`
}

// SegmentSpec is one suite-file segment.
type SegmentSpec struct {
	Text  string  `yaml:"text" json:"text"`
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// ExpectedRequirementState constrains the state and (a subset of) its
// reason codes.
type ExpectedRequirementState struct {
	State              string   `yaml:"state" json:"state"`
	ReasonCodesContain []string `yaml:"reason_codes_contains,omitempty" json:"reason_codes_contains,omitempty"`
}

// ExpectedEventIO constrains the event policy. Nil pointers mean
// "don't care".
type ExpectedEventIO struct {
	Policy         string  `yaml:"policy" json:"policy"`
	CanCreateEvent *bool   `yaml:"can_create_event,omitempty" json:"can_create_event,omitempty"`
	CautionTag     *string `yaml:"caution_tag,omitempty" json:"caution_tag,omitempty"`
}

// ExpectedTagValidation constrains the tag-validation verdict.
type ExpectedTagValidation struct {
	Status       string   `yaml:"status,omitempty" json:"status,omitempty"`
	CodesContain []string `yaml:"codes_contains,omitempty" json:"codes_contains,omitempty"`
}

// Expected is the full per-case contract.
type Expected struct {
	RequirementState ExpectedRequirementState `yaml:"requirement_state" json:"requirement_state"`
	EventIO          ExpectedEventIO          `yaml:"event_io" json:"event_io"`
	TagValidation    *ExpectedTagValidation   `yaml:"tag_validation,omitempty" json:"tag_validation,omitempty"`
}

// Case is one evaluation case. MockModelOutput, when set, replaces the
// model call with a fixed document.
type Case struct {
	CaseID          string         `yaml:"case_id" json:"case_id"`
	Input           Input          `yaml:"input" json:"input"`
	Expected        Expected       `yaml:"expected" json:"expected"`
	MockModelOutput map[string]any `yaml:"mock_llm_output_json,omitempty" json:"mock_llm_output_json,omitempty"`
}

// Suite is a named set of cases.
type Suite struct {
	Version string `yaml:"version" json:"version"`
	Name    string `yaml:"name" json:"name"`
	Cases   []Case `yaml:"cases" json:"cases"`
}

// LoadSuite reads and validates a suite file (YAML, which also accepts
// the JSON form).
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", path, err)
	}
	if suite.Version != SuiteVersion {
		return nil, fmt.Errorf("suite %s: unsupported version %q", path, suite.Version)
	}
	return &suite, nil
}
