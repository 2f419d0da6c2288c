package structuring

import (
	"go.uber.org/zap"

	"evidon/internal/validator"
)

// DocumentValidator checks a decoded structuring output.
type DocumentValidator interface {
	Validate(doc any) (Validation, validator.Result)
}

// SchemaValidator is the standard document validator: schema existence,
// required top-level keys, and per-field confidence/evidence checks run
// through the rule engine.
type SchemaValidator struct {
	runner *validator.Runner
}

// NewSchemaValidator wires the standard rule set.
func NewSchemaValidator(log *zap.Logger) *SchemaValidator {
	return &SchemaValidator{
		runner: validator.NewRunner(log,
			validator.SchemaExists{},
			validator.RequiredTopLevelKeys{},
			validator.ConfidenceAndEvidence{},
		),
	}
}

// NewStrictSchemaValidator extends the standard rule set with the
// diagnostic rules: AnchorConsistency reports every span/anchor problem
// instead of stopping at the first, and ConfidencePolicy turns the
// confidence-evidence contract into a hard fail.
func NewStrictSchemaValidator(log *zap.Logger) *SchemaValidator {
	return &SchemaValidator{
		runner: validator.NewRunner(log,
			validator.SchemaExists{},
			validator.RequiredTopLevelKeys{},
			validator.ConfidenceAndEvidence{},
			validator.AnchorConsistency{},
			validator.ConfidencePolicy{},
		),
	}
}

// Validate implements DocumentValidator, returning both the pipeline
// summary and the underlying rule-engine result.
func (v *SchemaValidator) Validate(doc any) (Validation, validator.Result) {
	result := v.runner.Run(doc)

	summary := Validation{
		Status:     mapStatus(result.Status),
		ErrorCodes: result.Codes(),
	}
	if len(result.Messages) > 0 {
		head := result.Messages[0]
		summary.Message = head.Code + ": " + head.Text
	}
	return summary, result
}

func mapStatus(s validator.Status) string {
	switch s {
	case validator.StatusPass:
		return "PASS"
	case validator.StatusWarn:
		return "WARN"
	default:
		return "FAIL"
	}
}
