package trial

import (
	"fmt"
	"regexp"

	"evidon/internal/validator"
)

var reasonCodeRe = regexp.MustCompile(`^[TEWP]_[A-Z0-9_]+$`)

var textNames = map[string]bool{
	SignalRepetition: true,
	SignalThreat:     true,
	SignalRefusal:    true,
}

var evidenceNames = map[string]bool{
	SignalEvidenceStrength: true,
	SignalClarity:          true,
	SignalSafety:           true,
}

var textLevels = map[string]bool{
	LevelInsufficient: true,
	LevelWarning:      true,
	LevelSufficient:   true,
}

var evidenceLevels = map[string]bool{
	LevelRisk:    true,
	LevelWarning: true,
	LevelSafe:    true,
}

// maxOutputEvidence is the hard per-signal evidence cap this validator
// enforces, independent of the generator's pool size.
const maxOutputEvidence = 3

// ValidateOutput structurally checks a trial-signal output: version,
// exact signal name set per mode, non-empty well-formed reason codes,
// allowed levels, and the evidence cap. Levels are never re-derived.
// Under the current aggregation no path reaches fail: any finding,
// E_-coded included, yields warn.
func ValidateOutput(out Output) validator.Result {
	var messages []validator.Message

	if out.Version != Version {
		messages = append(messages, validator.Message{
			Code:  "E_VERSION",
			Field: "version",
			Text:  fmt.Sprintf("unexpected version: %s", out.Version),
		})
	}

	switch out.Mode {
	case ModeText:
		messages = append(messages, checkSignals(out.Signals, textNames, textLevels, false,
			"text mode must contain exactly repetition/threat/refusal")...)
	case ModeEvidence:
		messages = append(messages, checkSignals(out.Signals, evidenceNames, evidenceLevels, true,
			"evidence mode must contain exactly evidence_strength/clarity/safety")...)
	default:
		messages = append(messages, validator.Message{
			Code:  "E_MODE",
			Field: "mode",
			Text:  fmt.Sprintf("unexpected mode: %s", out.Mode),
		})
	}

	status := validator.StatusPass
	if len(messages) > 0 {
		status = validator.StatusWarn
	}
	return validator.Result{Status: status, Messages: messages}
}

func checkSignals(signals []Signal, names, levels map[string]bool, capEvidence bool, setText string) []validator.Message {
	var messages []validator.Message

	if !exactNameSet(signals, names) {
		messages = append(messages, validator.Message{
			Code:  "E_SIGNAL_SET",
			Field: "signals",
			Text:  setText,
		})
	}

	for _, s := range signals {
		if len(s.ReasonCodes) == 0 {
			messages = append(messages, validator.Message{
				Code:  "E_REASON_CODES_EMPTY",
				Field: fmt.Sprintf("signals[%s].reason_codes", s.Name),
				Text:  "reason_codes must be non-empty",
			})
		} else {
			for _, rc := range s.ReasonCodes {
				if !reasonCodeRe.MatchString(rc) {
					messages = append(messages, validator.Message{
						Code:  "W_REASON_CODE_FORMAT",
						Field: fmt.Sprintf("signals[%s].reason_codes", s.Name),
						Text:  fmt.Sprintf("reason_code must match ^[TEWP]_[A-Z0-9_]+$: %q", rc),
					})
				}
			}
		}

		if !levels[s.Level] {
			messages = append(messages, validator.Message{
				Code:  "E_LEVEL",
				Field: fmt.Sprintf("signals[%s].level", s.Name),
				Text:  fmt.Sprintf("invalid level: %s", s.Level),
			})
		}

		if capEvidence && len(s.Evidence) > maxOutputEvidence {
			messages = append(messages, validator.Message{
				Code:  "E_MAX_EVIDENCE",
				Field: fmt.Sprintf("signals[%s].evidence", s.Name),
				Text:  "evidence list must be <= 3",
			})
		}
	}
	return messages
}

func exactNameSet(signals []Signal, want map[string]bool) bool {
	seen := make(map[string]bool, len(signals))
	for _, s := range signals {
		if !want[s.Name] {
			return false
		}
		seen[s.Name] = true
	}
	return len(seen) == len(want)
}
