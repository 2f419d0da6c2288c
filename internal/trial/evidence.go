package trial

import (
	"evidon/internal/schema"
	"evidon/internal/tags"
	"evidon/internal/validator"
)

// DefaultMaxEvidence is the standard evidence-pool cap. The output
// validator independently enforces a hard cap of three items per signal.
const DefaultMaxEvidence = 3

// FromDocument derives the evidence-mode signals (evidence_strength,
// clarity, safety) from an anchored, validated, tagged structured
// document. doc is the anchored document as decoded JSON.
func FromDocument(doc any, ts []tags.Tag, maxEvidence int, lim Limits) Output {
	if maxEvidence <= 0 {
		maxEvidence = DefaultMaxEvidence
	}
	tagValidation := tags.Validate(ts)
	set := tags.NewSet(ts)

	pool, confidences := evidencePool(doc, maxEvidence)

	strength := strengthSignal(pool, confidences)
	clarity := claritySignal(set)
	safety := safetySignal(tagValidation)

	pool, poolTruncated := truncateEvidence(pool, lim.EvidenceSpanMaxChars)
	strength.Evidence = pool
	clarity.Evidence = pool
	safety.Evidence = pool

	signals := []Signal{strength, clarity, safety}
	for i := range signals {
		if poolTruncated {
			signals[i].ReasonCodes = append(signals[i].ReasonCodes, CodeEvidenceTruncated)
		}
		signals[i].ReasonCodes = capReasonCodes(signals[i].ReasonCodes, lim.ReasonCodesMaxItems)
	}

	summary, _ := truncateRunes("TRIAL signals v0 (evidence)", lim.SummaryMaxChars)
	return Output{
		Mode:    ModeEvidence,
		Version: Version,
		Summary: summary,
		Signals: signals,
	}
}

// evidencePool pulls up to max fields carrying a non-null evidence_span,
// fixed schema keys in declaration order first, and records each pooled
// field's confidence grade. Fields that are not objects are skipped
// individually; a malformed sibling never empties the pool.
func evidencePool(doc any, max int) ([]Evidence, []schema.Confidence) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, nil
	}
	typed := schema.ParseDocumentLenient(obj)

	var pool []Evidence
	var confidences []schema.Confidence
	for _, nf := range typed.Fields() {
		if nf.Field.EvidenceSpan == nil {
			continue
		}
		pool = append(pool, Evidence{
			EvidenceSpan:   *nf.Field.EvidenceSpan,
			EvidenceAnchor: nf.Field.EvidenceAnchor,
			Source:         "structuring",
			SourceField:    nf.Key,
		})
		confidences = append(confidences, nf.Field.Confidence)
		if len(pool) >= max {
			break
		}
	}
	return pool, confidences
}

func strengthSignal(pool []Evidence, confidences []schema.Confidence) Signal {
	switch {
	case len(pool) == 0:
		return Signal{
			Name:        SignalEvidenceStrength,
			Level:       LevelRisk,
			ReasonCodes: []string{"E_NO_EVIDENCE_POOL"},
		}
	case hasConfidence(confidences, schema.ConfidenceLow):
		return Signal{
			Name:        SignalEvidenceStrength,
			Level:       LevelRisk,
			ReasonCodes: []string{"E_CONFIDENCE_LOW_PRESENT"},
		}
	case hasConfidence(confidences, schema.ConfidenceMedium):
		return Signal{
			Name:        SignalEvidenceStrength,
			Level:       LevelWarning,
			ReasonCodes: []string{"E_CONFIDENCE_MEDIUM_PRESENT"},
		}
	default:
		return Signal{
			Name:        SignalEvidenceStrength,
			Level:       LevelSafe,
			ReasonCodes: []string{"E_CONFIDENCE_HIGH_ONLY"},
		}
	}
}

func hasConfidence(confidences []schema.Confidence, want schema.Confidence) bool {
	for _, c := range confidences {
		if c == want {
			return true
		}
	}
	return false
}

func claritySignal(set tags.Set) Signal {
	var level string
	var codes []string
	switch {
	case set.Has(tags.StructInvalid):
		level, codes = LevelRisk, []string{"E_STRUCT_INVALID"}
	case set.Has(tags.AnchorOK):
		level, codes = LevelSafe, []string{"E_ANCHOR_OK"}
	case set.Has(tags.AnchorAmbiguous):
		level, codes = LevelWarning, []string{"W_ANCHOR_AMBIGUOUS"}
	case set.Has(tags.AnchorNotFound):
		level, codes = LevelWarning, []string{"W_ANCHOR_NOT_FOUND"}
	default:
		level, codes = LevelWarning, []string{"W_ANCHOR_STATE_UNKNOWN"}
	}
	return Signal{Name: SignalClarity, Level: level, ReasonCodes: codes}
}

// safetySignal mirrors the tag-validation verdict, folding the tag
// validator's own message codes into the reasoning.
func safetySignal(tagValidation validator.Result) Signal {
	switch tagValidation.Status {
	case validator.StatusFail:
		return Signal{
			Name:        SignalSafety,
			Level:       LevelRisk,
			ReasonCodes: append([]string{"E_TAG_VALIDATION_FAIL"}, tagValidation.Codes()...),
		}
	case validator.StatusWarn:
		return Signal{
			Name:        SignalSafety,
			Level:       LevelWarning,
			ReasonCodes: append([]string{"W_TAG_VALIDATION_WARN"}, tagValidation.Codes()...),
		}
	default:
		return Signal{
			Name:        SignalSafety,
			Level:       LevelSafe,
			ReasonCodes: []string{"P_TAG_VALIDATION_PASS"},
		}
	}
}
