package tags

import "evidon/internal/validator"

// Validate meta-validates a run's evidence tags into the verdict that
// gates the requirement state machine.
//
// STRUCT_INVALID fails immediately and short-circuits every other check.
// Anchor findings are mutually exclusive, ambiguous before not-found.
// Everything else only warns; pass means no messages at all.
func Validate(ts []Tag) validator.Result {
	if len(ts) == 0 {
		return validator.Result{
			Status: validator.StatusWarn,
			Messages: []validator.Message{{
				Code: "W_NO_TAGS",
				Text: "no evidence tags provided",
			}},
		}
	}

	set := NewSet(ts)
	var messages []validator.Message

	if set.Has(StructInvalid) {
		return validator.Result{
			Status: validator.StatusFail,
			Messages: []validator.Message{{
				Code:  "E_STRUCT_INVALID",
				Field: "structure",
				Text:  withNote("structured output is invalid", set.Note(StructInvalid)),
			}},
		}
	}

	switch {
	case set.Has(AnchorAmbiguous):
		messages = append(messages, validator.Message{
			Code:  "W_ANCHOR_AMBIGUOUS",
			Field: "anchor",
			Text:  withNote("anchor match is ambiguous", set.Note(AnchorAmbiguous)),
		})
	case set.Has(AnchorNotFound):
		messages = append(messages, validator.Message{
			Code:  "W_ANCHOR_NOT_FOUND",
			Field: "anchor",
			Text:  withNote("no reproducible anchor match", set.Note(AnchorNotFound)),
		})
	}

	if set.Has(ConfidenceWithoutAnchor) {
		messages = append(messages, validator.Message{
			Code:  "W_CONFIDENCE_WITHOUT_ANCHOR",
			Field: "confidence",
			Text:  "confidence is present without reproducible anchor",
		})
	}

	if !set.Has(StructValid) && !set.Has(StructInvalid) {
		messages = append(messages, validator.Message{
			Code: "W_TAGS_INCOMPLETE",
			Text: "structure validity tag is missing",
		})
	}

	status := validator.StatusPass
	if len(messages) > 0 {
		status = validator.StatusWarn
	}
	return validator.Result{Status: status, Messages: messages}
}

func withNote(text, note string) string {
	if note == "" {
		return text
	}
	return text + " (" + note + ")"
}
