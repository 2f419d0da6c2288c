package anchor

import (
	"golang.org/x/text/unicode/norm"
)

// maxWalkDepth bounds recursion over model-produced JSON so a
// pathologically nested payload cannot blow the stack.
const maxWalkDepth = 32

// Apply deep-copies doc and, for every object node carrying a non-empty
// "evidence_span", writes the matcher's result into that node's
// "evidence_anchor" key (nil when no unique match). The caller's value is
// never mutated. Nodes nested deeper than the recursion budget are copied
// but not visited.
func Apply(doc any, fullText string, m Matcher) any {
	full := norm.NFC.String(fullText)
	copied := deepCopy(doc)
	applyWalk(copied, full, m, 0)
	return copied
}

func applyWalk(node any, fullText string, m Matcher, depth int) {
	if depth >= maxWalkDepth {
		return
	}
	switch n := node.(type) {
	case map[string]any:
		if span, ok := n["evidence_span"].(string); ok && span != "" {
			if a := m.Match(fullText, span); a != nil {
				n["evidence_anchor"] = map[string]any{
					"modality":   a.Modality,
					"start_char": a.StartChar,
					"end_char":   a.EndChar,
				}
			} else {
				n["evidence_anchor"] = nil
			}
		}
		for _, v := range n {
			applyWalk(v, fullText, m, depth+1)
		}
	case []any:
		for _, v := range n {
			applyWalk(v, fullText, m, depth+1)
		}
	}
}

func deepCopy(node any) any {
	switch n := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = deepCopy(v)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = deepCopy(v)
		}
		return out
	default:
		return n
	}
}
