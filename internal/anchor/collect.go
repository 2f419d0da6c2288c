package anchor

import (
	"fmt"
	"sort"

	"evidon/internal/schema"
)

// Located is one collected span/anchor pair with its JSONPath-style
// location, the unit persisted to anchor storage per run.
type Located struct {
	JSONPath       string         `json:"json_path"`
	EvidenceSpan   *string        `json:"evidence_span"`
	EvidenceAnchor *schema.Anchor `json:"evidence_anchor"`
}

// Collect walks an already-anchored document and returns a flat list of
// every node that carries an "evidence_anchor" key, anchored or not.
// Object keys are visited in lexicographic order so output is stable.
func Collect(doc any) []Located {
	var out []Located
	collectWalk(doc, "$", &out, 0)
	return out
}

func collectWalk(node any, path string, out *[]Located, depth int) {
	if depth >= maxWalkDepth {
		return
	}
	switch n := node.(type) {
	case map[string]any:
		if _, ok := n["evidence_anchor"]; ok {
			entry := Located{JSONPath: path}
			if span, ok := n["evidence_span"].(string); ok {
				entry.EvidenceSpan = &span
			}
			if raw, ok := n["evidence_anchor"].(map[string]any); ok {
				if a, err := schema.ParseAnchor(raw); err == nil {
					a.Modality = schema.ModalityText
					entry.EvidenceAnchor = a
				}
			}
			*out = append(*out, entry)
		}
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			collectWalk(n[k], path+"."+k, out, depth+1)
		}
	case []any:
		for i, v := range n {
			collectWalk(v, fmt.Sprintf("%s[%d]", path, i), out, depth+1)
		}
	}
}

// Stats summarizes one run's anchor matching. Recomputed every run,
// never persisted on its own.
type Stats struct {
	TotalSpans          int `json:"total_spans"`
	MatchedSpans        int `json:"matched_spans"`
	PartialMatchedSpans int `json:"partial_matched_spans"`
	UnmatchedSpans      int `json:"unmatched_spans"`
}

// StatsOf derives matching statistics from a collected anchor list.
func StatsOf(located []Located) Stats {
	s := Stats{TotalSpans: len(located)}
	for _, l := range located {
		if l.EvidenceAnchor != nil {
			s.MatchedSpans++
		} else {
			s.UnmatchedSpans++
		}
	}
	return s
}
