// Package tags reduces a structuring run's anchor statistics, validation
// verdict, and confidence presence into a small set of discrete evidence
// tags, and meta-validates those tags into the verdict that gates event
// creation.
package tags

// Name is one of the closed evidence-tag vocabulary.
type Name string

const (
	AnchorOK                Name = "ANCHOR_OK"
	AnchorNotFound          Name = "ANCHOR_NOT_FOUND"
	AnchorAmbiguous         Name = "ANCHOR_AMBIGUOUS"
	StructValid             Name = "STRUCT_VALID"
	StructInvalid           Name = "STRUCT_INVALID"
	ConfidencePresent       Name = "CONFIDENCE_PRESENT"
	ConfidenceWithoutAnchor Name = "CONFIDENCE_WITHOUT_ANCHOR"
)

// Source identifies the subsystem a tag originated from.
type Source string

const (
	SourceAnchor     Source = "anchor"
	SourceStructure  Source = "structure"
	SourceConfidence Source = "confidence"
)

// Tag is one generated evidence tag. Tags are built fresh each run and
// never mutated.
type Tag struct {
	Name   Name   `json:"tag"`
	Source Source `json:"source"`
	Note   string `json:"note,omitempty"`
}

// Set indexes tags by name for membership checks.
type Set map[Name]Tag

// NewSet builds a Set from a tag list; the first tag wins on duplicates.
func NewSet(ts []Tag) Set {
	s := make(Set, len(ts))
	for _, t := range ts {
		if _, ok := s[t.Name]; !ok {
			s[t.Name] = t
		}
	}
	return s
}

// Has reports membership.
func (s Set) Has(n Name) bool {
	_, ok := s[n]
	return ok
}

// Note returns the stored note for n, or "".
func (s Set) Note(n Name) string {
	return s[n].Note
}
