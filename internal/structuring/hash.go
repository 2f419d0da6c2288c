package structuring

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"golang.org/x/text/unicode/norm"
)

// InputHash derives the stable fingerprint keying every cached artifact
// for this input under the given schema/prompt versions: SHA-256 hex
// over compact JSON with NFC-normalized strings and sorted object keys.
// Identical inputs under identical versions always hash identically.
func InputHash(in Input, schemaVersion, promptVersion string) string {
	segments := make([]map[string]any, len(in.Segments))
	for i, seg := range in.Segments {
		segments[i] = map[string]any{
			"text":  norm.NFC.String(seg.Text),
			"start": seg.Start,
			"end":   seg.End,
		}
	}

	// encoding/json marshals map keys in sorted order, which gives the
	// canonical serialization the hash depends on.
	payload := map[string]any{
		"modality":       "text",
		"full_text":      norm.NFC.String(in.FullText),
		"segments":       segments,
		"schema_version": schemaVersion,
		"prompt_version": promptVersion,
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		// Only unmarshalable values reach here; the payload is plain data.
		panic("structuring: input hash serialization: " + err.Error())
	}

	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])
}
