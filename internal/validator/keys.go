package validator

import "sort"

// sortedKeys gives rules a stable field visit order; JSON objects carry
// no insertion order once decoded into Go maps.
func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
