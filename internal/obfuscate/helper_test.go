package obfuscate

import "encoding/json"

// parsesAsJSON reports whether s is valid JSON, in which case DecodeString
// normalizes it rather than returning it verbatim.
func parsesAsJSON(s string) bool {
	var v any
	return json.Unmarshal([]byte(s), &v) == nil
}
