// Package obfuscate implements the reversible at-rest transform applied to
// stored values. It is a labeled base64 round-trip, not cryptography: the
// level selects nothing beyond which prefix Encode and Decode use.
package obfuscate

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slconnect/safeguard/internal/model"
)

const prefix = "encrypted_"

// Prefix returns the full marker an encoded value carries for a level,
// e.g. "encrypted_high_".
func Prefix(level model.Level) string {
	return prefix + string(level) + "_"
}

// Encode obfuscates a value at the given level. Strings are encoded as-is;
// any other value is JSON-serialized first.
func Encode(value any, level model.Level) (string, error) {
	if !model.ValidLevel(level) {
		return "", fmt.Errorf("obfuscate: unknown level %q", level)
	}

	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("obfuscate: serialize value: %w", err)
		}
		raw = string(data)
	}

	return Prefix(level) + base64.StdEncoding.EncodeToString([]byte(raw)), nil
}

// Decode reverses Encode for a value carrying the given level's prefix.
// Input without the expected prefix is returned unchanged: absent
// obfuscation is a pass-through, not an error. After base64 decoding, a
// JSON parse is attempted; unparseable payloads come back as the raw
// decoded string.
func Decode(encoded string, level model.Level) (any, error) {
	marker := Prefix(level)
	if !strings.HasPrefix(encoded, marker) {
		return encoded, nil
	}

	payload := strings.TrimPrefix(encoded, marker)
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("obfuscate: base64 decode: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return string(raw), nil
	}
	return parsed, nil
}

// DecodeString is Decode for callers that only store string values.
// Non-string decode results are re-serialized to JSON text.
func DecodeString(encoded string, level model.Level) (string, error) {
	v, err := Decode(encoded, level)
	if err != nil {
		return "", err
	}
	switch s := v.(type) {
	case string:
		return s, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("obfuscate: reserialize: %w", err)
		}
		return string(data), nil
	}
}
