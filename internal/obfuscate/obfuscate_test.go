package obfuscate

import (
	"encoding/base64"
	"reflect"
	"testing"

	"github.com/slconnect/safeguard/internal/model"
)

func TestEncodeKnownValue(t *testing.T) {
	got, err := Encode("sk-123", model.LevelHigh)
	if err != nil {
		t.Fatal(err)
	}
	want := "encrypted_high_" + base64.StdEncoding.EncodeToString([]byte("sk-123"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRoundTripStrings(t *testing.T) {
	values := []string{
		"hello world",
		"sk-123",
		"",
		"multi\nline\tvalue",
		"unicode: ñøñ-åscii ✓",
	}

	for _, level := range []model.Level{model.LevelStandard, model.LevelHigh, model.LevelQuantum} {
		for _, v := range values {
			encoded, err := Encode(v, level)
			if err != nil {
				t.Fatalf("encode(%q, %s): %v", v, level, err)
			}
			decoded, err := DecodeString(encoded, level)
			if err != nil {
				t.Fatalf("decode(%q, %s): %v", encoded, level, err)
			}
			if decoded != v {
				t.Errorf("round trip at %s: got %q, want %q", level, decoded, v)
			}
		}
	}
}

func TestRoundTripStructured(t *testing.T) {
	value := map[string]any{
		"region":  "Bay City",
		"parcels": []any{"a", "b"},
		"credits": float64(250),
	}

	encoded, err := Encode(value, model.LevelStandard)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(encoded, model.LevelStandard)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, value) {
		t.Errorf("round trip: got %#v, want %#v", decoded, value)
	}
}

func TestDecodeWithoutPrefixIsPassThrough(t *testing.T) {
	for _, input := range []string{"hello world", "", "encrypted_", "encrypted_military_Zm9v"} {
		got, err := Decode(input, model.LevelStandard)
		if err != nil {
			t.Fatalf("decode(%q): %v", input, err)
		}
		if got != input {
			t.Errorf("expected pass-through for %q, got %v", input, got)
		}
	}
}

func TestDecodeWrongLevelIsPassThrough(t *testing.T) {
	encoded, err := Encode("secret", model.LevelHigh)
	if err != nil {
		t.Fatal(err)
	}
	// A high-level value queried at standard level lacks the standard
	// prefix, so it comes back untouched.
	got, err := Decode(encoded, model.LevelStandard)
	if err != nil {
		t.Fatal(err)
	}
	if got != encoded {
		t.Errorf("expected pass-through, got %v", got)
	}
}

func TestDecodeCorruptBase64(t *testing.T) {
	if _, err := Decode("encrypted_standard_!!!not-base64!!!", model.LevelStandard); err == nil {
		t.Error("expected error for corrupt payload under a valid prefix")
	}
}

func TestEncodeUnknownLevel(t *testing.T) {
	if _, err := Encode("v", model.Level("military")); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestDecodeUnparseablePayloadFallsBack(t *testing.T) {
	// base64 of plain text that is not valid JSON
	payload := base64.StdEncoding.EncodeToString([]byte("just some text"))
	got, err := Decode("encrypted_standard_"+payload, model.LevelStandard)
	if err != nil {
		t.Fatal(err)
	}
	if got != "just some text" {
		t.Errorf("expected raw string fallback, got %v", got)
	}
}
