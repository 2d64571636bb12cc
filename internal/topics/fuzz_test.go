package topics

import "testing"

func FuzzMatch(f *testing.F) {
	f.Add("let's bypass security together")
	f.Add("")
	f.Add("plain text with nothing restricted")
	f.Add("\x00\xff binary-ish input")

	s := NewDefault()

	f.Fuzz(func(t *testing.T, content string) {
		// Must not panic on any input; a hit must return a non-empty phrase.
		phrase, hit := s.Match(content)
		if hit && phrase == "" {
			t.Error("hit with empty phrase")
		}
		if !hit && phrase != "" {
			t.Errorf("miss with non-empty phrase %q", phrase)
		}
	})
}
