// Package topics holds the restricted topic set: a fixed list of lowercase
// phrases that reject free-text content from non-authorized users.
package topics

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Phrases holds the raw phrase strings as loaded from YAML.
type Phrases struct {
	Restricted []string `yaml:"restricted"`
}

// Set is an immutable collection of restricted phrases. Matching is
// case-insensitive substring containment; a single hit is sufficient
// to reject content.
type Set struct {
	phrases []string // stored lowercase
}

// New creates a Set from raw phrases, lowercasing and dropping empties.
// The set cannot be mutated afterwards.
func New(phrases []string) *Set {
	s := &Set{}
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		s.phrases = append(s.phrases, p)
	}
	return s
}

// NewDefault creates a Set with the built-in restricted phrases.
func NewDefault() *Set {
	return New(DefaultPhrases)
}

// Load reads restricted phrases from a YAML file. Empty path falls back to
// ~/.safeguard/topics.yaml. Missing file returns the defaults. Invalid YAML
// returns an error.
func Load(path string) (*Set, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return NewDefault(), nil
		}
		path = filepath.Join(home, ".safeguard", "topics.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, err
	}

	var p Phrases
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if len(p.Restricted) == 0 {
		return NewDefault(), nil
	}
	return New(p.Restricted), nil
}

// Match reports whether content contains any restricted phrase, returning
// the first phrase hit.
func (s *Set) Match(content string) (string, bool) {
	lowered := strings.ToLower(content)
	for _, p := range s.phrases {
		if strings.Contains(lowered, p) {
			return p, true
		}
	}
	return "", false
}

// Len returns the number of phrases in the set.
func (s *Set) Len() int {
	return len(s.phrases)
}

// Phrases returns a copy of the phrase list, for display only.
func (s *Set) Phrases() []string {
	out := make([]string, len(s.phrases))
	copy(out, s.phrases)
	return out
}
