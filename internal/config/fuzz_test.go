package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func FuzzLoadConfigYAML(f *testing.F) {
	f.Add([]byte("database_path: /tmp/test.db\nbackend_timeout: 2s\n"))
	f.Add([]byte(""))
	f.Add([]byte("{{{not yaml at all"))
	f.Add([]byte("backend_timeout: not-a-duration"))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Must not panic on any input
		var cfg Config
		yaml.Unmarshal(data, &cfg)
	})
}
