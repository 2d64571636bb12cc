package model

import "time"

// Level labels how a stored value was obfuscated.
// The label selects nothing beyond the prefix used by encode/decode;
// there is no differing cryptographic strength behind it.
type Level string

const (
	LevelStandard Level = "standard"
	LevelHigh     Level = "high"
	LevelQuantum  Level = "quantum"
)

// ValidLevel reports whether l is one of the known obfuscation levels.
func ValidLevel(l Level) bool {
	switch l {
	case LevelStandard, LevelHigh, LevelQuantum:
		return true
	}
	return false
}

// FlagKind classifies a safety flag.
type FlagKind string

const (
	KindSecurity    FlagKind = "security"
	KindPerformance FlagKind = "performance"
	KindAccess      FlagKind = "access"
)

// SafetyFlag is one named boolean safety invariant tracked by the gate.
// Flags are created once at gate construction and never removed; only
// Enabled and LastChecked change afterwards.
type SafetyFlag struct {
	Kind        FlagKind  `json:"kind"`
	Enabled     bool      `json:"enabled"`
	LastChecked time.Time `json:"last_checked"`
}

// Preferences are a user's obfuscation settings. Missing records default
// to DefaultPreferences; sensitive data types override them entirely.
type Preferences struct {
	Enabled     bool  `json:"encryption_enabled"`
	Level       Level `json:"encryption_level"`
	AutoDecrypt bool  `json:"auto_decrypt"`
}

// DefaultPreferences returns the settings applied when a user has no
// stored security-settings row.
func DefaultPreferences() Preferences {
	return Preferences{
		Enabled:     true,
		Level:       LevelStandard,
		AutoDecrypt: false,
	}
}

// PreferencesPatch is a partial preferences update. Nil fields are left
// unchanged (last-write-wins per field).
type PreferencesPatch struct {
	Enabled     *bool
	Level       *Level
	AutoDecrypt *bool
}

// Apply merges the patch into p.
func (patch PreferencesPatch) Apply(p *Preferences) {
	if patch.Enabled != nil {
		p.Enabled = *patch.Enabled
	}
	if patch.Level != nil {
		p.Level = *patch.Level
	}
	if patch.AutoDecrypt != nil {
		p.AutoDecrypt = *patch.AutoDecrypt
	}
}

// EncryptedRecord is one stored datum for a user, keyed (UserID, DataType).
// Level is empty when the value was stored in plaintext, so a missing
// obfuscation layer is distinguishable from a corrupted one.
type EncryptedRecord struct {
	UserID      string    `json:"user_id"`
	DataType    string    `json:"data_type"`
	Value       string    `json:"encrypted_value"`
	Level       Level     `json:"encryption_level,omitempty"`
	IsSensitive bool      `json:"is_sensitive"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SensitiveTypes are the data types that force high-level obfuscation and
// authorized-only readback regardless of user preference.
var SensitiveTypes = map[string]bool{
	"banking_info":    true,
	"payment_details": true,
	"api_keys":        true,
}

// IsSensitiveType reports whether dataType belongs to the fixed sensitive set.
func IsSensitiveType(dataType string) bool {
	return SensitiveTypes[dataType]
}
