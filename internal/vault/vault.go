// Package vault gates, transforms, caches, and relays per-user named data
// items to a persistence backend, honoring per-user obfuscation preferences
// and the sensitive-data override. Nothing here throws across the public
// boundary: every failure becomes a false/nil result plus a log line.
package vault

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/slconnect/safeguard/internal/audit"
	"github.com/slconnect/safeguard/internal/gate"
	"github.com/slconnect/safeguard/internal/model"
	"github.com/slconnect/safeguard/internal/obfuscate"
)

// DefaultTimeout bounds each backend call. The original service left these
// calls unbounded; a timeout here is treated as a persistence failure.
const DefaultTimeout = 5 * time.Second

// Store is the obfuscation store façade. It consults the gate for
// authorization before every write and sensitive read.
type Store struct {
	gate    *gate.Gate
	backend Backend
	timeout time.Duration
	logger  *slog.Logger
	audit   *audit.Log

	mu    sync.Mutex
	prefs map[string]model.Preferences // userID → loaded preferences
	cache map[string]string            // userID + "\x00" + dataType → last known value
}

// Option configures a Store at construction.
type Option func(*Store)

// WithTimeout overrides the per-call backend timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithAuditLog makes the store record writes and sensitive-read denials.
func WithAuditLog(l *audit.Log) Option {
	return func(s *Store) { s.audit = l }
}

// New creates a Store backed by the given gate and persistence backend.
func New(g *gate.Gate, backend Backend, opts ...Option) *Store {
	s := &Store{
		gate:    g,
		backend: backend,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		prefs:   make(map[string]model.Preferences),
		cache:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadPreferences returns the user's obfuscation preferences,
// fetching them on first use. It never fails: backend errors and missing
// rows both fall back to the defaults (logged for the former).
func (s *Store) LoadPreferences(ctx context.Context, userID string) model.Preferences {
	s.mu.Lock()
	if p, ok := s.prefs[userID]; ok {
		s.mu.Unlock()
		return p
	}
	s.mu.Unlock()

	p := model.DefaultPreferences()
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	loaded, err := s.backend.ReadSettings(callCtx, userID)
	switch {
	case err == nil:
		p = loaded
	case errors.Is(err, ErrNotFound):
		// No row yet: defaults apply, nothing to log.
	default:
		s.logger.Warn("load preferences failed, using defaults",
			"user_id", userID, "error", err)
	}

	s.mu.Lock()
	s.prefs[userID] = p
	s.mu.Unlock()
	return p
}

// UpdatePreferences merges a partial update into the user's preferences
// (last-write-wins per field) and persists the result. Returns false,
// without touching the in-memory copy, on persistence failure.
func (s *Store) UpdatePreferences(ctx context.Context, userID string, patch model.PreferencesPatch) bool {
	current := s.LoadPreferences(ctx, userID)
	patch.Apply(&current)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.backend.UpsertSettings(callCtx, userID, current); err != nil {
		s.logger.Warn("persist preferences failed",
			"user_id", userID, "error", err)
		return false
	}

	s.mu.Lock()
	s.prefs[userID] = current
	s.mu.Unlock()

	s.record(audit.Entry{Event: audit.EventPrefsUpdated, UserID: userID})
	return true
}

// Put stores a named datum for a user. Fails closed (false, no write) when
// the gate does not authorize the user. Sensitive data types are always
// obfuscated at high level regardless of the user's own settings.
func (s *Store) Put(ctx context.Context, userID, dataType string, value string) bool {
	if !s.gate.IsAuthorized(userID) {
		s.logger.Warn("put denied: user not authorized",
			"user_id", userID, "data_type", dataType)
		return false
	}

	prefs := s.LoadPreferences(ctx, userID)
	sensitive := model.IsSensitiveType(dataType)

	enforce := sensitive || prefs.Enabled
	level := prefs.Level
	if sensitive {
		level = model.LevelHigh
	}

	stored := value
	recLevel := model.Level("")
	if enforce {
		encoded, err := obfuscate.Encode(value, level)
		if err != nil {
			s.logger.Warn("obfuscation failed",
				"user_id", userID, "data_type", dataType, "error", err)
			return false
		}
		stored = encoded
		recLevel = level
	}

	rec := model.EncryptedRecord{
		UserID:      userID,
		DataType:    dataType,
		Value:       stored,
		Level:       recLevel,
		IsSensitive: sensitive,
		UpdatedAt:   time.Now().UTC(),
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.backend.UpsertRecord(callCtx, rec); err != nil {
		s.logger.Warn("persist record failed",
			"user_id", userID, "data_type", dataType, "error", err)
		return false
	}

	s.mu.Lock()
	s.cache[cacheKey(userID, dataType)] = stored
	s.mu.Unlock()

	s.record(audit.Entry{Event: audit.EventDataStored, UserID: userID, DataType: dataType})
	return true
}

// Get retrieves a named datum for a user, or nil when it does not exist or
// access is denied. With AutoDecrypt off, a cached value is returned as-is
// without a backend round trip. Sensitive records are unreadable to
// non-authorized callers even in obfuscated form.
func (s *Store) Get(ctx context.Context, userID, dataType string) *string {
	if userID == "" {
		return nil
	}

	prefs := s.LoadPreferences(ctx, userID)

	if !prefs.AutoDecrypt {
		s.mu.Lock()
		cached, ok := s.cache[cacheKey(userID, dataType)]
		s.mu.Unlock()
		if ok {
			return &cached
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := s.backend.ReadRecord(callCtx, userID, dataType)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("read record failed",
				"user_id", userID, "data_type", dataType, "error", err)
		}
		return nil
	}

	authorized := s.gate.IsAuthorized(userID)

	if rec.IsSensitive && !authorized {
		s.logger.Warn("sensitive read denied: user not authorized",
			"user_id", userID, "data_type", dataType)
		s.record(audit.Entry{Event: audit.EventSensitiveReadDenied, UserID: userID, DataType: dataType})
		return nil
	}

	value := rec.Value
	if prefs.AutoDecrypt && authorized && rec.Level != "" {
		decoded, err := obfuscate.DecodeString(rec.Value, rec.Level)
		if err != nil {
			// Recorded level with an undecodable payload means the stored
			// value is corrupt; surface the raw value rather than failing.
			s.logger.Warn("stored value did not decode",
				"user_id", userID, "data_type", dataType, "error", err)
		} else {
			value = decoded
		}
	}

	s.mu.Lock()
	s.cache[cacheKey(userID, dataType)] = value
	s.mu.Unlock()
	return &value
}

func (s *Store) record(e audit.Entry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(e); err != nil {
		s.logger.Warn("audit record failed", "event", e.Event, "error", err)
	}
}

func cacheKey(userID, dataType string) string {
	return userID + "\x00" + dataType
}
