// Package sqlite implements the vault persistence backend on a local
// SQLite database, mirroring the hosted service's two tables:
// security_settings keyed by user id, and encrypted_user_data with a
// uniqueness constraint on (user_id, data_type).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/slconnect/safeguard/internal/model"
	"github.com/slconnect/safeguard/internal/vault"
)

// Store is a vault.Backend backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle and runs migrations.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS security_settings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		encryption_enabled INTEGER NOT NULL DEFAULT 1,
		encryption_level TEXT NOT NULL DEFAULT 'standard',
		auto_decrypt INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS encrypted_user_data (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		data_type TEXT NOT NULL,
		encrypted_value TEXT NOT NULL,
		encryption_level TEXT NOT NULL DEFAULT '',
		is_sensitive INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL,
		UNIQUE (user_id, data_type)
	);`
	if _, err := s.db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReadSettings implements vault.Backend.
func (s *Store) ReadSettings(ctx context.Context, userID string) (model.Preferences, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT encryption_enabled, encryption_level, auto_decrypt
		FROM security_settings WHERE user_id = ?`, userID)

	var (
		enabled     int
		level       string
		autoDecrypt int
	)
	if err := row.Scan(&enabled, &level, &autoDecrypt); err != nil {
		if err == sql.ErrNoRows {
			return model.Preferences{}, vault.ErrNotFound
		}
		return model.Preferences{}, fmt.Errorf("sqlite: read settings: %w", err)
	}

	return model.Preferences{
		Enabled:     enabled != 0,
		Level:       model.Level(level),
		AutoDecrypt: autoDecrypt != 0,
	}, nil
}

// UpsertSettings implements vault.Backend.
func (s *Store) UpsertSettings(ctx context.Context, userID string, prefs model.Preferences) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO security_settings (id, user_id, encryption_enabled, encryption_level, auto_decrypt, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			encryption_enabled = excluded.encryption_enabled,
			encryption_level = excluded.encryption_level,
			auto_decrypt = excluded.auto_decrypt,
			updated_at = excluded.updated_at`,
		uuid.NewString(), userID, boolToInt(prefs.Enabled), string(prefs.Level),
		boolToInt(prefs.AutoDecrypt), now())
	if err != nil {
		return fmt.Errorf("sqlite: upsert settings: %w", err)
	}
	return nil
}

// ReadRecord implements vault.Backend.
func (s *Store) ReadRecord(ctx context.Context, userID, dataType string) (model.EncryptedRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT encrypted_value, encryption_level, is_sensitive, updated_at
		FROM encrypted_user_data WHERE user_id = ? AND data_type = ?`, userID, dataType)

	var (
		value     string
		level     string
		sensitive int
		updatedAt string
	)
	if err := row.Scan(&value, &level, &sensitive, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return model.EncryptedRecord{}, vault.ErrNotFound
		}
		return model.EncryptedRecord{}, fmt.Errorf("sqlite: read record: %w", err)
	}

	return model.EncryptedRecord{
		UserID:      userID,
		DataType:    dataType,
		Value:       value,
		Level:       model.Level(level),
		IsSensitive: sensitive != 0,
		UpdatedAt:   parseTime(updatedAt),
	}, nil
}

// UpsertRecord implements vault.Backend.
func (s *Store) UpsertRecord(ctx context.Context, rec model.EncryptedRecord) error {
	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO encrypted_user_data (id, user_id, data_type, encrypted_value, encryption_level, is_sensitive, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, data_type) DO UPDATE SET
			encrypted_value = excluded.encrypted_value,
			encryption_level = excluded.encryption_level,
			is_sensitive = excluded.is_sensitive,
			updated_at = excluded.updated_at`,
		uuid.NewString(), rec.UserID, rec.DataType, rec.Value, string(rec.Level),
		boolToInt(rec.IsSensitive), updatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite: upsert record: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}
