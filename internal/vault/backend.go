package vault

import (
	"context"
	"errors"

	"github.com/slconnect/safeguard/internal/model"
)

// ErrNotFound is returned by backend reads when no row exists for the key.
var ErrNotFound = errors.New("vault: not found")

// Backend is the persistence collaborator: two logical tables, read-one
// and upsert only. Implementations own retries and connection handling;
// the vault treats every call as best-effort and absorbs failures.
type Backend interface {
	// ReadSettings returns the security settings row for a user, or
	// ErrNotFound when the user has none.
	ReadSettings(ctx context.Context, userID string) (model.Preferences, error)

	// UpsertSettings writes a user's settings row, keyed on user id.
	UpsertSettings(ctx context.Context, userID string, prefs model.Preferences) error

	// ReadRecord returns the stored record for (userID, dataType), or
	// ErrNotFound when none exists.
	ReadRecord(ctx context.Context, userID, dataType string) (model.EncryptedRecord, error)

	// UpsertRecord writes a record, keyed on (user_id, data_type),
	// overwriting any prior record for that key.
	UpsertRecord(ctx context.Context, rec model.EncryptedRecord) error
}
