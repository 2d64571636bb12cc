package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/slconnect/safeguard/internal/model"
	"github.com/slconnect/safeguard/internal/vault"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "safeguard.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReadSettingsNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadSettings(context.Background(), "nobody")
	if !errors.Is(err, vault.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSettingsUpsertRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prefs := model.Preferences{Enabled: true, Level: model.LevelQuantum, AutoDecrypt: true}
	if err := s.UpsertSettings(ctx, "u1", prefs); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.ReadSettings(ctx, "u1")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != prefs {
		t.Errorf("got %+v, want %+v", got, prefs)
	}

	// Second upsert overwrites, keyed on user_id.
	prefs.AutoDecrypt = false
	if err := s.UpsertSettings(ctx, "u1", prefs); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err = s.ReadSettings(ctx, "u1")
	if err != nil {
		t.Fatalf("read after overwrite: %v", err)
	}
	if got.AutoDecrypt {
		t.Error("expected overwritten auto_decrypt=false")
	}
}

func TestReadRecordNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadRecord(context.Background(), "u1", "bio")
	if !errors.Is(err, vault.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordUpsertRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := model.EncryptedRecord{
		UserID:      "u1",
		DataType:    "api_keys",
		Value:       "encrypted_high_c2stMTIz",
		Level:       model.LevelHigh,
		IsSensitive: true,
	}
	if err := s.UpsertRecord(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.ReadRecord(ctx, "u1", "api_keys")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Value != rec.Value || got.Level != rec.Level || !got.IsSensitive {
		t.Errorf("got %+v, want %+v", got, rec)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}
}

func TestRecordUpsertOverwritesSameKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := model.EncryptedRecord{UserID: "u1", DataType: "bio", Value: "old"}
	second := model.EncryptedRecord{UserID: "u1", DataType: "bio", Value: "new", Level: model.LevelStandard}
	if err := s.UpsertRecord(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertRecord(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadRecord(ctx, "u1", "bio")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != "new" || got.Level != model.LevelStandard {
		t.Errorf("expected overwrite, got %+v", got)
	}
}

func TestRecordsIsolatedPerKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.UpsertRecord(ctx, model.EncryptedRecord{UserID: "u1", DataType: "bio", Value: "a"})
	s.UpsertRecord(ctx, model.EncryptedRecord{UserID: "u1", DataType: "location", Value: "b"})
	s.UpsertRecord(ctx, model.EncryptedRecord{UserID: "u2", DataType: "bio", Value: "c"})

	got, err := s.ReadRecord(ctx, "u1", "bio")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != "a" {
		t.Errorf("u1/bio: got %q, want %q", got.Value, "a")
	}
	got, err = s.ReadRecord(ctx, "u2", "bio")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != "c" {
		t.Errorf("u2/bio: got %q, want %q", got.Value, "c")
	}
}

func TestPlaintextRecordKeepsEmptyLevel(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := model.EncryptedRecord{UserID: "u4", DataType: "bio", Value: "hello world"}
	if err := s.UpsertRecord(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadRecord(ctx, "u4", "bio")
	if err != nil {
		t.Fatal(err)
	}
	if got.Level != "" {
		t.Errorf("plaintext record must keep empty level, got %q", got.Level)
	}
}

func TestCancelledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.UpsertRecord(ctx, model.EncryptedRecord{UserID: "u1", DataType: "bio", Value: "x"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
