// Package grants persists the operator-granted authorized-user list
// between process runs. The gate itself is in-memory only; this store is
// the external trigger that seeds it at startup.
package grants

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// validUser matches alphanumeric, dash, underscore, and dot characters only.
var validUser = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// validateUser rejects user ids that could cause path traversal.
func validateUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("user id must not be empty")
	}
	if strings.Contains(userID, "..") {
		return fmt.Errorf("user id must not contain '..'")
	}
	if !validUser.MatchString(userID) {
		return fmt.Errorf("user id contains invalid characters: only alphanumeric, dash, underscore, and dot are allowed")
	}
	return nil
}

// Grant records that a user holds authorized access.
type Grant struct {
	UserID    string    `json:"user_id"`
	GrantedAt time.Time `json:"granted_at"`
}

// Store manages grant files on disk, one JSON file per user.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a Store backed by the given directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("cannot create grants directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// DefaultDir returns the default grants directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "safeguard-grants")
	}
	return filepath.Join(home, ".safeguard", "grants")
}

// Grant records a grant for userID. No-op if one already exists.
func (s *Store) Grant(userID string) error {
	if err := validateUser(userID); err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(userID)
	if _, err := os.Stat(path); err == nil {
		return nil // already granted
	}

	g := Grant{
		UserID:    userID,
		GrantedAt: time.Now().UTC(),
	}
	return s.writeAtomic(path, g)
}

// Revoke removes the grant for userID. Revoking an absent grant is a no-op.
func (s *Store) Revoke(userID string) error {
	if err := validateUser(userID); err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(userID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("revoke %q: %w", userID, err)
	}
	return nil
}

// IsGranted reports whether userID currently holds a grant.
func (s *Store) IsGranted(userID string) bool {
	if validateUser(userID) != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(s.path(userID))
	return err == nil
}

// List returns all grants in the store, sorted by user id.
func (s *Store) List() ([]Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var grants []Grant
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		var g Grant
		if err := json.Unmarshal(data, &g); err != nil {
			continue
		}
		grants = append(grants, g)
	}

	sort.Slice(grants, func(i, j int) bool { return grants[i].UserID < grants[j].UserID })
	return grants, errors.Join(errs...)
}

func (s *Store) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

func (s *Store) writeAtomic(path string, g Grant) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
