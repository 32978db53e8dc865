package factorial

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// IdentityKey returns the session cache key for an account email: the hex
// SHA-256 of the raw email string. Filesystem-safe and non-reversible, so
// multiple accounts on one machine never collide.
func IdentityKey(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

// SessionStore persists cookie jars under a directory, one JSON file per
// account identity.
type SessionStore struct {
	dir string
}

// NewSessionStore returns a store rooted at dir. The directory is created
// lazily on the first Save.
func NewSessionStore(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

func (s *SessionStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the persisted cookies for an identity. A missing file is not
// an error and yields (nil, nil).
func (s *SessionStore) Load(key string) ([]SavedCookie, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var cookies []SavedCookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return cookies, nil
}

// Save writes the cookies for an identity. Sessions are credentials, so
// both the directory and the file stay private to the user.
func (s *SessionStore) Save(key string, cookies []SavedCookie) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.path(key), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Delete removes the persisted session for an identity. It reports whether
// a file was actually removed; a missing file is not an error.
func (s *SessionStore) Delete(key string) (bool, error) {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete session file: %w", err)
	}
	return true, nil
}
