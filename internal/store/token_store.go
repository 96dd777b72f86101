package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"modmail/internal/domain"
	"modmail/internal/util/memzero"
)

// TokenFileStore persists the bot token sealed under a passphrase.
type TokenFileStore struct {
	path string
	kdf  kdfParams
	mu   sync.Mutex
}

// NewTokenFileStore returns a TokenFileStore backed by the file at path.
func NewTokenFileStore(path string) *TokenFileStore {
	return &TokenFileStore{path: path, kdf: defaultKDF()}
}

// Path returns the sealed file's location.
func (s *TokenFileStore) Path() string { return s.path }

// SaveToken seals token and writes it, replacing any previous file.
func (s *TokenFileStore) SaveToken(passphrase, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ConfigurationError("seal token", errors.New("token is empty"))
	}
	if passphrase == "" {
		return domain.ConfigurationError("seal token", errors.New("passphrase is empty"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw := []byte(token)
	defer memzero.Zero(raw)
	b, err := seal(passphrase, raw, s.kdf)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	if err := writeFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write token file %s: %w", s.path, err)
	}
	return nil
}

// LoadToken reads and unseals the token.
func (s *TokenFileStore) LoadToken(passphrase string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", domain.ConfigurationError("load token", fmt.Errorf("token file %s does not exist", s.path))
	}
	if err != nil {
		return "", fmt.Errorf("read token file %s: %w", s.path, err)
	}
	pt, err := open(passphrase, b)
	if err != nil {
		return "", domain.ConfigurationError("load token", err)
	}
	defer memzero.Zero(pt)
	return string(pt), nil
}

// Compile-time assertion that TokenFileStore implements domain.TokenStore.
var _ domain.TokenStore = (*TokenFileStore)(nil)
