// Package secret resolves the save-integrity base salt: environment
// first, then the OS keyring, generating and persisting a fresh salt
// when neither holds one.
package secret

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/hanafuda/koikoi-go/internal/rng"
)

const (
	defaultService = "koikoi"
	keySalt        = "integrity-salt"
)

// Store wraps the OS keychain with an optional file fallback for
// environments without a system keyring.
type Store struct {
	service      string
	fallbackPath string
	mu           sync.Mutex
}

// NewStore creates a secret store. An empty service name uses the
// application default.
func NewStore(serviceName, fallbackPath string) *Store {
	if strings.TrimSpace(serviceName) == "" {
		serviceName = defaultService
	}
	return &Store{service: serviceName, fallbackPath: fallbackPath}
}

// SetSalt stores the integrity salt.
func (s *Store) SetSalt(value string) error {
	if value == "" {
		return fmt.Errorf("secret: salt is required")
	}
	if err := keyring.Set(s.service, keySalt, value); err == nil {
		return nil
	} else if !isKeyringUnavailable(err) {
		return fmt.Errorf("secret: keyring set: %w", err)
	}
	return s.setFallback(keySalt, value)
}

// GetSalt loads the integrity salt. A missing salt returns
// keyring.ErrNotFound.
func (s *Store) GetSalt() (string, error) {
	val, err := keyring.Get(s.service, keySalt)
	if err == nil {
		return val, nil
	}
	if !isKeyringUnavailable(err) && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("secret: keyring get: %w", err)
	}

	fallback, ferr := s.getFallback(keySalt)
	if ferr == nil {
		return fallback, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", keyring.ErrNotFound
	}
	return "", ferr
}

// DeleteSalt removes the stored salt from both backends.
func (s *Store) DeleteSalt() error {
	err := keyring.Delete(s.service, keySalt)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) && !isKeyringUnavailable(err) {
		_ = s.deleteFallback(keySalt)
		return fmt.Errorf("secret: keyring delete: %w", err)
	}
	return s.deleteFallback(keySalt)
}

// EnsureSalt resolves the salt to use: the env value when set, then
// the stored salt, otherwise a freshly generated one persisted for
// future runs.
func (s *Store) EnsureSalt(envValue string) (string, error) {
	if envValue != "" {
		return envValue, nil
	}
	stored, err := s.GetSalt()
	if err == nil && stored != "" {
		return stored, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", err
	}

	generated, err := rng.CryptoSeed()
	if err != nil {
		return "", fmt.Errorf("secret: generate salt: %w", err)
	}
	if err := s.SetSalt(generated); err != nil {
		return "", err
	}
	return generated, nil
}

func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "secret service") ||
		strings.Contains(msg, "dbus") ||
		strings.Contains(msg, "no keychain") ||
		strings.Contains(msg, "keyring backend not available")
}

type fallbackSecrets map[string]string

func (s *Store) setFallback(key, value string) error {
	if strings.TrimSpace(s.fallbackPath) == "" {
		return fmt.Errorf("secret: keyring unavailable and no fallback path configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readFallbackUnlocked()
	if err != nil {
		return err
	}
	data[key] = value
	return s.writeFallbackUnlocked(data)
}

func (s *Store) getFallback(key string) (string, error) {
	if strings.TrimSpace(s.fallbackPath) == "" {
		return "", fmt.Errorf("secret: fallback path not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readFallbackUnlocked()
	if err != nil {
		return "", err
	}
	val, ok := data[key]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return val, nil
}

func (s *Store) deleteFallback(key string) error {
	if strings.TrimSpace(s.fallbackPath) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readFallbackUnlocked()
	if err != nil {
		return err
	}
	delete(data, key)
	return s.writeFallbackUnlocked(data)
}

func (s *Store) readFallbackUnlocked() (fallbackSecrets, error) {
	out := fallbackSecrets{}
	raw, err := os.ReadFile(s.fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("secret: read fallback secrets: %w", err)
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("secret: decode fallback secrets: %w", err)
	}
	return out, nil
}

func (s *Store) writeFallbackUnlocked(data fallbackSecrets) error {
	dir := filepath.Dir(s.fallbackPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("secret: mkdir fallback dir: %w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("secret: encode fallback secrets: %w", err)
	}
	if err := os.WriteFile(s.fallbackPath, raw, 0o600); err != nil {
		return fmt.Errorf("secret: write fallback secrets: %w", err)
	}
	return nil
}
