package integrity

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/pbkdf2"
)

// FallbackSalt is used when no salt is configured. Saves hashed with
// it remain loadable, so the value must never change.
const FallbackSalt = "hanafuda-fallback-2024"

const (
	pbkdf2Iterations = 100000
	keyLength        = 32
	nonceLength      = 12
)

// Options configures the integrity layer from the environment.
type Options struct {
	// BaseSalt feeds both the save digests and the encryption key
	// derivation. Deployments set it once and keep it stable.
	BaseSalt string `env:"SAVE_INTEGRITY_SALT"`
}

// OptionsFromEnv reads integrity options from the environment,
// falling back to the built-in salt.
func OptionsFromEnv() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("integrity: parse env: %w", err)
	}
	if opts.BaseSalt == "" {
		opts.BaseSalt = FallbackSalt
	}
	return opts, nil
}

// Cipher seals and opens card payloads with AES-256-GCM under a key
// derived from the game id and the configured salt.
type Cipher struct {
	baseSalt string
}

// NewCipher builds a cipher over the given base salt. An empty salt
// selects the fallback.
func NewCipher(baseSalt string) *Cipher {
	if baseSalt == "" {
		baseSalt = FallbackSalt
	}
	return &Cipher{baseSalt: baseSalt}
}

// BaseSalt returns the salt the cipher binds hashes and keys to.
func (c *Cipher) BaseSalt() string {
	return c.baseSalt
}

// Hash computes the current-algorithm digest of a payload bound to
// the cipher's base salt and the caller's associated-data salt.
func (c *Cipher) Hash(data, associatedSalt string) string {
	return FNV1aMixedHash(data, c.baseSalt, associatedSalt)
}

// HashAs computes the digest for a specific recorded algorithm.
func (c *Cipher) HashAs(data, associatedSalt, algorithm string) string {
	return HashWithAlgorithm(data, c.baseSalt, associatedSalt, algorithm)
}

func (c *Cipher) deriveKey(gameID string) []byte {
	keyMaterial := c.baseSalt
	if gameID != "" {
		keyMaterial = gameID + "|" + c.baseSalt
	}
	return pbkdf2.Key([]byte(keyMaterial), []byte(c.baseSalt), pbkdf2Iterations, keyLength, sha256.New)
}

func (c *Cipher) aead(gameID string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.deriveKey(gameID))
	if err != nil {
		return nil, fmt.Errorf("integrity: init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext under the game-bound key. The random nonce
// is prepended and the whole payload base64-encoded.
func (c *Cipher) Encrypt(plaintext, gameID string) (string, error) {
	aead, err := c.aead(gameID)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("integrity: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a payload produced by Encrypt. Any corruption of the
// ciphertext or a wrong game id fails authentication.
func (c *Cipher) Decrypt(encrypted, gameID string) (string, error) {
	combined, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("integrity: decode payload: %w", err)
	}
	if len(combined) < nonceLength {
		return "", fmt.Errorf("integrity: payload too short")
	}
	aead, err := c.aead(gameID)
	if err != nil {
		return "", err
	}
	nonce, ciphertext := combined[:nonceLength], combined[nonceLength:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("integrity: open payload: %w", err)
	}
	return string(plaintext), nil
}
