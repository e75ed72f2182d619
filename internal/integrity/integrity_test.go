package integrity

import (
	"strings"
	"testing"
)

func TestFNV1aMixedHashStable(t *testing.T) {
	a := FNV1aMixedHash("payload", FallbackSalt, "assoc")
	b := FNV1aMixedHash("payload", FallbackSalt, "assoc")
	if a != b {
		t.Fatalf("hash not deterministic: %s vs %s", a, b)
	}
	if len(a) != 8 {
		t.Fatalf("hash %q is not 8 hex digits", a)
	}
}

func TestHashChangesWithEveryInput(t *testing.T) {
	base := FNV1aMixedHash("payload", FallbackSalt, "assoc")
	variants := map[string]string{
		"payload":         FNV1aMixedHash("payload2", FallbackSalt, "assoc"),
		"base salt":       FNV1aMixedHash("payload", "other-salt", "assoc"),
		"associated salt": FNV1aMixedHash("payload", FallbackSalt, "assoc2"),
	}
	for name, got := range variants {
		if got == base {
			t.Errorf("changing %s did not change the hash", name)
		}
	}
}

func TestHashWithAlgorithmDispatch(t *testing.T) {
	current := HashWithAlgorithm("data", FallbackSalt, "s", AlgFNV1aMixed)
	if current != FNV1aMixedHash("data", FallbackSalt, "s") {
		t.Fatal("fnv1a-mixed tag did not select the mixed hash")
	}
	legacy := HashWithAlgorithm("data", FallbackSalt, "s", AlgSimple)
	if legacy != SimpleHash("data", FallbackSalt, "s") {
		t.Fatal("simple tag did not select the legacy hash")
	}
	// Unknown and empty tags fall back to the current algorithm.
	if HashWithAlgorithm("data", FallbackSalt, "s", "") != current {
		t.Fatal("empty tag did not fall back")
	}
	if HashWithAlgorithm("data", FallbackSalt, "s", "md5") != current {
		t.Fatal("unknown tag did not fall back")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := NewCipher("")
	plaintext := `{"deck":["matsu-ni-tsuru"]}`

	encrypted, err := c.Encrypt(plaintext, "game-123")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(encrypted, "matsu") {
		t.Fatal("ciphertext leaks plaintext")
	}

	decrypted, err := c.Decrypt(encrypted, "game-123")
	if err != nil {
		t.Fatal(err)
	}
	if decrypted != plaintext {
		t.Fatalf("round trip mismatch: %q", decrypted)
	}
}

func TestDecryptWrongGameID(t *testing.T) {
	c := NewCipher("")
	encrypted, err := c.Encrypt("secret", "game-a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decrypt(encrypted, "game-b"); err == nil {
		t.Fatal("decryption under wrong game id succeeded")
	}
}

func TestDecryptCorruptedPayload(t *testing.T) {
	c := NewCipher("")
	encrypted, err := c.Encrypt("secret", "game-a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decrypt("!!not-base64!!", "game-a"); err == nil {
		t.Fatal("invalid base64 accepted")
	}
	if _, err := c.Decrypt("AAAA", "game-a"); err == nil {
		t.Fatal("truncated payload accepted")
	}
	// Flip a character inside the ciphertext body.
	mangled := []byte(encrypted)
	mid := len(mangled) / 2
	if mangled[mid] == 'A' {
		mangled[mid] = 'B'
	} else {
		mangled[mid] = 'A'
	}
	if _, err := c.Decrypt(string(mangled), "game-a"); err == nil {
		t.Fatal("tampered ciphertext accepted")
	}
}

func TestOptionsFromEnvFallback(t *testing.T) {
	t.Setenv("SAVE_INTEGRITY_SALT", "")
	opts, err := OptionsFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if opts.BaseSalt != FallbackSalt {
		t.Fatalf("base salt = %q, want fallback", opts.BaseSalt)
	}

	t.Setenv("SAVE_INTEGRITY_SALT", "deploy-salt")
	opts, err = OptionsFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if opts.BaseSalt != "deploy-salt" {
		t.Fatalf("base salt = %q", opts.BaseSalt)
	}
}
