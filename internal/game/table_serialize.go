package game

import (
	"encoding/json"
	"fmt"

	"github.com/hanafuda/koikoi-go/internal/cards"
	"github.com/hanafuda/koikoi-go/internal/integrity"
)

// cardPayloadVersion tags the encrypted card wire format.
const cardPayloadVersion = "1.0.0"

type handSnapshot struct {
	P1 []cards.Name `json:"p1"`
	P2 []cards.Name `json:"p2"`
}

type tableSnapshot struct {
	Hand       handSnapshot `json:"hand"`
	Collection handSnapshot `json:"collection"`
	Field      []cards.Name `json:"field"`
	Deck       []cards.Name `json:"deck"`
	Staged     []cards.Name `json:"staged"`
}

// cardPayload is the wire form of the card section: ciphertext plus a
// salted digest over it. Plaintext card data never appears here.
type cardPayload struct {
	EncryptedData string `json:"encryptedData"`
	Hash          string `json:"hash"`
	HashAlgorithm string `json:"hashAlgorithm"`
	Version       string `json:"version"`
}

// legacyCardPayload is the pre-encryption format still accepted on
// import.
type legacyCardPayload struct {
	Data          *tableSnapshot `json:"data"`
	Hash          string         `json:"hash"`
	HashAlgorithm string         `json:"hashAlgorithm"`
	Version       string         `json:"version"`
}

func emptyIfNil(zone []cards.Name) []cards.Name {
	if zone == nil {
		return []cards.Name{}
	}
	return zone
}

func (t *CardTable) snapshot() tableSnapshot {
	return tableSnapshot{
		Hand:       handSnapshot{P1: emptyIfNil(t.Hand[P1]), P2: emptyIfNil(t.Hand[P2])},
		Collection: handSnapshot{P1: emptyIfNil(t.Collection[P1]), P2: emptyIfNil(t.Collection[P2])},
		Field:      emptyIfNil(t.Field),
		Deck:       emptyIfNil(t.Deck),
		Staged:     emptyIfNil(t.Staged),
	}
}

func (t *CardTable) restore(snap tableSnapshot) {
	t.Hand[P1] = snap.Hand.P1
	t.Hand[P2] = snap.Hand.P2
	t.Collection[P1] = snap.Collection.P1
	t.Collection[P2] = snap.Collection.P2
	t.Field = snap.Field
	t.Deck = snap.Deck
	t.Staged = snap.Staged
}

// ExportState serializes the card zones: the snapshot is encrypted
// under the game id and the ciphertext digest is bound to the
// associated-data salt, so edits to any sibling store invalidate it.
func (t *CardTable) ExportState(cipher *integrity.Cipher, associatedSalt, gameID string) (string, error) {
	raw, err := json.Marshal(t.snapshot())
	if err != nil {
		return "", fmt.Errorf("card table: export: %w", err)
	}
	encrypted, err := cipher.Encrypt(string(raw), gameID)
	if err != nil {
		return "", fmt.Errorf("card table: export: %w", err)
	}
	payload := cardPayload{
		EncryptedData: encrypted,
		Hash:          cipher.Hash(encrypted, associatedSalt),
		HashAlgorithm: integrity.AlgFNV1aMixed,
		Version:       cardPayloadVersion,
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("card table: export: %w", err)
	}
	return string(out), nil
}

// ImportState restores the card zones from a serialized payload,
// recomputing the salted digest before decrypting. Returns false on
// any hash mismatch, decryption failure or malformed structure; prior
// zone state is untouched on failure.
func (t *CardTable) ImportState(serialized string, cipher *integrity.Cipher, associatedSalt, gameID string) bool {
	var payload cardPayload
	if err := json.Unmarshal([]byte(serialized), &payload); err != nil {
		t.logger.Printf("game: card import rejected: %v", err)
		return false
	}

	var snap tableSnapshot
	switch {
	case payload.EncryptedData != "":
		if payload.Hash == "" || payload.Version == "" {
			t.logger.Print("game: card import rejected: missing required fields")
			return false
		}
		actual := cipher.HashAs(payload.EncryptedData, associatedSalt, payload.HashAlgorithm)
		if actual != payload.Hash {
			t.logger.Print("game: card import rejected: integrity verification failed")
			return false
		}
		plaintext, err := cipher.Decrypt(payload.EncryptedData, gameID)
		if err != nil {
			t.logger.Printf("game: card import rejected: %v", err)
			return false
		}
		if err := json.Unmarshal([]byte(plaintext), &snap); err != nil {
			t.logger.Printf("game: card import rejected: %v", err)
			return false
		}
	default:
		// Legacy plaintext format.
		var legacy legacyCardPayload
		if err := json.Unmarshal([]byte(serialized), &legacy); err != nil || legacy.Data == nil {
			t.logger.Print("game: card import rejected: missing data field")
			return false
		}
		if legacy.Hash == "" || legacy.Version == "" {
			t.logger.Print("game: card import rejected: missing required fields")
			return false
		}
		raw, err := json.Marshal(legacy.Data)
		if err != nil {
			return false
		}
		actual := cipher.HashAs(string(raw), associatedSalt, legacy.HashAlgorithm)
		if actual != legacy.Hash {
			t.logger.Print("game: card import rejected: integrity verification failed")
			return false
		}
		snap = *legacy.Data
	}

	if snap.Hand.P1 == nil || snap.Collection.P1 == nil || snap.Field == nil || snap.Deck == nil || snap.Staged == nil {
		t.logger.Print("game: card import rejected: invalid zone structure")
		return false
	}
	t.restore(snap)
	return true
}
