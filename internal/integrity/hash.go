// Package integrity provides the tamper-evidence primitives for saved
// game state: keyed content hashes over encrypted payloads and the
// authenticated encryption of the card section. Hash outputs are
// stable across releases because they are part of the save format.
package integrity

import (
	"fmt"
	"strconv"
)

// Hash algorithm identifiers carried inside saved payloads.
const (
	AlgFNV1aMixed = "fnv1a-mixed"
	AlgSimple     = "simple"
)

// HashWithAlgorithm dispatches on the algorithm tag recorded in a
// save. Unknown tags fall back to the current algorithm so saves
// written before the tag existed still verify.
func HashWithAlgorithm(data, baseSalt, associatedSalt, algorithm string) string {
	switch algorithm {
	case AlgSimple:
		return SimpleHash(data, baseSalt, associatedSalt)
	case AlgFNV1aMixed:
		return FNV1aMixedHash(data, baseSalt, associatedSalt)
	default:
		return FNV1aMixedHash(data, baseSalt, associatedSalt)
	}
}

// FNV1aMixedHash computes the current save digest: FNV-1a over the
// payload concatenated with the base and associated salts, followed by
// an avalanche mixing step, rendered as 8 lowercase hex digits.
func FNV1aMixedHash(data, baseSalt, associatedSalt string) string {
	full := data + baseSalt + associatedSalt

	hash := uint32(0x811c9dc5)
	for i := 0; i < len(full); i++ {
		hash ^= uint32(full[i])
		hash *= 0x01000193
	}

	hash ^= hash >> 16
	hash *= 0x21f0aaad
	hash ^= hash >> 15
	hash *= 0x735a2d97
	hash ^= hash >> 15

	return fmt.Sprintf("%08x", hash)
}

// SimpleHash is the legacy shift-add digest kept for old saves,
// rendered in base 36 with a sign like its original producer.
func SimpleHash(data, baseSalt, associatedSalt string) string {
	full := data + baseSalt + associatedSalt

	var hash int32
	for i := 0; i < len(full); i++ {
		hash = (hash << 5) - hash + int32(full[i])
	}

	return strconv.FormatInt(int64(hash), 36)
}
