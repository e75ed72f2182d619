// Package rng generates deterministic float streams from HMAC-SHA256.
// A deal seeded from a (gameSeed, roundSeed, round) triple is fully
// reproducible, which makes shuffles auditable after the fact.
package rng

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// Stream produces cryptographically derived bytes using HMAC-SHA256,
// 32 bytes per round, advancing the round counter as bytes are consumed.
type Stream struct {
	gameSeed     string
	roundSeed    string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewStream creates a stream for the given seeds. The cursor selects a
// starting offset into the byte sequence.
func NewStream(gameSeed, roundSeed string, nonce uint64, cursor uint64) *Stream {
	s := &Stream{
		gameSeed:     gameSeed,
		roundSeed:    roundSeed,
		nonce:        nonce,
		currentRound: cursor / 32,
		currentPos:   int(cursor % 32),
	}
	s.fill()
	return s
}

// Next returns the next byte from the stream.
func (s *Stream) Next() byte {
	if s.currentPos >= 32 {
		s.currentRound++
		s.currentPos = 0
		s.fill()
	}
	b := s.buffer[s.currentPos]
	s.currentPos++
	return b
}

// NextFloat consumes exactly 4 bytes and maps them into [0, 1).
func (s *Stream) NextFloat() float64 {
	b0 := s.Next()
	b1 := s.Next()
	b2 := s.Next()
	b3 := s.Next()
	return bytesToFloat([4]byte{b0, b1, b2, b3})
}

func (s *Stream) fill() {
	h := hmac.New(sha256.New, []byte(s.gameSeed))
	message := fmt.Sprintf("%s:%d:%d", s.roundSeed, s.nonce, s.currentRound)
	h.Write([]byte(message))
	copy(s.buffer[:], h.Sum(nil))
}

func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// Floats generates count floats starting from the given cursor.
func Floats(gameSeed, roundSeed string, nonce uint64, cursor uint64, count int) []float64 {
	s := NewStream(gameSeed, roundSeed, nonce, cursor)
	floats := make([]float64, count)
	for i := 0; i < count; i++ {
		floats[i] = s.NextFloat()
	}
	return floats
}

// CryptoSeed returns a fresh hex-encoded 32-byte seed from the platform CSPRNG.
func CryptoSeed() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("rng: read entropy: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
