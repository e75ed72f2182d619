// Package stats keeps tamper-evident player statistics: a fixed set of
// counters sealed under a canonical SHA-256 digest, merge rules for
// reconciling divergent copies, and derivation of per-round updates
// from the game's event history.
package stats

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hanafuda/koikoi-go/internal/cards"
	"github.com/hanafuda/koikoi-go/internal/yaku"
)

// HashAlg is the digest algorithm recorded in sealed stats.
const HashAlg = "sha256"

// Counter key prefixes and suffixes.
const (
	prefixYaku     = "yakuCompleted_"
	prefixCaptured = "cardsCaptured_"
	prefixKoiKoi   = "koikoiCalled_"
	prefixRounds   = "roundsPlayed_"
)

// Aggregate counter keys.
const (
	KeyTotalYaku     = "totalYakuCompleted"
	KeyTotalCaptured = "totalCardsCaptured"
	KeyTotalRounds   = "totalRoundsPlayed"
)

// KeyYakuCompleted returns the counter key for one completed yaku.
func KeyYakuCompleted(name yaku.Name) string {
	return prefixYaku + string(name)
}

// KeyCardsCaptured returns the counter key for captures of one type.
func KeyCardsCaptured(cardType cards.Type) string {
	return prefixCaptured + string(cardType)
}

// KeyKoiKoiCalled returns the counter key for one koi-koi outcome:
// success, fail, reversal or stack.
func KeyKoiKoiCalled(outcome string) string {
	return prefixKoiKoi + outcome
}

// KeyRoundsPlayed returns the counter key for one round outcome:
// win, loss or draw.
func KeyRoundsPlayed(outcome string) string {
	return prefixRounds + outcome
}

// Keys lists every tracked counter. Unknown keys are rejected by
// updates so a tampered payload cannot smuggle extra fields past the
// seal.
var Keys = buildKeys()

func buildKeys() []string {
	keys := make([]string, 0, 29)
	for _, name := range yaku.Names {
		keys = append(keys, KeyYakuCompleted(name))
	}
	for _, cardType := range []cards.Type{cards.Bright, cards.Animal, cards.Ribbon, cards.Plain} {
		keys = append(keys, KeyCardsCaptured(cardType))
	}
	for _, outcome := range []string{"success", "fail", "reversal", "stack"} {
		keys = append(keys, KeyKoiKoiCalled(outcome))
	}
	for _, outcome := range []string{"win", "loss", "draw"} {
		keys = append(keys, KeyRoundsPlayed(outcome))
	}
	return append(keys, KeyTotalYaku, KeyTotalCaptured, KeyTotalRounds)
}

var validKey = func() map[string]bool {
	m := make(map[string]bool, len(Keys))
	for _, k := range Keys {
		m[k] = true
	}
	return m
}()

// Meta carries the seal and lifecycle timestamps of a stats payload.
// Timestamps are RFC 3339 UTC strings.
type Meta struct {
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
	LastSyncAt string `json:"lastSyncAt,omitempty"`
	ResetsAt   string `json:"resetsAt,omitempty"`
	Hash       string `json:"hash"`
	Alg        string `json:"alg"`
}

// Stats is a sealed counter set. The zero value is unusable; start
// from New or Parse.
type Stats struct {
	Counters map[string]int
	Meta     Meta
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// New returns fresh, sealed stats with every counter at zero.
func New() *Stats {
	counters := make(map[string]int, len(Keys))
	for _, key := range Keys {
		counters[key] = 0
	}
	now := nowISO()
	s := &Stats{
		Counters: counters,
		Meta:     Meta{CreatedAt: now, UpdatedAt: now},
	}
	s.Seal()
	return s
}

// canonical serializes the counters and timestamps with sorted keys,
// excluding the hash and algorithm fields themselves.
func (s *Stats) canonical() []byte {
	payload := make(map[string]any, len(s.Counters)+4)
	for key, value := range s.Counters {
		payload[key] = value
	}
	payload["createdAt"] = s.Meta.CreatedAt
	payload["updatedAt"] = s.Meta.UpdatedAt
	if s.Meta.LastSyncAt != "" {
		payload["lastSyncAt"] = s.Meta.LastSyncAt
	}
	if s.Meta.ResetsAt != "" {
		payload["resetsAt"] = s.Meta.ResetsAt
	}
	raw, _ := json.Marshal(payload)
	return raw
}

// Seal recomputes the digest over the current counters and timestamps.
func (s *Stats) Seal() {
	sum := sha256.Sum256(s.canonical())
	s.Meta.Hash = hex.EncodeToString(sum[:])
	s.Meta.Alg = HashAlg
}

// Verify reports whether the recorded seal matches the payload.
func (s *Stats) Verify() bool {
	if s.Meta.Alg != HashAlg || s.Meta.Hash == "" {
		return false
	}
	sum := sha256.Sum256(s.canonical())
	return hex.EncodeToString(sum[:]) == s.Meta.Hash
}

// VerifyOrReset returns the stats unchanged when the seal holds, or a
// fresh zeroed set when it does not. Tampered counters are never
// trusted, partially or otherwise.
func VerifyOrReset(s *Stats) *Stats {
	if s != nil && s.Verify() {
		return s
	}
	reset := New()
	reset.Meta.ResetsAt = reset.Meta.CreatedAt
	reset.Seal()
	return reset
}

// Increment raises a counter and refreshes the seal. Unknown keys are
// rejected.
func (s *Stats) Increment(key string, delta int) error {
	if !validKey[key] {
		return fmt.Errorf("stats: unknown counter %q", key)
	}
	s.Counters[key] += delta
	s.touch()
	return nil
}

// Decrement lowers a counter, flooring at zero, and refreshes the seal.
func (s *Stats) Decrement(key string, delta int) error {
	if !validKey[key] {
		return fmt.Errorf("stats: unknown counter %q", key)
	}
	s.Counters[key] -= delta
	if s.Counters[key] < 0 {
		s.Counters[key] = 0
	}
	s.touch()
	return nil
}

// Set overwrites a counter and refreshes the seal.
func (s *Stats) Set(key string, value int) error {
	if !validKey[key] {
		return fmt.Errorf("stats: unknown counter %q", key)
	}
	if value < 0 {
		value = 0
	}
	s.Counters[key] = value
	s.touch()
	return nil
}

func (s *Stats) touch() {
	s.Meta.UpdatedAt = nowISO()
	s.Seal()
}

// MarkSynced records a successful sync and reseals.
func (s *Stats) MarkSynced() {
	s.Meta.LastSyncAt = nowISO()
	s.Seal()
}

// Clone deep-copies the stats.
func (s *Stats) Clone() *Stats {
	counters := make(map[string]int, len(s.Counters))
	for key, value := range s.Counters {
		counters[key] = value
	}
	return &Stats{Counters: counters, Meta: s.Meta}
}

func minISO(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a < b {
		return a
	}
	return b
}

func maxISO(a, b string) string {
	if a > b {
		return a
	}
	return b
}

// Merge combines two sealed stat sets: counters sum, createdAt takes
// the older value, the other timestamps the newer. The result is
// resealed. Merge is commutative, so either side of a sync can run it.
func Merge(a, b *Stats) *Stats {
	if a == nil && b == nil {
		return nil
	}
	if a == nil {
		return b.Clone()
	}
	if b == nil {
		return a.Clone()
	}
	merged := &Stats{Counters: make(map[string]int, len(Keys))}
	for _, key := range Keys {
		merged.Counters[key] = a.Counters[key] + b.Counters[key]
	}
	merged.Meta = Meta{
		CreatedAt:  minISO(a.Meta.CreatedAt, b.Meta.CreatedAt),
		UpdatedAt:  maxISO(a.Meta.UpdatedAt, b.Meta.UpdatedAt),
		LastSyncAt: maxISO(a.Meta.LastSyncAt, b.Meta.LastSyncAt),
		ResetsAt:   maxISO(a.Meta.ResetsAt, b.Meta.ResetsAt),
	}
	merged.Seal()
	return merged
}

// MarshalJSON flattens the counters next to the _meta block.
func (s *Stats) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, len(s.Counters)+1)
	for key, value := range s.Counters {
		payload[key] = value
	}
	payload["_meta"] = s.Meta
	return json.Marshal(payload)
}

// UnmarshalJSON restores a flattened payload. Counters outside the
// known key set are dropped.
func (s *Stats) UnmarshalJSON(data []byte) error {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("stats: unmarshal: %w", err)
	}
	counters := make(map[string]int, len(Keys))
	for _, key := range Keys {
		counters[key] = 0
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var value int
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("stats: counter %s: %w", key, err)
		}
		counters[key] = value
	}
	var meta Meta
	if raw, ok := payload["_meta"]; ok {
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("stats: meta: %w", err)
		}
	}
	s.Counters = counters
	s.Meta = meta
	return nil
}

// Parse decodes and verifies a serialized payload, falling back to
// fresh stats when the payload is malformed or tampered.
func Parse(data []byte) *Stats {
	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return VerifyOrReset(nil)
	}
	return VerifyOrReset(&s)
}
