package cards

import (
	"math"

	"github.com/hanafuda/koikoi-go/internal/rng"
)

// Shuffle returns a new permutation of deck driven by the float stream.
// Each float selects one card from the shrinking pool (Fisher-Yates by
// selection), so a deterministic stream yields a deterministic deal.
// The input slice is never mutated. floats must have at least len(deck)
// entries; extra floats are ignored.
func Shuffle(deck []Name, floats []float64) []Name {
	pool := make([]Name, len(deck))
	copy(pool, deck)

	shuffled := make([]Name, 0, len(deck))
	for i := 0; len(pool) > 0 && i < len(floats); i++ {
		index := int(math.Floor(floats[i] * float64(len(pool))))
		if index >= len(pool) {
			index = len(pool) - 1
		}
		shuffled = append(shuffled, pool[index])
		pool = append(pool[:index], pool[index+1:]...)
	}
	return shuffled
}

// ShuffleSeeded shuffles the full deck with floats derived from the seeds.
func ShuffleSeeded(gameSeed, roundSeed string, round uint64) []Name {
	floats := rng.Floats(gameSeed, roundSeed, round, 0, len(Deck))
	return Shuffle(Deck, floats)
}

// ShuffleCrypto shuffles the full deck with fresh entropy and returns the
// deal along with the seed that reproduces it.
func ShuffleCrypto() ([]Name, string, error) {
	seed, err := rng.CryptoSeed()
	if err != nil {
		return nil, "", err
	}
	return ShuffleSeeded(seed, seed, 0), seed, nil
}
