package game

import (
	"log"

	"github.com/hanafuda/koikoi-go/internal/cards"
)

// CardTable tracks the five card zones of a round: both hands, the
// field, the draw pile and both collections, plus the staging area
// that batches a match into one atomic capture. Zones are ordered
// slices with set semantics; deck order is the draw order.
type CardTable struct {
	Hand       map[PlayerKey][]cards.Name
	Collection map[PlayerKey][]cards.Name
	Field      []cards.Name
	Deck       []cards.Name
	Staged     []cards.Name

	logger *log.Logger
}

// NewCardTable builds a table with a freshly shuffled deck and every
// other zone empty.
func NewCardTable(logger *log.Logger) (*CardTable, error) {
	if logger == nil {
		logger = log.Default()
	}
	deck, _, err := cards.ShuffleCrypto()
	if err != nil {
		return nil, err
	}
	return &CardTable{
		Hand:       map[PlayerKey][]cards.Name{P1: nil, P2: nil},
		Collection: map[PlayerKey][]cards.Name{P1: nil, P2: nil},
		Deck:       deck,
		logger:     logger,
	}, nil
}

func containsCard(zone []cards.Name, card cards.Name) bool {
	for _, c := range zone {
		if c == card {
			return true
		}
	}
	return false
}

func removeCard(zone []cards.Name, card cards.Name) []cards.Name {
	for i, c := range zone {
		if c == card {
			return append(zone[:i], zone[i+1:]...)
		}
	}
	return zone
}

func removeCards(zone []cards.Name, remove []cards.Name) []cards.Name {
	for _, c := range remove {
		zone = removeCard(zone, c)
	}
	return zone
}

// Deal moves the top 24 cards of the deck into the opening layout:
// eight per hand and eight to the field.
func (t *CardTable) Deal() {
	dealt := t.Deck[:24]
	t.Hand[P1] = append(t.Hand[P1], dealt[0:8]...)
	t.Hand[P2] = append(t.Hand[P2], dealt[8:16]...)
	t.Field = append(t.Field, dealt[16:24]...)
	t.Deck = t.Deck[24:]
}

// Dealt reports whether the opening layout is already out: any card
// outside the deck means the round's deal happened and only Reset
// returns the table to a dealable state.
func (t *CardTable) Dealt() bool {
	return len(t.Deck) != len(cards.Deck)
}

// RevealCard returns the top card of the deck without moving it.
func (t *CardTable) RevealCard() cards.Name {
	if len(t.Deck) == 0 {
		return ""
	}
	return t.Deck[0]
}

// Discard moves a card from the player's hand (or the deck, for a
// drawn card) to the field. Any staged match is collected first so the
// capture batch closes with the turn.
func (t *CardTable) Discard(card cards.Name, player PlayerKey) {
	t.Hand[player] = removeCard(t.Hand[player], card)
	t.Deck = removeCard(t.Deck, card)
	t.Field = append(t.Field, card)
	if len(t.Staged) > 0 {
		t.CollectCards(player)
	}
}

// StageForCollection marks cards as matched. Staged cards stay in
// their source zones until CollectCards moves them.
func (t *CardTable) StageForCollection(staged []cards.Name) {
	t.Staged = append(t.Staged, staged...)
}

// CollectCards moves every staged card out of the hand, field and deck
// into the player's collection and clears the staging area.
func (t *CardTable) CollectCards(player PlayerKey) {
	staged := t.Staged
	t.Collection[player] = append(t.Collection[player], staged...)
	t.Hand[player] = removeCards(t.Hand[player], staged)
	t.Field = removeCards(t.Field, staged)
	t.Deck = removeCards(t.Deck, staged)
	t.Staged = nil
}

// HandsEmpty reports whether both hands are exhausted.
func (t *CardTable) HandsEmpty() bool {
	return len(t.Hand[P1]) == 0 && len(t.Hand[P2]) == 0
}

// HandNotEmpty reports whether the player still holds cards.
func (t *CardTable) HandNotEmpty(player PlayerKey) bool {
	return len(t.Hand[player]) > 0
}

// CardsInPlay lists every card outside the collections.
func (t *CardTable) CardsInPlay() []cards.Name {
	out := make([]cards.Name, 0, len(cards.Deck))
	out = append(out, t.Hand[P1]...)
	out = append(out, t.Hand[P2]...)
	out = append(out, t.Field...)
	out = append(out, t.Deck...)
	return out
}

// CardsCollected lists both collections.
func (t *CardTable) CardsCollected() []cards.Name {
	out := make([]cards.Name, 0, len(t.Collection[P1])+len(t.Collection[P2]))
	out = append(out, t.Collection[P1]...)
	out = append(out, t.Collection[P2]...)
	return out
}

// IntegrityCheck verifies zone conservation: all 48 cards accounted
// for exactly once across the zones. Staged cards are not counted
// separately since they remain in their source zones. A failure is a
// logic bug, logged and reported rather than fatal.
func (t *CardTable) IntegrityCheck() bool {
	total := len(t.CardsInPlay()) + len(t.CardsCollected())
	valid := total == len(cards.Deck)
	if !valid {
		t.logger.Printf("game: deck size mismatch detected: %d cards accounted for", total)
	}
	return valid
}

// Reset clears every zone and reshuffles a full deck.
func (t *CardTable) Reset() {
	deck, _, err := cards.ShuffleCrypto()
	if err != nil {
		// Entropy failure leaves no sound deal to offer; fall back to
		// a deterministic shuffle of the catalog order.
		t.logger.Printf("game: crypto shuffle failed, using seeded fallback: %v", err)
		deck = cards.ShuffleSeeded("fallback", "fallback", 0)
	}
	t.Hand[P1] = nil
	t.Hand[P2] = nil
	t.Collection[P1] = nil
	t.Collection[P2] = nil
	t.Field = nil
	t.Staged = nil
	t.Deck = deck
}

// MatchableField lists field cards not already staged.
func (t *CardTable) MatchableField() []cards.Name {
	var out []cards.Name
	for _, c := range t.Field {
		if !containsCard(t.Staged, c) {
			out = append(out, c)
		}
	}
	return out
}

// Matches returns the unstaged field cards sharing the card's month.
func (t *CardTable) Matches(card cards.Name) []cards.Name {
	return cards.MatchByMonth(t.MatchableField(), card)
}
