package game

import (
	"log"
	"os"
	"testing"

	"github.com/hanafuda/koikoi-go/internal/cards"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "test: ", 0)
}

func newTestTable(t *testing.T) *CardTable {
	t.Helper()
	table, err := NewCardTable(testLogger())
	if err != nil {
		t.Fatalf("NewCardTable: %v", err)
	}
	return table
}

func TestDealLayout(t *testing.T) {
	table := newTestTable(t)
	table.Deal()

	if got := len(table.Hand[P1]); got != 8 {
		t.Errorf("p1 hand = %d cards, want 8", got)
	}
	if got := len(table.Hand[P2]); got != 8 {
		t.Errorf("p2 hand = %d cards, want 8", got)
	}
	if got := len(table.Field); got != 8 {
		t.Errorf("field = %d cards, want 8", got)
	}
	if got := len(table.Deck); got != 24 {
		t.Errorf("deck = %d cards, want 24", got)
	}
	if !table.IntegrityCheck() {
		t.Error("integrity check failed after deal")
	}
}

func TestStageAndCollect(t *testing.T) {
	table := newTestTable(t)
	table.Deal()

	hand := table.Hand[P1][0]
	field := table.Field[0]
	table.StageForCollection([]cards.Name{field, hand})

	// Staged cards stay in their source zones until collected.
	if !containsCard(table.Hand[P1], hand) {
		t.Errorf("staged card %q left the hand early", hand)
	}
	if !containsCard(table.Field, field) {
		t.Errorf("staged card %q left the field early", field)
	}
	if !table.IntegrityCheck() {
		t.Error("integrity check failed with cards staged")
	}

	table.CollectCards(P1)
	if len(table.Staged) != 0 {
		t.Errorf("staging area not cleared: %v", table.Staged)
	}
	if got := len(table.Collection[P1]); got != 2 {
		t.Errorf("collection = %d cards, want 2", got)
	}
	if containsCard(table.Hand[P1], hand) || containsCard(table.Field, field) {
		t.Error("collected cards remain in source zones")
	}
	if !table.IntegrityCheck() {
		t.Error("integrity check failed after collect")
	}
}

func TestDiscardCollectsStaged(t *testing.T) {
	table := newTestTable(t)
	table.Deal()

	staged := []cards.Name{table.Field[0], table.Hand[P1][0]}
	table.StageForCollection(staged)

	drawn := table.RevealCard()
	table.Discard(drawn, P1)

	if !containsCard(table.Field, drawn) {
		t.Errorf("discarded card %q not on field", drawn)
	}
	if len(table.Staged) != 0 {
		t.Error("discard did not close the staged batch")
	}
	if got := len(table.Collection[P1]); got != 2 {
		t.Errorf("collection = %d cards, want 2", got)
	}
	if !table.IntegrityCheck() {
		t.Error("integrity check failed after discard")
	}
}

func TestMatchesExcludeStaged(t *testing.T) {
	table := newTestTable(t)
	table.Field = []cards.Name{"matsu-ni-tsuru", "matsu-no-tan", "sakura-no-kasu-1"}
	table.Deck = nil

	matches := table.Matches("matsu-no-kasu-1")
	if len(matches) != 2 {
		t.Fatalf("matches = %v, want both pine cards", matches)
	}

	table.StageForCollection([]cards.Name{"matsu-ni-tsuru"})
	matches = table.Matches("matsu-no-kasu-1")
	if len(matches) != 1 || matches[0] != "matsu-no-tan" {
		t.Errorf("matches with staged card = %v, want [matsu-no-tan]", matches)
	}
}

func TestIntegrityCheckDetectsLoss(t *testing.T) {
	table := newTestTable(t)
	table.Deal()
	table.Deck = table.Deck[1:] // drop a card

	if table.IntegrityCheck() {
		t.Error("integrity check passed with a missing card")
	}
}

func TestTableReset(t *testing.T) {
	table := newTestTable(t)
	table.Deal()
	table.StageForCollection([]cards.Name{table.Field[0]})
	table.CollectCards(P2)

	table.Reset()
	if len(table.Deck) != len(cards.Deck) {
		t.Errorf("deck = %d cards after reset, want %d", len(table.Deck), len(cards.Deck))
	}
	if len(table.Hand[P1]) != 0 || len(table.Hand[P2]) != 0 || len(table.Field) != 0 {
		t.Error("zones not cleared by reset")
	}
	if len(table.Collection[P1]) != 0 || len(table.Collection[P2]) != 0 {
		t.Error("collections not cleared by reset")
	}
	if len(table.Staged) != 0 {
		t.Error("staging area not cleared by reset")
	}
}
