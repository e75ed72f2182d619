package cards

import (
	"testing"
)

func TestCatalogComposition(t *testing.T) {
	if len(Deck) != 48 {
		t.Fatalf("deck has %d cards, want 48", len(Deck))
	}
	if len(Catalog) != 48 {
		t.Fatalf("catalog has %d cards, want 48", len(Catalog))
	}
	for _, name := range Deck {
		if _, ok := Catalog[name]; !ok {
			t.Errorf("deck card %q missing from catalog", name)
		}
	}
	counts := map[Type]int{}
	perMonth := map[int]int{}
	for _, card := range Catalog {
		counts[card.Type]++
		perMonth[card.Month]++
	}
	want := map[Type]int{Bright: 5, Animal: 9, Ribbon: 10, Plain: 24}
	for typ, n := range want {
		if counts[typ] != n {
			t.Errorf("%s count = %d, want %d", typ, counts[typ], n)
		}
	}
	for month := 1; month <= 12; month++ {
		if perMonth[month] != 4 {
			t.Errorf("month %d has %d cards, want 4", month, perMonth[month])
		}
	}
}

func TestMatchByMonth(t *testing.T) {
	field := []Name{"matsu-no-tan", "ume-no-kasu-1", "matsu-no-kasu-2", "kiri-ni-ho-oh"}
	matches := MatchByMonth(field, "matsu-ni-tsuru")
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2: %v", len(matches), matches)
	}
	if matches[0] != "matsu-no-tan" || matches[1] != "matsu-no-kasu-2" {
		t.Fatalf("matches out of order: %v", matches)
	}
	if got := MatchByMonth(field, "not-a-card"); got != nil {
		t.Fatalf("unknown card matched %v", got)
	}
}

func TestSortByType(t *testing.T) {
	hand := []Name{"kiri-ni-ho-oh", "hagi-no-kasu-1", "momiji-ni-shika", "kiku-no-tan", "ume-no-kasu-2"}
	sorted := SortByType(hand)
	if len(sorted.Brights) != 1 || sorted.Brights[0] != "kiri-ni-ho-oh" {
		t.Errorf("brights = %v", sorted.Brights)
	}
	if len(sorted.Animals) != 1 || sorted.Animals[0] != "momiji-ni-shika" {
		t.Errorf("animals = %v", sorted.Animals)
	}
	if len(sorted.Ribbons) != 1 || sorted.Ribbons[0] != "kiku-no-tan" {
		t.Errorf("ribbons = %v", sorted.Ribbons)
	}
	if len(sorted.Plains) != 2 {
		t.Errorf("plains = %v", sorted.Plains)
	}
}

func TestShufflePermutation(t *testing.T) {
	deal := ShuffleSeeded("game-seed", "round-seed", 1)
	if len(deal) != 48 {
		t.Fatalf("shuffle produced %d cards, want 48", len(deal))
	}
	seen := map[Name]int{}
	for _, c := range deal {
		seen[c]++
	}
	for _, name := range Deck {
		if seen[name] != 1 {
			t.Errorf("card %q appears %d times", name, seen[name])
		}
	}
}

func TestShuffleDeterministic(t *testing.T) {
	a := ShuffleSeeded("game-seed", "round-seed", 3)
	b := ShuffleSeeded("game-seed", "round-seed", 3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d differs: %q vs %q", i, a[i], b[i])
		}
	}
	c := ShuffleSeeded("game-seed", "round-seed", 4)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different rounds produced identical deals")
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	deck := make([]Name, len(Deck))
	copy(deck, Deck)
	Shuffle(deck, make([]float64, len(deck)))
	for i, name := range Deck {
		if deck[i] != name {
			t.Fatalf("input deck mutated at %d: %q", i, deck[i])
		}
	}
}

func TestShuffleCrypto(t *testing.T) {
	deal, seed, err := ShuffleCrypto()
	if err != nil {
		t.Fatal(err)
	}
	if len(deal) != 48 {
		t.Fatalf("got %d cards", len(deal))
	}
	replay := ShuffleSeeded(seed, seed, 0)
	for i := range deal {
		if deal[i] != replay[i] {
			t.Fatalf("seed did not reproduce deal at %d", i)
		}
	}
}
