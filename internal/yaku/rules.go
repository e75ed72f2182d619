package yaku

import (
	"github.com/hanafuda/koikoi-go/internal/cards"
)

// handShapeRule covers the teyaku: a full 8-card dealt hand that is
// four pairs (kuttsuki) or contains four of a month (teshi).
type handShapeRule struct {
	name   Name
	points int
}

func (r *handShapeRule) Name() Name          { return r.name }
func (r *handShapeRule) Points() int         { return r.points }
func (r *handShapeRule) Cards() []cards.Name { return nil }
func (r *handShapeRule) NumRequired() int    { return 8 }

func (r *handShapeRule) Find(collection []cards.Name) []cards.Name { return nil }

func (r *handShapeRule) Check(hand []cards.Name) int {
	if len(hand) < r.NumRequired() {
		return 0
	}
	name, _ := matchTeyaku(hand)
	if name == r.name {
		return r.points
	}
	return 0
}

// matchTeyaku inspects a dealt hand for a teyaku shape. It returns the
// matched yaku and the cards forming it, or an empty name.
func matchTeyaku(hand []cards.Name) (Name, []cards.Name) {
	monthCount := map[int]int{}
	for _, c := range hand {
		monthCount[cards.MonthOf(c)]++
	}
	allPairs := true
	hasFour := false
	for _, n := range monthCount {
		if n != 2 {
			allPairs = false
		}
		if n == 4 {
			hasFour = true
		}
	}
	if allPairs {
		return Kuttsuki, hand
	}
	if hasFour {
		var quad []cards.Name
		for _, c := range hand {
			if monthCount[cards.MonthOf(c)] == 4 {
				quad = append(quad, c)
			}
		}
		return Teshi, quad
	}
	return "", nil
}

// monthRule is tsuki-fuda: all four cards of the current game month.
type monthRule struct {
	points int
	cards  []cards.Name
}

func (r *monthRule) Name() Name          { return TsukiFuda }
func (r *monthRule) Points() int         { return r.points }
func (r *monthRule) Cards() []cards.Name { return r.cards }
func (r *monthRule) NumRequired() int    { return 4 }

func (r *monthRule) Find(collection []cards.Name) []cards.Name {
	return intersect(toSet(collection), r.cards)
}

func (r *monthRule) Check(collection []cards.Name) int {
	if len(collection) < r.NumRequired() || len(r.cards) == 0 {
		return 0
	}
	if len(r.Find(collection)) < r.NumRequired() {
		return 0
	}
	return r.points
}

func (r *monthRule) setMonth(month int) {
	r.cards = cards.OfMonth(cards.Deck, month)
}

func buildRules() (map[Name]Rule, *monthRule) {
	month := &monthRule{points: 4}
	table := map[Name]Rule{
		Gokou: &setRule{
			name: Gokou, points: 15, numRequired: 5,
			cards: []cards.Name{"matsu-ni-tsuru", "sakura-ni-maku", "susuki-ni-tsuki", "kiri-ni-ho-oh", "yanagi-ni-ono-no-toufuu"},
		},
		Shikou: &setRule{
			name: Shikou, points: 8, numRequired: 4, exact: true, voidsOnRain: true,
			cards: []cards.Name{"matsu-ni-tsuru", "sakura-ni-maku", "susuki-ni-tsuki", "kiri-ni-ho-oh"},
		},
		AmeShikou: &setRule{
			name: AmeShikou, points: 7, numRequired: 4, exact: true, needsRain: true,
			cards: []cards.Name{"matsu-ni-tsuru", "sakura-ni-maku", "susuki-ni-tsuki", "kiri-ni-ho-oh", "yanagi-ni-ono-no-toufuu"},
		},
		Sankou: &setRule{
			name: Sankou, points: 6, numRequired: 3, exact: true, voidsOnRain: true,
			cards: []cards.Name{"matsu-ni-tsuru", "sakura-ni-maku", "susuki-ni-tsuki", "kiri-ni-ho-oh"},
		},
		InoShikaChou: &setRule{
			name: InoShikaChou, points: 5, numRequired: 3,
			cards: []cards.Name{"hagi-ni-inoshishi", "momiji-ni-shika", "botan-ni-chou"},
		},
		HanamiZake: &setRule{
			name: HanamiZake, points: 5, numRequired: 2,
			cards: []cards.Name{"sakura-ni-maku", "kiku-ni-sakazuki"},
		},
		TsukimiZake: &setRule{
			name: TsukimiZake, points: 5, numRequired: 2,
			cards: []cards.Name{"susuki-ni-tsuki", "kiku-ni-sakazuki"},
		},
		AkaTan: &setRule{
			name: AkaTan, points: 5, numRequired: 3,
			cards: []cards.Name{"matsu-no-tan", "ume-no-tan", "sakura-no-tan"},
		},
		AoTan: &setRule{
			name: AoTan, points: 5, numRequired: 3,
			cards: []cards.Name{"botan-no-tan", "kiku-no-tan", "momiji-no-tan"},
		},
		TanZaku: &setRule{
			name: TanZaku, points: 1, numRequired: 5, extraPoints: true,
			cards: []cards.Name{
				"matsu-no-tan", "ume-no-tan", "sakura-no-tan", "ayame-no-tan", "hagi-no-tan",
				"botan-no-tan", "fuji-no-tan", "kiku-no-tan", "momiji-no-tan", "yanagi-no-tan",
			},
		},
		TaneZaku: &setRule{
			name: TaneZaku, points: 1, numRequired: 5, extraPoints: true,
			cards: []cards.Name{
				"ume-ni-uguisu", "ayame-ni-yatsuhashi", "hagi-ni-inoshishi", "botan-ni-chou",
				"fuji-ni-kakku", "susuki-ni-kari", "kiku-ni-sakazuki", "momiji-ni-shika", "yanagi-ni-tsubame",
			},
		},
		Kasu: &setRule{
			name: Kasu, points: 1, numRequired: 10, extraPoints: true,
			cards: cards.OfType(cards.Deck, cards.Plain),
		},
		Kuttsuki:  &handShapeRule{name: Kuttsuki, points: 6},
		Teshi:     &handShapeRule{name: Teshi, points: 6},
		TsukiFuda: month,
	}
	return table, month
}
