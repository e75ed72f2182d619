// Package yaku scores hanafuda card collections. Each scoring
// combination is a Rule; an Evaluator owns a rule table so the dynamic
// month rule can vary per game without shared state.
package yaku

import (
	"github.com/hanafuda/koikoi-go/internal/cards"
)

// Name identifies a yaku.
type Name string

// All yaku names, strongest first.
const (
	Gokou        Name = "gokou"
	Shikou       Name = "shikou"
	AmeShikou    Name = "ame-shikou"
	Sankou       Name = "sankou"
	HanamiZake   Name = "hanami-zake"
	TsukimiZake  Name = "tsukimi-zake"
	InoShikaChou Name = "ino-shika-chou"
	AkaTan       Name = "aka-tan"
	AoTan        Name = "ao-tan"
	TanZaku      Name = "tan-zaku"
	TaneZaku     Name = "tane-zaku"
	Kasu         Name = "kasu"
	Kuttsuki     Name = "kuttsuki"
	Teshi        Name = "teshi"
	TsukiFuda    Name = "tsuki-fuda"
)

// Names lists every yaku in evaluation order.
var Names = []Name{
	Gokou, Shikou, AmeShikou, Sankou,
	HanamiZake, TsukimiZake, InoShikaChou,
	AkaTan, AoTan, TanZaku, TaneZaku, Kasu,
	Kuttsuki, Teshi, TsukiFuda,
}

// Teyaku are hand yaku checked at the deal, before any play.
var Teyaku = map[Name]bool{Kuttsuki: true, Teshi: true}

// ViewingYaku are the sake-cup viewings that rule variants may disable.
var ViewingYaku = map[Name]bool{HanamiZake: true, TsukimiZake: true}

const rainMan = cards.Name("yanagi-ni-ono-no-toufuu")

// Rule is one scoring combination over a card collection.
type Rule interface {
	Name() Name
	// Points is the base score when the rule completes.
	Points() int
	// Cards lists the cards counting toward the rule. Empty for hand
	// shape rules whose member cards depend on the hand itself.
	Cards() []cards.Name
	// NumRequired is the number of member cards needed to complete.
	NumRequired() int
	// Find returns the member cards present in the collection, in the
	// rule's card order.
	Find(collection []cards.Name) []cards.Name
	// Check returns the score the collection earns, or 0.
	Check(collection []cards.Name) int
}

type cardSet map[cards.Name]bool

func toSet(collection []cards.Name) cardSet {
	set := make(cardSet, len(collection))
	for _, c := range collection {
		set[c] = true
	}
	return set
}

func intersect(set cardSet, members []cards.Name) []cards.Name {
	var out []cards.Name
	for _, c := range members {
		if set[c] {
			out = append(out, c)
		}
	}
	return out
}

// setRule completes when enough of a fixed card set is collected.
// exact rules void when extra member cards are held (the bright yaku
// are mutually exclusive); extra rules pay one point per surplus card.
type setRule struct {
	name        Name
	points      int
	cards       []cards.Name
	numRequired int
	exact       bool
	needsRain   bool
	voidsOnRain bool
	extraPoints bool
}

func (r *setRule) Name() Name           { return r.name }
func (r *setRule) Points() int          { return r.points }
func (r *setRule) Cards() []cards.Name  { return r.cards }
func (r *setRule) NumRequired() int     { return r.numRequired }

func (r *setRule) Find(collection []cards.Name) []cards.Name {
	return intersect(toSet(collection), r.cards)
}

func (r *setRule) Check(collection []cards.Name) int {
	if len(collection) < r.numRequired {
		return 0
	}
	set := toSet(collection)
	if r.voidsOnRain && set[rainMan] {
		return 0
	}
	if r.needsRain && !set[rainMan] {
		return 0
	}
	progress := intersect(set, r.cards)
	if r.exact {
		if len(progress) != r.numRequired {
			return 0
		}
	} else if len(progress) < r.numRequired {
		return 0
	}
	score := r.points
	if r.extraPoints {
		score += len(progress) - r.numRequired
	}
	return score
}
