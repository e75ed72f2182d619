// Package cards holds the hanafuda card catalog and the pure helpers
// that select, group, and match cards by month and type.
package cards

// Type classifies a card for capture scoring.
type Type string

// Card types in descending point order.
const (
	Bright Type = "bright"
	Animal Type = "animal"
	Ribbon Type = "ribbon"
	Plain  Type = "plain"
)

// Types lists the card types in catalog order.
var Types = []Type{Bright, Animal, Ribbon, Plain}

// Name identifies a card by its traditional romaji name.
type Name string

// Back is the face-down sentinel clients render for hidden cards. It
// never appears in any zone.
const Back Name = "back"

// Card describes one of the 48 flower cards.
type Card struct {
	Name  Name `json:"name"`
	Type  Type `json:"type"`
	Month int  `json:"month"`
}

// Deck is the full 48-card deck in catalog order, grouped by flower.
var Deck = []Name{
	"matsu-ni-tsuru", "matsu-no-tan", "matsu-no-kasu-1", "matsu-no-kasu-2",
	"ume-ni-uguisu", "ume-no-tan", "ume-no-kasu-1", "ume-no-kasu-2",
	"sakura-ni-maku", "sakura-no-tan", "sakura-no-kasu-1", "sakura-no-kasu-2",
	"ayame-ni-yatsuhashi", "ayame-no-tan", "ayame-no-kasu-1", "ayame-no-kasu-2",
	"hagi-ni-inoshishi", "hagi-no-tan", "hagi-no-kasu-1", "hagi-no-kasu-2",
	"botan-ni-chou", "botan-no-tan", "botan-no-kasu-1", "botan-no-kasu-2",
	"fuji-ni-kakku", "fuji-no-tan", "fuji-no-kasu-1", "fuji-no-kasu-2",
	"susuki-ni-tsuki", "susuki-ni-kari", "susuki-no-kasu-1", "susuki-no-kasu-2",
	"kiku-ni-sakazuki", "kiku-no-tan", "kiku-no-kasu-1", "kiku-no-kasu-2",
	"momiji-ni-shika", "momiji-no-tan", "momiji-no-kasu-1", "momiji-no-kasu-2",
	"yanagi-ni-ono-no-toufuu", "yanagi-ni-tsubame", "yanagi-no-tan", "yanagi-no-kasu",
	"kiri-ni-ho-oh", "kiri-no-kasu-1", "kiri-no-kasu-2", "kiri-no-kasu-3",
}

// Catalog maps every card name to its type and month.
var Catalog = map[Name]Card{
	"matsu-ni-tsuru":          {Name: "matsu-ni-tsuru", Type: Bright, Month: 1},
	"matsu-no-tan":            {Name: "matsu-no-tan", Type: Ribbon, Month: 1},
	"matsu-no-kasu-1":         {Name: "matsu-no-kasu-1", Type: Plain, Month: 1},
	"matsu-no-kasu-2":         {Name: "matsu-no-kasu-2", Type: Plain, Month: 1},
	"ume-ni-uguisu":           {Name: "ume-ni-uguisu", Type: Animal, Month: 2},
	"ume-no-tan":              {Name: "ume-no-tan", Type: Ribbon, Month: 2},
	"ume-no-kasu-1":           {Name: "ume-no-kasu-1", Type: Plain, Month: 2},
	"ume-no-kasu-2":           {Name: "ume-no-kasu-2", Type: Plain, Month: 2},
	"sakura-ni-maku":          {Name: "sakura-ni-maku", Type: Bright, Month: 3},
	"sakura-no-tan":           {Name: "sakura-no-tan", Type: Ribbon, Month: 3},
	"sakura-no-kasu-1":        {Name: "sakura-no-kasu-1", Type: Plain, Month: 3},
	"sakura-no-kasu-2":        {Name: "sakura-no-kasu-2", Type: Plain, Month: 3},
	"fuji-ni-kakku":           {Name: "fuji-ni-kakku", Type: Animal, Month: 4},
	"fuji-no-tan":             {Name: "fuji-no-tan", Type: Ribbon, Month: 4},
	"fuji-no-kasu-1":          {Name: "fuji-no-kasu-1", Type: Plain, Month: 4},
	"fuji-no-kasu-2":          {Name: "fuji-no-kasu-2", Type: Plain, Month: 4},
	"ayame-ni-yatsuhashi":     {Name: "ayame-ni-yatsuhashi", Type: Animal, Month: 5},
	"ayame-no-tan":            {Name: "ayame-no-tan", Type: Ribbon, Month: 5},
	"ayame-no-kasu-1":         {Name: "ayame-no-kasu-1", Type: Plain, Month: 5},
	"ayame-no-kasu-2":         {Name: "ayame-no-kasu-2", Type: Plain, Month: 5},
	"botan-ni-chou":           {Name: "botan-ni-chou", Type: Animal, Month: 6},
	"botan-no-tan":            {Name: "botan-no-tan", Type: Ribbon, Month: 6},
	"botan-no-kasu-1":         {Name: "botan-no-kasu-1", Type: Plain, Month: 6},
	"botan-no-kasu-2":         {Name: "botan-no-kasu-2", Type: Plain, Month: 6},
	"hagi-ni-inoshishi":       {Name: "hagi-ni-inoshishi", Type: Animal, Month: 7},
	"hagi-no-tan":             {Name: "hagi-no-tan", Type: Ribbon, Month: 7},
	"hagi-no-kasu-1":          {Name: "hagi-no-kasu-1", Type: Plain, Month: 7},
	"hagi-no-kasu-2":          {Name: "hagi-no-kasu-2", Type: Plain, Month: 7},
	"susuki-ni-tsuki":         {Name: "susuki-ni-tsuki", Type: Bright, Month: 8},
	"susuki-ni-kari":          {Name: "susuki-ni-kari", Type: Animal, Month: 8},
	"susuki-no-kasu-1":        {Name: "susuki-no-kasu-1", Type: Plain, Month: 8},
	"susuki-no-kasu-2":        {Name: "susuki-no-kasu-2", Type: Plain, Month: 8},
	"kiku-ni-sakazuki":        {Name: "kiku-ni-sakazuki", Type: Animal, Month: 9},
	"kiku-no-tan":             {Name: "kiku-no-tan", Type: Ribbon, Month: 9},
	"kiku-no-kasu-1":          {Name: "kiku-no-kasu-1", Type: Plain, Month: 9},
	"kiku-no-kasu-2":          {Name: "kiku-no-kasu-2", Type: Plain, Month: 9},
	"momiji-ni-shika":         {Name: "momiji-ni-shika", Type: Animal, Month: 10},
	"momiji-no-tan":           {Name: "momiji-no-tan", Type: Ribbon, Month: 10},
	"momiji-no-kasu-1":        {Name: "momiji-no-kasu-1", Type: Plain, Month: 10},
	"momiji-no-kasu-2":        {Name: "momiji-no-kasu-2", Type: Plain, Month: 10},
	"yanagi-ni-ono-no-toufuu": {Name: "yanagi-ni-ono-no-toufuu", Type: Bright, Month: 11},
	"yanagi-ni-tsubame":       {Name: "yanagi-ni-tsubame", Type: Animal, Month: 11},
	"yanagi-no-tan":           {Name: "yanagi-no-tan", Type: Ribbon, Month: 11},
	"yanagi-no-kasu":          {Name: "yanagi-no-kasu", Type: Plain, Month: 11},
	"kiri-ni-ho-oh":           {Name: "kiri-ni-ho-oh", Type: Bright, Month: 12},
	"kiri-no-kasu-1":          {Name: "kiri-no-kasu-1", Type: Plain, Month: 12},
	"kiri-no-kasu-2":          {Name: "kiri-no-kasu-2", Type: Plain, Month: 12},
	"kiri-no-kasu-3":          {Name: "kiri-no-kasu-3", Type: Plain, Month: 12},
}

// MonthOf returns the card's month, or 0 for an unknown name.
func MonthOf(card Name) int {
	return Catalog[card].Month
}

// TypeOf returns the card's type, or the empty string for an unknown name.
func TypeOf(card Name) Type {
	return Catalog[card].Type
}

// OfType returns the cards in the slice with the given type, preserving order.
func OfType(cards []Name, cardType Type) []Name {
	var out []Name
	for _, c := range cards {
		if Catalog[c].Type == cardType {
			out = append(out, c)
		}
	}
	return out
}

// OfMonth returns the cards in the slice with the given month, preserving order.
func OfMonth(cards []Name, month int) []Name {
	var out []Name
	for _, c := range cards {
		if entry, ok := Catalog[c]; ok && entry.Month == month {
			out = append(out, c)
		}
	}
	return out
}

// ByType groups cards into the four type buckets.
type ByType struct {
	Brights []Name
	Animals []Name
	Ribbons []Name
	Plains  []Name
}

// SortByType partitions cards into type buckets, preserving order within each.
func SortByType(cards []Name) ByType {
	return ByType{
		Brights: OfType(cards, Bright),
		Animals: OfType(cards, Animal),
		Ribbons: OfType(cards, Ribbon),
		Plains:  OfType(cards, Plain),
	}
}

// MatchByMonth returns the cards sharing a month with the matching card.
// An unknown matching card yields no matches.
func MatchByMonth(cards []Name, matching Name) []Name {
	entry, ok := Catalog[matching]
	if !ok {
		return nil
	}
	return OfMonth(cards, entry.Month)
}
