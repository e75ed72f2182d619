package game

import (
	"github.com/hanafuda/koikoi-go/internal/cards"
	"github.com/hanafuda/koikoi-go/internal/yaku"
)

// Opponent rates moves for automated play. It only sees public
// information: its own hand, both collections and the field.
type Opponent struct {
	evaluator *yaku.Evaluator
	config    *Config
}

// NewOpponent builds a rater over the session's evaluator and rules.
func NewOpponent(evaluator *yaku.Evaluator, config *Config) *Opponent {
	return &Opponent{evaluator: evaluator, config: config}
}

// filterProgress applies the viewing rule to a progress list the same
// way scoring does, so the rater never chases yaku that cannot score.
func (o *Opponent) filterProgress(progress []yaku.Progress) []yaku.Progress {
	var filtered []yaku.Progress
	for _, p := range progress {
		if !yaku.ViewingYaku[p.Rule.Name()] {
			filtered = append(filtered, p)
		}
	}
	switch o.config.AllowViewingsYaku {
	case ViewingsNone:
		return filtered
	case ViewingsLimited:
		if len(filtered) > 0 {
			return progress
		}
		return filtered
	default:
		return progress
	}
}

// RateProgress scores a hypothetical collection: completed yaku count
// at face value, partial yaku at their expected payoff weighted by how
// much is collected and how much is still obtainable from restCards.
func (o *Opponent) RateProgress(progress []yaku.Progress, restCards []cards.Name) float64 {
	progress = o.filterProgress(progress)
	score := 0.0
	for _, p := range progress {
		if p.GotPoints > 0 {
			score += float64(p.GotPoints)
			continue
		}
		numRequired := float64(p.Rule.NumRequired())
		got := float64(len(p.CollectedCards)) / numRequired
		reachable := append(append([]cards.Name{}, p.CollectedCards...), restCards...)
		couldGet := float64(len(p.Rule.Find(reachable))) / numRequired
		score += got * couldGet * float64(p.Rule.Points())
	}
	return score
}

// RateDiscard penalizes giving a card away, weighted by its type, and
// credits hands that can still match it later.
func (o *Opponent) RateDiscard(card cards.Name, restCards []cards.Name) float64 {
	var penalty float64
	switch cards.TypeOf(card) {
	case cards.Bright:
		penalty = -20
	case cards.Animal:
		penalty = -10
	case cards.Ribbon:
		penalty = -5
	default:
		penalty = -1
	}
	return penalty + float64(len(cards.MatchByMonth(restCards, card)))/3
}

// SelectCard picks the hand card with the best rating for the player:
// matches are rated by the yaku progress they unlock, matchless cards
// by their discard penalty. With two candidate matches both branches
// are rated and the better one counts.
func (o *Opponent) SelectCard(table *CardTable, player PlayerKey) cards.Name {
	hand := table.Hand[player]
	if len(hand) == 0 {
		return ""
	}
	collection := table.Collection[player]
	opponentCollection := table.Collection[player.Opponent()]

	bestIndex := 0
	bestScore := 0.0
	for i, card := range hand {
		rest := make([]cards.Name, 0, len(hand)-1)
		rest = append(rest, hand[:i]...)
		rest = append(rest, hand[i+1:]...)

		matches := table.Matches(card)
		var score float64
		switch len(matches) {
		case 0:
			score = o.RateDiscard(card, rest)
		case 2:
			a := o.rateCapture(card, matches[0], collection, opponentCollection, rest)
			b := o.rateCapture(card, matches[1], collection, opponentCollection, rest)
			if a > b {
				score = a
			} else {
				score = b
			}
		default: // 1 or 3 matches capture everything
			hypothetical := append([]cards.Name{card}, matches...)
			hypothetical = append(hypothetical, collection...)
			progress := o.evaluator.GetProgress(hypothetical, opponentCollection)
			score = o.RateProgress(progress, rest)
		}
		if i == 0 || score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}
	return hand[bestIndex]
}

// ChooseMatch picks which of two candidate matches to capture.
func (o *Opponent) ChooseMatch(table *CardTable, player PlayerKey, selected cards.Name, matches []cards.Name) cards.Name {
	if len(matches) != 2 {
		return matches[0]
	}
	hand := table.Hand[player]
	collection := table.Collection[player]
	opponentCollection := table.Collection[player.Opponent()]
	a := o.rateCapture(selected, matches[0], collection, opponentCollection, hand)
	b := o.rateCapture(selected, matches[1], collection, opponentCollection, hand)
	if a > b {
		return matches[0]
	}
	return matches[1]
}

func (o *Opponent) rateCapture(selected, match cards.Name, collection, opponentCollection, restCards []cards.Name) float64 {
	hypothetical := append([]cards.Name{selected, match}, collection...)
	progress := o.evaluator.GetProgress(hypothetical, opponentCollection)
	return o.RateProgress(progress, restCards)
}
