package stats

import (
	"github.com/hanafuda/koikoi-go/internal/cards"
	"github.com/hanafuda/koikoi-go/internal/game"
)

// RoundRecord is everything a finished round contributes to one
// player's statistics.
type RoundRecord struct {
	Result   game.RoundResult
	Events   []game.Event
	Player   game.PlayerKey
	Captured []cards.Name
}

// TrackRound applies one finished round to the stats: the round
// outcome, completed yaku, capture counts by type, and the koi-koi
// call outcomes for the tracked player.
func (s *Stats) TrackRound(record RoundRecord) {
	s.trackOutcome(record)
	s.trackYaku(record)
	s.trackCaptures(record)
	s.trackKoiKoi(record)
}

func (s *Stats) trackOutcome(record RoundRecord) {
	switch record.Result.Winner {
	case record.Player:
		s.Increment(KeyRoundsPlayed("win"), 1)
	case "":
		s.Increment(KeyRoundsPlayed("draw"), 1)
	default:
		s.Increment(KeyRoundsPlayed("loss"), 1)
	}
	s.Increment(KeyTotalRounds, 1)
}

func (s *Stats) trackYaku(record RoundRecord) {
	if record.Result.Winner != record.Player {
		return
	}
	for _, report := range record.Result.CompletedYaku {
		s.Increment(KeyYakuCompleted(report.Name), 1)
		s.Increment(KeyTotalYaku, 1)
	}
}

func (s *Stats) trackCaptures(record RoundRecord) {
	grouped := cards.SortByType(record.Captured)
	for cardType, captured := range map[cards.Type][]cards.Name{
		cards.Bright: grouped.Brights,
		cards.Animal: grouped.Animals,
		cards.Ribbon: grouped.Ribbons,
		cards.Plain:  grouped.Plains,
	} {
		if n := len(captured); n > 0 {
			s.Increment(KeyCardsCaptured(cardType), n)
			s.Increment(KeyTotalCaptured, n)
		}
	}
}

// trackKoiKoi classifies the round's koi-koi calls: a call that held
// up is a success, one that lost the round a fail, winning after the
// opponent called is a reversal, and more than one call in the round
// stacks.
func (s *Stats) trackKoiKoi(record RoundRecord) {
	ownCalls, opponentCalls := 0, 0
	for _, event := range record.Events {
		if event.Type != game.EventPlayer || event.Action != game.ActionKoiKoi {
			continue
		}
		if event.Player == record.Player {
			ownCalls++
		} else {
			opponentCalls++
		}
	}
	won := record.Result.Winner == record.Player
	if ownCalls > 0 {
		if won {
			s.Increment(KeyKoiKoiCalled("success"), 1)
		} else {
			s.Increment(KeyKoiKoiCalled("fail"), 1)
		}
		if ownCalls > 1 {
			s.Increment(KeyKoiKoiCalled("stack"), 1)
		}
	}
	if won && opponentCalls > 0 {
		s.Increment(KeyKoiKoiCalled("reversal"), 1)
	}
}
