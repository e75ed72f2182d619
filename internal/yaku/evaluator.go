package yaku

import (
	"github.com/hanafuda/koikoi-go/internal/cards"
)

// Evaluator scores collections against its own rule table. Each game
// session builds its own evaluator so the month rule is isolated.
type Evaluator struct {
	rules map[Name]Rule
	month *monthRule
}

// NewEvaluator builds an evaluator with the month rule disabled.
func NewEvaluator() *Evaluator {
	rules, month := buildRules()
	return &Evaluator{rules: rules, month: month}
}

// SetMonth activates the tsuki-fuda rule for the given month (1-12).
// Month 0 disables it.
func (e *Evaluator) SetMonth(month int) {
	if month < 1 || month > 12 {
		e.month.cards = nil
		return
	}
	e.month.setMonth(month)
}

// Rule returns the named rule, or nil.
func (e *Evaluator) Rule(name Name) Rule {
	return e.rules[name]
}

// SetSakeAsWild adds or removes the sake cup from the kasu member set,
// implementing the wild-card rule variant.
func (e *Evaluator) SetSakeAsWild(wild bool) {
	const sakeCup = cards.Name("kiku-ni-sakazuki")
	rule := e.rules[Kasu].(*setRule)
	idx := -1
	for i, c := range rule.cards {
		if c == sakeCup {
			idx = i
			break
		}
	}
	if wild && idx < 0 {
		rule.cards = append(rule.cards, sakeCup)
	}
	if !wild && idx >= 0 {
		rule.cards = append(rule.cards[:idx], rule.cards[idx+1:]...)
	}
}

// Report is the score and member cards of one completed yaku.
type Report struct {
	Name   Name         `json:"name"`
	Cards  []cards.Name `json:"cards"`
	Points int          `json:"points"`
}

// CheckAll scores a capture pile against every non-teyaku rule. When
// excludeViewings is set the sake-cup viewings are skipped. Returns the
// completed yaku in evaluation order and the total score.
func (e *Evaluator) CheckAll(collection []cards.Name, excludeViewings bool) ([]Name, int) {
	var completed []Name
	score := 0
	for _, name := range Names {
		if Teyaku[name] {
			continue
		}
		if excludeViewings && ViewingYaku[name] {
			continue
		}
		points := e.rules[name].Check(collection)
		if points > 0 {
			completed = append(completed, name)
			score += points
		}
	}
	return completed, score
}

// Completed expands completed yaku names into full reports against the
// collection that earned them.
func (e *Evaluator) Completed(collection []cards.Name, completed []Name) []Report {
	reports := make([]Report, 0, len(completed))
	for _, name := range completed {
		rule := e.rules[name]
		reports = append(reports, Report{
			Name:   name,
			Cards:  rule.Find(collection),
			Points: rule.Check(collection),
		})
	}
	return reports
}

// CheckTeyaku inspects a freshly dealt hand for kuttsuki or teshi.
// Returns nil when the hand has neither shape.
func (e *Evaluator) CheckTeyaku(hand []cards.Name) *Report {
	name, matched := matchTeyaku(hand)
	if name == "" || len(hand) < 8 {
		return nil
	}
	return &Report{Name: name, Cards: matched, Points: e.rules[name].Points()}
}

// Progress describes a player's advance toward one yaku.
type Progress struct {
	Rule           Rule
	CollectedCards []cards.Name
	GotPoints      int
}

// GetProgress reports every non-teyaku rule the player has started and
// the opponent has not made unreachable. A rule is reachable while the
// opponent holds few enough of its member cards that completion is
// still possible.
func (e *Evaluator) GetProgress(collection, opponentCollection []cards.Name) []Progress {
	opponent := toSet(opponentCollection)
	var out []Progress
	for _, name := range Names {
		if Teyaku[name] {
			continue
		}
		rule := e.rules[name]
		opponentHas := len(intersect(opponent, rule.Cards()))
		if len(rule.Cards())-opponentHas < rule.NumRequired() {
			continue
		}
		collected := rule.Find(collection)
		if len(collected) == 0 {
			continue
		}
		out = append(out, Progress{
			Rule:           rule,
			CollectedCards: collected,
			GotPoints:      rule.Check(collection),
		})
	}
	return out
}
