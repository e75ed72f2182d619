package game

import (
	"fmt"
	"log"

	"github.com/hanafuda/koikoi-go/internal/cards"
	"github.com/hanafuda/koikoi-go/internal/yaku"
)

// Session owns the full state of one koi-koi game: the card table,
// progression data, players, rules, evaluator and decision protocol.
// Sessions are independent; nothing is shared between games.
type Session struct {
	Table     *CardTable
	Data      *GameData
	Players   *Players
	Config    *Config
	Evaluator *yaku.Evaluator
	Decision  *DecisionHandler
	Opponent  *Opponent

	logger *log.Logger
	// yaku already credited per player this round, so only newly
	// completed yaku trigger the koi-koi decision
	credited map[PlayerKey]map[yaku.Name]bool
	selected cards.Name
}

// NewSession builds a ready-to-play session with a shuffled deck.
func NewSession(config *Config, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.Default()
	}
	if config == nil {
		config = DefaultConfig()
	}
	table, err := NewCardTable(logger)
	if err != nil {
		return nil, fmt.Errorf("game: new session: %w", err)
	}
	evaluator := yaku.NewEvaluator()
	evaluator.SetSakeAsWild(config.SakeIsWildCard)
	s := &Session{
		Table:     table,
		Data:      NewGameData(logger),
		Players:   NewPlayers(),
		Config:    config,
		Evaluator: evaluator,
		Decision:  NewDecisionHandler(),
		logger:    logger,
		credited:  newCreditedSet(),
	}
	s.Opponent = NewOpponent(evaluator, config)
	return s, nil
}

// roundMonth maps the round counter onto a game month for the
// cards-of-the-month yaku.
func (s *Session) roundMonth() int {
	return (s.Data.RoundCounter-1)%12 + 1
}

// StartRound deals the round and activates the month rule.
func (s *Session) StartRound() error {
	if err := s.Data.StartRound(s.Table); err != nil {
		return err
	}
	s.Evaluator.SetMonth(s.roundMonth())
	s.credited = newCreditedSet()
	s.selected = ""
	return nil
}

// ResyncRules realigns the evaluator and per-round session state with
// the restored stores. The credited-yaku set is not serialized; it is
// rebuilt from the restored collections so already-complete yaku do not
// re-open a koi-koi decision on the next capture. A decision that was
// pending at save time does not survive the restore.
func (s *Session) ResyncRules() {
	s.Evaluator.SetSakeAsWild(s.Config.SakeIsWildCard)
	s.Evaluator.SetMonth(s.roundMonth())
	s.Decision.Reset()
	s.selected = ""
	s.credited = newCreditedSet()
	for _, key := range []PlayerKey{P1, P2} {
		completed, _ := s.Evaluator.CheckAll(s.Table.Collection[key], false)
		for _, name := range s.Config.ApplyViewingsOption(completed) {
			s.credited[key][name] = true
		}
	}
}

func newCreditedSet() map[PlayerKey]map[yaku.Name]bool {
	return map[PlayerKey]map[yaku.Name]bool{
		P1: {},
		P2: {},
	}
}

// CheckDealtTeyaku inspects both dealt hands for an instant-win hand
// shape. When found, the round is scored and ended immediately and the
// winning report returned; otherwise nil.
func (s *Session) CheckDealtTeyaku() *RoundResult {
	for _, key := range []PlayerKey{P1, P2} {
		report := s.Evaluator.CheckTeyaku(s.Table.Hand[key])
		if report == nil {
			continue
		}
		s.Data.LogPlayerAction(key, ActionComplete, report.Cards, report.Name)
		result := s.Data.SaveResult(RoundResult{
			Winner:        key,
			Score:         report.Points,
			CompletedYaku: []yaku.Report{*report},
		})
		s.Data.EndRound(s.Config.MaxRounds)
		return &result
	}
	return nil
}

// Selected returns the card currently picked for play.
func (s *Session) Selected() cards.Name {
	return s.selected
}

// SelectFromHand picks a card from the active player's hand during the
// select phase.
func (s *Session) SelectFromHand(card cards.Name) error {
	if !s.Data.CheckCurrentPhase(PhaseSelect) {
		return fmt.Errorf("game: select out of phase %q", s.Data.TurnPhase)
	}
	active := s.Players.Active()
	if active == nil {
		return fmt.Errorf("game: no active player")
	}
	if !containsCard(s.Table.Hand[active.ID], card) {
		return fmt.Errorf("game: card %q not in %s hand", card, active.ID)
	}
	s.selected = card
	return nil
}

// AutoSelect has the move rater pick for the active player.
func (s *Session) AutoSelect() error {
	if !s.Data.CheckCurrentPhase(PhaseSelect) {
		return fmt.Errorf("game: select out of phase %q", s.Data.TurnPhase)
	}
	active := s.Players.Active()
	if active == nil {
		return fmt.Errorf("game: no active player")
	}
	s.selected = s.Opponent.SelectCard(s.Table, active.ID)
	if s.selected == "" {
		return fmt.Errorf("game: %s has no cards to select", active.ID)
	}
	return nil
}

// MatchSelection resolves the selected card against an explicitly
// chosen field match. Choosing a card outside the reported match set
// is a caller bug and fails loudly.
func (s *Session) MatchSelection(fieldCard cards.Name) error {
	matches := s.Table.Matches(s.selected)
	if !containsCard(matches, fieldCard) {
		return fmt.Errorf("game: %q does not match selected %q", fieldCard, s.selected)
	}
	active := s.Players.Active().ID
	if len(matches) == 3 {
		// Three matches capture the whole month.
		s.stageMatch(active, append(matches, s.selected))
	} else {
		s.stageMatch(active, []cards.Name{fieldCard, s.selected})
	}
	return nil
}

func (s *Session) stageMatch(player PlayerKey, matched []cards.Name) {
	s.Data.LogPlayerAction(player, ActionMatch, matched, "")
	s.Table.StageForCollection(matched)
	if s.Data.CheckCurrentPhase(PhaseDraw) {
		s.Table.CollectCards(player)
	}
	s.selected = ""
	s.Data.NextPhase(s.Players)
}

// PlaySelected plays the selected card: capture when it matches the
// field, discard otherwise. Two candidate matches are disambiguated by
// the move rater.
func (s *Session) PlaySelected() error {
	if s.selected == "" {
		return fmt.Errorf("game: no card selected")
	}
	active := s.Players.Active()
	if active == nil {
		return fmt.Errorf("game: no active player")
	}
	matches := s.Table.Matches(s.selected)
	switch len(matches) {
	case 0:
		s.Table.Discard(s.selected, active.ID)
		s.Data.LogPlayerAction(active.ID, ActionDiscard, []cards.Name{s.selected}, "")
		s.selected = ""
		s.Data.NextPhase(s.Players)
	case 2:
		chosen := s.Opponent.ChooseMatch(s.Table, active.ID, s.selected, matches)
		s.stageMatch(active.ID, []cards.Name{chosen, s.selected})
	default:
		s.stageMatch(active.ID, append(matches, s.selected))
	}
	return nil
}

// Draw reveals the top deck card and selects it for play.
func (s *Session) Draw() error {
	if !s.Data.CheckCurrentPhase(PhaseDraw) {
		return fmt.Errorf("game: draw out of phase %q", s.Data.TurnPhase)
	}
	drawn := s.Table.RevealCard()
	if drawn == "" {
		return fmt.Errorf("game: deck exhausted")
	}
	s.selected = drawn
	active := s.Players.Active()
	if active != nil {
		s.Data.LogPlayerAction(active.ID, ActionDraw, []cards.Name{drawn}, "")
	}
	return nil
}

// Collect moves staged cards into the active player's collection
// during the collect phase.
func (s *Session) Collect() error {
	if !s.Data.CheckCurrentPhase(PhaseCollect) {
		return fmt.Errorf("game: collect out of phase %q", s.Data.TurnPhase)
	}
	active := s.Players.Active()
	if active == nil {
		return fmt.Errorf("game: no active player")
	}
	if len(s.Table.Staged) > 0 {
		s.Table.CollectCards(active.ID)
	}
	return nil
}

// EvaluateCompletions scores the player's collection and reports yaku
// completed beyond what was already credited this round. New
// completions are logged and open a koi-koi decision when the player
// can still continue.
func (s *Session) EvaluateCompletions(player PlayerKey) []yaku.Name {
	completed, _ := s.Evaluator.CheckAll(s.Table.Collection[player], false)
	scorable := s.Config.ApplyViewingsOption(completed)
	var fresh []yaku.Name
	for _, name := range scorable {
		if s.credited[player][name] {
			continue
		}
		fresh = append(fresh, name)
		s.credited[player][name] = true
		rule := s.Evaluator.Rule(name)
		s.Data.LogPlayerAction(player, ActionComplete, rule.Find(s.Table.Collection[player]), name)
	}
	if len(fresh) > 0 && s.Table.HandNotEmpty(player) {
		s.Decision.Begin()
	}
	return fresh
}

// CallKoiKoi continues the round, raising the bonus multiplier.
func (s *Session) CallKoiKoi(player PlayerKey) {
	s.Decision.CallKoiKoi()
	s.Players.IncrementBonus()
	s.Data.LogPlayerAction(player, ActionKoiKoi, nil, "")
}

// CallStop banks the player's points and ends the round. The round
// score is the scorable yaku total, doubled when the variant applies,
// times the koi-koi bonus multiplier.
func (s *Session) CallStop(player PlayerKey) RoundResult {
	s.Decision.CallStop()
	s.Data.LogPlayerAction(player, ActionStop, nil, "")

	collection := s.Table.Collection[player]
	completed, _ := s.Evaluator.CheckAll(collection, false)
	scorable := s.Config.ApplyViewingsOption(completed)
	baseScore := 0
	for _, name := range scorable {
		baseScore += s.Evaluator.Rule(name).Check(collection)
	}
	score := s.Config.ApplyDoubleScoreOption(baseScore) * s.Players.BonusMultiplier

	result := s.Data.SaveResult(RoundResult{
		Winner:        player,
		Score:         score,
		CompletedYaku: s.Evaluator.Completed(collection, scorable),
	})
	s.Data.EndRound(s.Config.MaxRounds)
	return result
}

// EndRoundDrawn ends an exhausted round with no winner.
func (s *Session) EndRoundDrawn() RoundResult {
	result := s.Data.SaveResult(RoundResult{})
	s.Data.EndRound(s.Config.MaxRounds)
	return result
}

// AdvanceRound transitions to the next round: new deal zones, winner
// deals, decision cleared.
func (s *Session) AdvanceRound() {
	s.Data.NextRound(s.Players, s.Table)
	s.Decision.Reset()
	s.credited = newCreditedSet()
	s.selected = ""
}

// PlayAutoTurn runs one player's full turn with automated choices:
// select, play, draw, play the drawn card, collect, evaluate, resolve
// any koi-koi decision. It reports whether the round ended.
func (s *Session) PlayAutoTurn() (bool, error) {
	active := s.Players.Active()
	if active == nil {
		return false, fmt.Errorf("game: no active player")
	}
	player := active.ID

	if err := s.AutoSelect(); err != nil {
		return false, err
	}
	if err := s.PlaySelected(); err != nil {
		return false, err
	}
	if err := s.Draw(); err != nil {
		return false, err
	}
	if err := s.PlaySelected(); err != nil {
		return false, err
	}
	if err := s.Collect(); err != nil {
		return false, err
	}
	if !s.Table.IntegrityCheck() {
		return false, fmt.Errorf("game: zone conservation violated after %s turn", player)
	}
	s.Data.NextPhase(s.Players)

	fresh := s.EvaluateCompletions(player)
	if len(fresh) > 0 && s.Decision.Pending() {
		own := len(s.Table.Collection[player])
		opp := len(s.Table.Collection[player.Opponent()])
		if s.Decision.AutoDecide(own, opp, len(s.Table.Hand[player])) == DecisionKoiKoi {
			s.CallKoiKoi(player)
		} else {
			s.CallStop(player)
			return true, nil
		}
	} else if len(fresh) > 0 {
		// Completed with an empty hand: nothing left to play for.
		s.CallStop(player)
		return true, nil
	}

	if s.Table.HandsEmpty() {
		s.EndRoundDrawn()
		return true, nil
	}
	return false, nil
}

// PlayAutoRound runs automated turns until the round ends.
func (s *Session) PlayAutoRound() (*RoundResult, error) {
	if err := s.StartRound(); err != nil {
		return nil, err
	}
	if result := s.CheckDealtTeyaku(); result != nil {
		return result, nil
	}
	for {
		over, err := s.PlayAutoTurn()
		if err != nil {
			return nil, err
		}
		if over {
			return s.Data.CurrentResult(), nil
		}
	}
}

// PlayAutoGame runs automated rounds until the game ends.
func (s *Session) PlayAutoGame() error {
	for !s.Data.GameOver {
		if _, err := s.PlayAutoRound(); err != nil {
			return err
		}
		if !s.Data.GameOver {
			s.AdvanceRound()
		}
	}
	return nil
}
