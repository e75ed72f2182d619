package game

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hanafuda/koikoi-go/internal/cards"
	"github.com/hanafuda/koikoi-go/internal/yaku"
)

// Phase is one step of a player's turn.
type Phase string

// Phases cycle select -> draw -> collect.
const (
	PhaseSelect  Phase = "select"
	PhaseDraw    Phase = "draw"
	PhaseCollect Phase = "collect"
)

var phaseOrder = []Phase{PhaseSelect, PhaseDraw, PhaseCollect}

// RoundResult records the outcome of one round. Winner is empty for a
// draw. Extra carries variant-specific payload without widening the
// schema.
type RoundResult struct {
	Round         int                        `json:"round"`
	Winner        PlayerKey                  `json:"winner,omitempty"`
	Score         int                        `json:"score"`
	CompletedYaku []yaku.Report              `json:"completedYaku,omitempty"`
	Extra         map[string]json.RawMessage `json:"extra,omitempty"`
}

// EventType tags an event log entry.
type EventType string

const (
	EventPlayer EventType = "player"
	EventSystem EventType = "system"
)

// Player actions recorded in the event history.
const (
	ActionDiscard  = "discard"
	ActionMatch    = "match"
	ActionDraw     = "draw"
	ActionStop     = "stop"
	ActionKoiKoi   = "koi-koi"
	ActionComplete = "complete"
)

// Event is one entry in the game's event history.
type Event struct {
	Type      EventType    `json:"type"`
	Player    PlayerKey    `json:"player,omitempty"`
	Action    string       `json:"action,omitempty"`
	Cards     []cards.Name `json:"cards,omitempty"`
	Yaku      yaku.Name    `json:"yaku,omitempty"`
	Message   string       `json:"message,omitempty"`
	Timestamp int64        `json:"timestamp"`
}

// Scoreboard is the derived cumulative standing of both players.
type Scoreboard struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

// GameData coordinates round, turn and phase progression for a game.
type GameData struct {
	GameID       string        `json:"gameId"`
	RoundHistory []RoundResult `json:"roundHistory"`
	RoundCounter int           `json:"roundCounter"`
	TurnCounter  int           `json:"turnCounter"`
	TurnPhase    Phase         `json:"turnPhase"`
	RoundOver    bool          `json:"roundOver"`
	GameOver     bool          `json:"gameOver"`
	EventHistory []Event       `json:"eventHistory"`

	logger *log.Logger
}

// NewGameData starts tracking a fresh game with a unique id.
func NewGameData(logger *log.Logger) *GameData {
	if logger == nil {
		logger = log.Default()
	}
	return &GameData{
		GameID:       uuid.NewString(),
		RoundCounter: 1,
		TurnCounter:  1,
		TurnPhase:    PhaseSelect,
		logger:       logger,
	}
}

// LogPlayerAction appends a player event to the history.
func (g *GameData) LogPlayerAction(player PlayerKey, action string, played []cards.Name, completed yaku.Name) {
	g.EventHistory = append(g.EventHistory, Event{
		Type:      EventPlayer,
		Player:    player,
		Action:    action,
		Cards:     played,
		Yaku:      completed,
		Timestamp: time.Now().Unix(),
	})
}

// LogSystemMessage appends a system event to the history.
func (g *GameData) LogSystemMessage(message string) {
	g.EventHistory = append(g.EventHistory, Event{
		Type:      EventSystem,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
}

// NextPhase advances the phase cycle. Returning to select hands the
// turn to the other player; the turn counter only increments once the
// dealer is active again, so one turn covers both players' moves.
func (g *GameData) NextPhase(players *Players) Phase {
	i := 0
	for j, phase := range phaseOrder {
		if phase == g.TurnPhase {
			i = (j + 1) % len(phaseOrder)
			break
		}
	}
	g.TurnPhase = phaseOrder[i]
	if g.TurnPhase == PhaseSelect {
		players.ToggleActive()
		active := players.Active()
		if active != nil && active.IsDealer {
			g.TurnCounter++
		}
	}
	return g.TurnPhase
}

// CheckCurrentPhase reports whether the given phase is current.
func (g *GameData) CheckCurrentPhase(phase Phase) bool {
	return g.TurnPhase == phase
}

// StartRound deals a new round. It refuses to run while the previous
// round is still marked over; NextRound must clear that flag first. It
// also refuses while cards are already out, so a repeated call cannot
// redeal into a round in progress.
func (g *GameData) StartRound(table *CardTable) error {
	if g.RoundOver {
		g.logger.Printf("game: failed to start round %d: roundOver not reset", g.RoundCounter)
		return fmt.Errorf("game: round %d still marked over; call NextRound first", g.RoundCounter)
	}
	if table.Dealt() {
		g.logger.Printf("game: failed to start round %d: cards already dealt", g.RoundCounter)
		return fmt.Errorf("game: round %d already dealt", g.RoundCounter)
	}
	g.TurnPhase = PhaseSelect
	g.TurnCounter = 1
	g.RoundCounter = len(g.RoundHistory) + 1
	table.Deal()
	g.LogSystemMessage(fmt.Sprintf("START ROUND %d", g.RoundCounter))
	return nil
}

// SaveResult records (or overwrites) the current round's result.
func (g *GameData) SaveResult(result RoundResult) RoundResult {
	result.Round = g.RoundCounter
	index := g.RoundCounter - 1
	for len(g.RoundHistory) <= index {
		g.RoundHistory = append(g.RoundHistory, RoundResult{})
	}
	g.RoundHistory[index] = result
	return result
}

// Result returns the recorded result for a round, or nil.
func (g *GameData) Result(round int) *RoundResult {
	index := round - 1
	if index < 0 || index >= len(g.RoundHistory) {
		return nil
	}
	if g.RoundHistory[index].Round == 0 {
		return nil
	}
	return &g.RoundHistory[index]
}

// CurrentResult returns the result recorded for the current round.
func (g *GameData) CurrentResult() *RoundResult {
	return g.Result(g.RoundCounter)
}

// EndRound closes the round, writing a drawn result if none was
// saved, and flips GameOver once the round limit is hit or a player's
// score is exhausted.
func (g *GameData) EndRound(maxRounds int) {
	if g.CurrentResult() == nil {
		g.SaveResult(RoundResult{})
	}
	g.RoundOver = true
	if g.RoundCounter >= maxRounds || g.PointsExhausted(maxRounds) {
		g.GameOver = true
	}
	msg := fmt.Sprintf("END ROUND %d", g.RoundCounter)
	if winner := g.CurrentResult().Winner; winner != "" {
		msg += fmt.Sprintf(" - Winner: %s", winner)
	}
	g.LogSystemMessage(msg)
}

// NextRound resets the table for the following round. The previous
// winner deals and moves first.
func (g *GameData) NextRound(players *Players, table *CardTable) {
	var winner PlayerKey
	if result := g.CurrentResult(); result != nil {
		winner = result.Winner
	}
	players.Reset(winner)
	table.Reset()
	g.RoundOver = false
}

// ComputeScoreboard derives both players' standings from round
// history: a base stake of ten points per round, adjusted by points
// won and lost, clamped to [0, 2*base].
func (g *GameData) ComputeScoreboard(maxRounds int) Scoreboard {
	baseScore := 10 * maxRounds
	maxScore := baseScore * 2
	won := func(player PlayerKey) int {
		total := 0
		for _, result := range g.RoundHistory {
			if result.Winner == player {
				total += result.Score
			}
		}
		return total
	}
	clamp := func(score int) int {
		if score < 0 {
			return 0
		}
		if score > maxScore {
			return maxScore
		}
		return score
	}
	p1 := won(P1)
	p2 := won(P2)
	return Scoreboard{
		P1: clamp(baseScore + p1 - p2),
		P2: clamp(baseScore + p2 - p1),
	}
}

// PointsExhausted reports whether either player's standing hit zero.
func (g *GameData) PointsExhausted(maxRounds int) bool {
	board := g.ComputeScoreboard(maxRounds)
	return board.P1 == 0 || board.P2 == 0
}

// GenerateGameID assigns a fresh game id and returns it.
func (g *GameData) GenerateGameID() string {
	g.GameID = uuid.NewString()
	return g.GameID
}

// Reset clears all progression state and returns the discarded round
// history as JSON for archival.
func (g *GameData) Reset() string {
	g.RoundCounter = 1
	g.TurnCounter = 1
	g.TurnPhase = PhaseSelect
	g.RoundOver = false
	g.GameOver = false
	g.EventHistory = nil
	record, _ := json.Marshal(g.RoundHistory)
	g.RoundHistory = nil
	return string(record)
}

type gameDataState struct {
	GameID       string        `json:"gameId"`
	RoundHistory []RoundResult `json:"roundHistory"`
	RoundCounter int           `json:"roundCounter"`
	TurnCounter  int           `json:"turnCounter"`
	TurnPhase    Phase         `json:"turnPhase"`
	RoundOver    bool          `json:"roundOver"`
	GameOver     bool          `json:"gameOver"`
	EventHistory []Event       `json:"eventHistory"`
}

// ExportState serializes the progression state.
func (g *GameData) ExportState() (string, error) {
	state := gameDataState{
		GameID:       g.GameID,
		RoundHistory: g.RoundHistory,
		RoundCounter: g.RoundCounter,
		TurnCounter:  g.TurnCounter,
		TurnPhase:    g.TurnPhase,
		RoundOver:    g.RoundOver,
		GameOver:     g.GameOver,
		EventHistory: g.EventHistory,
	}
	if state.RoundHistory == nil {
		state.RoundHistory = []RoundResult{}
	}
	if state.EventHistory == nil {
		state.EventHistory = []Event{}
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("game data: export: %w", err)
	}
	return string(raw), nil
}

// ImportState restores progression state from a serialized snapshot.
func (g *GameData) ImportState(serialized string) bool {
	var state gameDataState
	if err := json.Unmarshal([]byte(serialized), &state); err != nil {
		return false
	}
	if state.GameID == "" || state.RoundHistory == nil {
		return false
	}
	g.GameID = state.GameID
	g.RoundHistory = state.RoundHistory
	g.RoundCounter = state.RoundCounter
	if g.RoundCounter == 0 {
		g.RoundCounter = 1
	}
	g.TurnCounter = state.TurnCounter
	if g.TurnCounter == 0 {
		g.TurnCounter = 1
	}
	g.TurnPhase = state.TurnPhase
	if g.TurnPhase == "" {
		g.TurnPhase = PhaseSelect
	}
	g.RoundOver = state.RoundOver
	g.GameOver = state.GameOver
	g.EventHistory = state.EventHistory
	return true
}
