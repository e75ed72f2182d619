package api

import (
	"github.com/hanafuda/koikoi-go/internal/cards"
	"github.com/hanafuda/koikoi-go/internal/game"
	"github.com/hanafuda/koikoi-go/internal/save"
)

// Error types for structured responses.
const (
	ErrTypeValidation = "validation_error"
	ErrTypeNotFound   = "not_found"
	ErrTypeConflict   = "conflict"
	ErrTypeInternal   = "internal_error"
)

// APIError is the structured error body.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// VersionInfo reports the build identity.
type VersionInfo struct {
	EngineVersion string `json:"engineVersion"`
	GitCommit     string `json:"gitCommit"`
	BuildTime     string `json:"buildTime"`
}

// CreateGameRequest configures a new session. Zero values fall back
// to the defaults.
type CreateGameRequest struct {
	MaxRounds            int                 `json:"maxRounds,omitempty"`
	AllowViewingsYaku    game.ViewingsOption `json:"allowViewingsYaku,omitempty"`
	DoubleScoreOverSeven bool                `json:"doubleScoreOverSeven,omitempty"`
	SakeIsWildCard       bool                `json:"sakeIsWildCard,omitempty"`
	P1Name               string              `json:"p1Name,omitempty"`
	P2Name               string              `json:"p2Name,omitempty"`
}

// SelectRequest picks a hand card.
type SelectRequest struct {
	Card cards.Name `json:"card"`
}

// DecisionRequest resolves a koi-koi call.
type DecisionRequest struct {
	Call string `json:"call"`
}

// SaveGameRequest stores the session into a slot.
type SaveGameRequest struct {
	UID     string    `json:"uid"`
	Mode    save.Mode `json:"mode"`
	IsGuest bool      `json:"isGuest,omitempty"`
	Seat    string    `json:"seat,omitempty"`
}

// RestoreRequest loads a slot back into a live session.
type RestoreRequest struct {
	UID  string    `json:"uid"`
	Mode save.Mode `json:"mode"`
}

// GameSummary is the client-facing view of a session.
type GameSummary struct {
	GameID       string                          `json:"gameId"`
	RoundCounter int                             `json:"roundCounter"`
	TurnCounter  int                             `json:"turnCounter"`
	TurnPhase    game.Phase                      `json:"turnPhase"`
	RoundOver    bool                            `json:"roundOver"`
	GameOver     bool                            `json:"gameOver"`
	ActivePlayer game.PlayerKey                  `json:"activePlayer,omitempty"`
	Bonus        int                             `json:"bonusMultiplier"`
	Decision     game.Decision                   `json:"decision,omitempty"`
	Field        []cards.Name                    `json:"field"`
	DeckSize     int                             `json:"deckSize"`
	Hands        map[game.PlayerKey]int          `json:"hands"`
	Collections  map[game.PlayerKey][]cards.Name `json:"collections"`
	Scoreboard   game.Scoreboard                 `json:"scoreboard"`
	Results      []game.RoundResult              `json:"results,omitempty"`
}

func summarize(session *game.Session) GameSummary {
	summary := GameSummary{
		GameID:       session.Data.GameID,
		RoundCounter: session.Data.RoundCounter,
		TurnCounter:  session.Data.TurnCounter,
		TurnPhase:    session.Data.TurnPhase,
		RoundOver:    session.Data.RoundOver,
		GameOver:     session.Data.GameOver,
		Bonus:        session.Players.BonusMultiplier,
		Decision:     session.Decision.Get(),
		Field:        session.Table.Field,
		DeckSize:     len(session.Table.Deck),
		Hands: map[game.PlayerKey]int{
			game.P1: len(session.Table.Hand[game.P1]),
			game.P2: len(session.Table.Hand[game.P2]),
		},
		Collections: map[game.PlayerKey][]cards.Name{
			game.P1: session.Table.Collection[game.P1],
			game.P2: session.Table.Collection[game.P2],
		},
		Scoreboard: session.Data.ComputeScoreboard(session.Config.MaxRounds),
		Results:    session.Data.RoundHistory,
	}
	if active := session.Players.Active(); active != nil {
		summary.ActivePlayer = active.ID
	}
	return summary
}
