package save

import (
	"fmt"
	"time"

	"github.com/hanafuda/koikoi-go/internal/game"
)

// Mode distinguishes the two save slots a player owns.
type Mode string

const (
	ModeSingle      Mode = "single"
	ModeMultiplayer Mode = "multiplayer"
)

// Fixed save-slot keys. Each player holds at most one save per key.
const (
	KeySingle      = "koikoi-save-single"
	KeyMultiplayer = "koikoi-save-multiplayer"
)

// SaveKey returns the slot key for a mode.
func SaveKey(mode Mode) string {
	if mode == ModeMultiplayer {
		return KeyMultiplayer
	}
	return KeySingle
}

// GameSaveRecord is one stored save slot. ID is derived from the
// owner and slot so a player can never hold two saves per key.
type GameSaveRecord struct {
	ID           string         `json:"id"`
	UID          string         `json:"uid"`
	SaveKey      string         `json:"saveKey"`
	GameState    string         `json:"gameState"`
	Timestamp    int64          `json:"timestamp"`
	GameID       string         `json:"gameId"`
	Mode         Mode           `json:"mode"`
	P1           string         `json:"p1,omitempty"`
	P2           string         `json:"p2,omitempty"`
	ActivePlayer game.PlayerKey `json:"activePlayer,omitempty"`
}

// RecordID derives the slot identity for a player and key.
func RecordID(uid, saveKey string) string {
	return uid + "_" + saveKey
}

// SaveContext describes who is saving and their seat in the game.
type SaveContext struct {
	UID     string
	IsGuest bool
	// Seat is empty when the caller is not a participant.
	Seat game.PlayerKey
}

// BuildRecord assembles a save record for a serialized session.
// Multiplayer saves are restricted: guests cannot hold them, and only
// the participant whose turn it is may write one, so two clients never
// race on the shared slot.
func BuildRecord(ctx SaveContext, mode Mode, state *SerializedGameState, session *game.Session) (*GameSaveRecord, error) {
	if ctx.UID == "" {
		return nil, fmt.Errorf("save: missing uid")
	}
	active := session.Players.Active()
	if mode == ModeMultiplayer {
		if ctx.IsGuest {
			return nil, fmt.Errorf("save: guests cannot save multiplayer games")
		}
		if ctx.Seat == "" {
			return nil, fmt.Errorf("save: %s is not a participant of game %s", ctx.UID, state.GameID)
		}
		if active == nil || active.ID != ctx.Seat {
			return nil, fmt.Errorf("save: only the active player may save a multiplayer game")
		}
	}
	key := SaveKey(mode)
	encoded, err := state.Encode()
	if err != nil {
		return nil, err
	}
	record := &GameSaveRecord{
		ID:        RecordID(ctx.UID, key),
		UID:       ctx.UID,
		SaveKey:   key,
		GameState: encoded,
		Timestamp: state.Timestamp,
		GameID:    state.GameID,
		Mode:      mode,
	}
	if record.Timestamp == 0 {
		record.Timestamp = time.Now().UnixMilli()
	}
	if p1 := session.Players.Get(game.P1); p1 != nil {
		record.P1 = p1.Name
	}
	if p2 := session.Players.Get(game.P2); p2 != nil {
		record.P2 = p2.Name
	}
	if active != nil {
		record.ActivePlayer = active.ID
	}
	return record, nil
}
