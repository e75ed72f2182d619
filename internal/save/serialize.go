// Package save persists and restores whole game sessions: a versioned
// wire envelope over the per-component snapshots, an associated-data
// salt binding the encrypted card payload to the rest of the state,
// local stores, and remote sync with conflict handling.
package save

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hanafuda/koikoi-go/internal/game"
	"github.com/hanafuda/koikoi-go/internal/integrity"
)

// FormatVersion tags the save envelope. Major bumps break older
// readers; minor bumps stay readable.
const FormatVersion = "1.0.0"

// SerializedGameState is the wire envelope for one saved session. The
// component fields hold each store's own serialized form so the
// envelope never needs to understand their internals.
type SerializedGameState struct {
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"`
	GameID    string `json:"gameId"`
	Cards     string `json:"cards"`
	GameData  string `json:"gameData"`
	Players   string `json:"players"`
	Config    string `json:"config"`
}

// AssociatedSalt derives the associated-data salt binding a card
// payload to the surrounding session state. It is recomputed at both
// export and import and never stored, so any drift in the covered
// fields invalidates the payload.
func AssociatedSalt(data *game.GameData, players *game.Players, config *game.Config) string {
	activeID := ""
	if active := players.Active(); active != nil {
		activeID = string(active.ID)
	}
	parts := []string{
		data.GameID,
		strconv.Itoa(data.RoundCounter),
		strconv.Itoa(data.TurnCounter),
		string(data.TurnPhase),
		activeID,
		strconv.Itoa(players.BonusMultiplier),
		strconv.Itoa(config.MaxRounds),
		string(config.AllowViewingsYaku),
	}
	return strings.Join(parts, "|")
}

// Manager serializes and restores sessions under one cipher.
type Manager struct {
	cipher *integrity.Cipher
	logger *log.Logger
}

// NewManager builds a save manager. A nil cipher falls back to the
// environment-configured salt.
func NewManager(cipher *integrity.Cipher, logger *log.Logger) *Manager {
	if cipher == nil {
		cipher = integrity.NewCipher("")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{cipher: cipher, logger: logger}
}

// Serialize captures a full session into the wire envelope. The card
// zones are encrypted under the game id and salted with the live
// session state.
func (m *Manager) Serialize(session *game.Session) (*SerializedGameState, error) {
	salt := AssociatedSalt(session.Data, session.Players, session.Config)
	cardState, err := session.Table.ExportState(m.cipher, salt, session.Data.GameID)
	if err != nil {
		return nil, fmt.Errorf("save: serialize cards: %w", err)
	}
	gameState, err := session.Data.ExportState()
	if err != nil {
		return nil, fmt.Errorf("save: serialize game data: %w", err)
	}
	playerState, err := session.Players.ExportState()
	if err != nil {
		return nil, fmt.Errorf("save: serialize players: %w", err)
	}
	configState, err := session.Config.ExportState()
	if err != nil {
		return nil, fmt.Errorf("save: serialize config: %w", err)
	}
	return &SerializedGameState{
		Version:   FormatVersion,
		Timestamp: time.Now().UnixMilli(),
		GameID:    session.Data.GameID,
		Cards:     cardState,
		GameData:  gameState,
		Players:   playerState,
		Config:    configState,
	}, nil
}

// Encode renders the envelope as JSON.
func (s *SerializedGameState) Encode() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("save: encode: %w", err)
	}
	return string(raw), nil
}

// Decode parses a JSON envelope.
func Decode(raw string) (*SerializedGameState, error) {
	var state SerializedGameState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("save: decode: %w", err)
	}
	if state.Version == "" || state.GameID == "" {
		return nil, fmt.Errorf("save: envelope missing version or game id")
	}
	return &state, nil
}

func parseVersion(v string) (major, minor int, err error) {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("save: malformed version %q", v)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("save: malformed version %q", v)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("save: malformed version %q", v)
	}
	return major, minor, nil
}

// checkVersion gates restores: a major mismatch is fatal, a newer
// minor only warned about.
func (m *Manager) checkVersion(v string) error {
	major, minor, err := parseVersion(v)
	if err != nil {
		return err
	}
	currentMajor, currentMinor, _ := parseVersion(FormatVersion)
	if major != currentMajor {
		return fmt.Errorf("save: incompatible version %s (current %s)", v, FormatVersion)
	}
	if minor > currentMinor {
		m.logger.Printf("save: version %s is newer than %s, attempting restore", v, FormatVersion)
	}
	return nil
}

// sessionSnapshot captures a restorable copy of every session
// component for all-or-nothing imports.
type sessionSnapshot struct {
	cards   string
	data    string
	players string
	config  string
	salt    string
	gameID  string
}

func (m *Manager) snapshot(session *game.Session) (*sessionSnapshot, error) {
	salt := AssociatedSalt(session.Data, session.Players, session.Config)
	cards, err := session.Table.ExportState(m.cipher, salt, session.Data.GameID)
	if err != nil {
		return nil, err
	}
	data, err := session.Data.ExportState()
	if err != nil {
		return nil, err
	}
	players, err := session.Players.ExportState()
	if err != nil {
		return nil, err
	}
	config, err := session.Config.ExportState()
	if err != nil {
		return nil, err
	}
	return &sessionSnapshot{
		cards:   cards,
		data:    data,
		players: players,
		config:  config,
		salt:    salt,
		gameID:  session.Data.GameID,
	}, nil
}

func (m *Manager) rollback(session *game.Session, snap *sessionSnapshot) {
	session.Data.ImportState(snap.data)
	session.Players.ImportState(snap.players)
	session.Config.ImportState(snap.config)
	session.Table.ImportState(snap.cards, m.cipher, snap.salt, snap.gameID)
}

// Deserialize restores a session from a saved envelope. The non-card
// stores import first so the card payload's salt can be recomputed
// from the restored state; any failure rolls every component back to
// the pre-import snapshot. Per-round session state outside the stores
// (credited yaku, any pending koi-koi decision) is rebuilt by
// ResyncRules from the restored collections rather than serialized, so
// a decision that was pending at save time resumes as not pending.
func (m *Manager) Deserialize(session *game.Session, state *SerializedGameState) error {
	if err := m.checkVersion(state.Version); err != nil {
		return err
	}
	snap, err := m.snapshot(session)
	if err != nil {
		return fmt.Errorf("save: snapshot before restore: %w", err)
	}

	if !session.Data.ImportState(state.GameData) {
		m.rollback(session, snap)
		return fmt.Errorf("save: game data rejected")
	}
	if !session.Players.ImportState(state.Players) {
		m.rollback(session, snap)
		return fmt.Errorf("save: players rejected")
	}
	if !session.Config.ImportState(state.Config) {
		m.rollback(session, snap)
		return fmt.Errorf("save: config rejected")
	}

	salt := AssociatedSalt(session.Data, session.Players, session.Config)
	if !session.Table.ImportState(state.Cards, m.cipher, salt, session.Data.GameID) {
		m.rollback(session, snap)
		return fmt.Errorf("save: card payload failed integrity check")
	}

	session.ResyncRules()
	return nil
}
