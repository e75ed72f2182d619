// Package game holds the koi-koi turn engine: card zones, round and
// turn progression, the koi-koi decision protocol, and the automated
// opponent. State lives in an explicit Session so concurrent games
// never share anything.
package game

import (
	"encoding/json"
	"fmt"
)

// PlayerKey identifies one of the two seats.
type PlayerKey string

const (
	P1 PlayerKey = "p1"
	P2 PlayerKey = "p2"
)

// Opponent returns the other seat.
func (k PlayerKey) Opponent() PlayerKey {
	if k == P1 {
		return P2
	}
	return P1
}

// Player is one seat at the table.
type Player struct {
	ID       PlayerKey `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"isActive"`
	IsDealer bool      `json:"isDealer"`
}

// Players tracks both seats and the koi-koi bonus multiplier.
type Players struct {
	P1              *Player `json:"p1"`
	P2              *Player `json:"p2"`
	BonusMultiplier int     `json:"bonusMultiplier"`
}

// NewPlayers seats two players with p1 as the opening dealer.
func NewPlayers() *Players {
	return &Players{
		P1:              &Player{ID: P1, Name: "Player 1", IsActive: true, IsDealer: true},
		P2:              &Player{ID: P2, Name: "Player 2"},
		BonusMultiplier: 1,
	}
}

// Get returns the player for a seat.
func (p *Players) Get(key PlayerKey) *Player {
	if key == P1 {
		return p.P1
	}
	return p.P2
}

// Active returns the player whose turn it is. Exactly one seat is
// active at all times; nil signals a corrupted player set.
func (p *Players) Active() *Player {
	if p.P1.IsActive && !p.P2.IsActive {
		return p.P1
	}
	if p.P2.IsActive && !p.P1.IsActive {
		return p.P2
	}
	return nil
}

// Inactive returns the player waiting for their turn.
func (p *Players) Inactive() *Player {
	active := p.Active()
	if active == nil {
		return nil
	}
	return p.Get(active.ID.Opponent())
}

// Dealer returns the current dealer.
func (p *Players) Dealer() *Player {
	if p.P1.IsDealer {
		return p.P1
	}
	return p.P2
}

// ToggleActive switches whose turn it is.
func (p *Players) ToggleActive() {
	p.P1.IsActive = !p.P1.IsActive
	p.P2.IsActive = !p.P2.IsActive
}

// ToggleDealer swaps the dealer role.
func (p *Players) ToggleDealer() {
	p.P1.IsDealer = !p.P1.IsDealer
	p.P2.IsDealer = !p.P2.IsDealer
}

// IncrementBonus raises the koi-koi bonus multiplier.
func (p *Players) IncrementBonus() {
	p.BonusMultiplier++
}

// SetName renames a seat.
func (p *Players) SetName(key PlayerKey, name string) {
	p.Get(key).Name = name
}

// Reset restores the multiplier and, when a new dealer is named, gives
// that seat both the deal and the first move.
func (p *Players) Reset(newDealer PlayerKey) {
	p.BonusMultiplier = 1
	if newDealer == "" {
		return
	}
	for _, player := range []*Player{p.P1, p.P2} {
		player.IsDealer = player.ID == newDealer
		player.IsActive = player.ID == newDealer
	}
}

type playersState struct {
	Players         map[PlayerKey]*Player `json:"players"`
	BonusMultiplier int                   `json:"bonusMultiplier"`
}

// ExportState serializes both seats and the multiplier.
func (p *Players) ExportState() (string, error) {
	state := playersState{
		Players:         map[PlayerKey]*Player{P1: p.P1, P2: p.P2},
		BonusMultiplier: p.BonusMultiplier,
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("players: export: %w", err)
	}
	return string(raw), nil
}

// ImportState restores seats from a serialized snapshot. Returns false
// on malformed or structurally invalid input.
func (p *Players) ImportState(serialized string) bool {
	var state playersState
	if err := json.Unmarshal([]byte(serialized), &state); err != nil {
		return false
	}
	if state.Players[P1] == nil || state.Players[P2] == nil || state.BonusMultiplier < 1 {
		return false
	}
	p.P1 = state.Players[P1]
	p.P2 = state.Players[P2]
	p.BonusMultiplier = state.BonusMultiplier
	return true
}
