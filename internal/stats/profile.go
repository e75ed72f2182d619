package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/hanafuda/koikoi-go/internal/game"
)

// ConflictStrategy selects how two divergent profiles reconcile.
type ConflictStrategy string

const (
	// LastWriteWins keeps whichever profile updated most recently;
	// the remote side wins ties.
	LastWriteWins ConflictStrategy = "last-write-wins"
	// MergeFields combines both profiles field by field.
	MergeFields ConflictStrategy = "merge-fields"
)

// Record is the lifetime coin balance and win/loss tally.
type Record struct {
	Coins int `json:"coins"`
	Win   int `json:"win"`
	Loss  int `json:"loss"`
	Draw  int `json:"draw"`
}

// Designs tracks card design ownership and favorites.
type Designs struct {
	Unlocked []string `json:"unlocked"`
	Liked    []string `json:"liked"`
}

// Flags carries one-shot profile markers such as onboarding state.
type Flags struct {
	HasSeenTutorial  bool `json:"hasSeenTutorial,omitempty"`
	TransferredGuest bool `json:"transferredGuest,omitempty"`
}

// Profile is one player's account document.
type Profile struct {
	UID         string       `json:"uid"`
	Email       string       `json:"email,omitempty"`
	Avatar      string       `json:"avatar,omitempty"`
	Username    string       `json:"username"`
	Record      Record       `json:"record"`
	LastUpdated int64        `json:"lastUpdated"`
	Designs     Designs      `json:"designs"`
	Settings    *game.Config `json:"settings,omitempty"`
	Flags       Flags        `json:"flags"`
	IsGuest     bool         `json:"isGuest"`
	Stats       *Stats       `json:"stats,omitempty"`
}

// Starting balance and the design every account owns.
const (
	StartingCoins = 500
	DefaultDesign = "otwarte-karty"
)

// NewProfile builds a fresh profile with the default balance, design
// set and settings.
func NewProfile(uid, username string) *Profile {
	if uid == "" {
		uid = uuid.NewString()
	}
	return &Profile{
		UID:         uid,
		Username:    username,
		Record:      Record{Coins: StartingCoins},
		LastUpdated: time.Now().UnixMilli(),
		Designs:     Designs{Unlocked: []string{DefaultDesign}},
		Settings:    game.DefaultConfig(),
		Stats:       New(),
	}
}

// NewGuestProfile builds a local-only profile.
func NewGuestProfile() *Profile {
	p := NewProfile("", "Guest")
	p.IsGuest = true
	return p
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ResolveConflict reconciles a local and remote copy of the same
// profile. It never mutates its inputs; the caller persists the
// returned document on both sides.
func ResolveConflict(local, remote *Profile, strategy ConflictStrategy) *Profile {
	if local == nil {
		return remote
	}
	if remote == nil {
		return local
	}
	switch strategy {
	case MergeFields:
		merged := *remote
		merged.Record = Record{
			Coins: maxInt(local.Record.Coins, remote.Record.Coins),
			Win:   maxInt(local.Record.Win, remote.Record.Win),
			Loss:  maxInt(local.Record.Loss, remote.Record.Loss),
			Draw:  maxInt(local.Record.Draw, remote.Record.Draw),
		}
		merged.Designs = Designs{
			Unlocked: unionStrings(local.Designs.Unlocked, remote.Designs.Unlocked),
			Liked:    unionStrings(local.Designs.Liked, remote.Designs.Liked),
		}
		merged.Stats = Merge(local.Stats, remote.Stats)
		if local.LastUpdated > remote.LastUpdated {
			merged.Username = local.Username
			merged.Avatar = local.Avatar
			merged.Settings = local.Settings
			merged.LastUpdated = local.LastUpdated
		}
		return &merged
	default:
		// Last write wins; a tie favors the remote copy.
		if local.LastUpdated > remote.LastUpdated {
			return local
		}
		return remote
	}
}
