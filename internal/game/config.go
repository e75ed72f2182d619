package game

import (
	"encoding/json"
	"fmt"

	"github.com/hanafuda/koikoi-go/internal/yaku"
)

// ViewingsOption controls how the sake-cup viewing yaku score.
type ViewingsOption string

const (
	// ViewingsAllow scores viewings unconditionally.
	ViewingsAllow ViewingsOption = "allow"
	// ViewingsLimited scores viewings only alongside another yaku.
	ViewingsLimited ViewingsOption = "limited"
	// ViewingsNone never scores viewings.
	ViewingsNone ViewingsOption = "none"
)

// GameLengths are the supported round counts.
var GameLengths = []int{3, 6, 12}

// Config holds the rule variations and presentation settings for one
// game. Presentation fields ride along so a restored save reproduces
// the table exactly.
type Config struct {
	MaxRounds            int            `json:"maxRounds"`
	AllowViewingsYaku    ViewingsOption `json:"allowViewingsYaku"`
	DoubleScoreOverSeven bool           `json:"doubleScoreOverSeven"`
	SakeIsWildCard       bool           `json:"sakeIsWildCard"`
	CardLabels           bool           `json:"cardLabels"`
	CardSizeMultiplier   float64        `json:"cardSizeMultiplier"`
	SettingsLoaded       bool           `json:"settingsLoaded"`
}

// DefaultConfig returns a three-round game with all variants off.
func DefaultConfig() *Config {
	return &Config{
		MaxRounds:          3,
		AllowViewingsYaku:  ViewingsAllow,
		CardSizeMultiplier: 1.0,
	}
}

// ApplyViewingsOption filters a completed-yaku list per the viewing
// rule. Under the limited rule, viewings count only when at least one
// non-viewing yaku is also complete.
func (c *Config) ApplyViewingsOption(completed []yaku.Name) []yaku.Name {
	var filtered []yaku.Name
	for _, name := range completed {
		if !yaku.ViewingYaku[name] {
			filtered = append(filtered, name)
		}
	}
	switch c.AllowViewingsYaku {
	case ViewingsNone:
		return filtered
	case ViewingsLimited:
		if len(filtered) > 0 {
			return completed
		}
		return filtered
	default:
		return completed
	}
}

// ApplyDoubleScoreOption doubles a base score of seven or more when
// the variant is enabled. The koi-koi bonus is applied afterwards.
func (c *Config) ApplyDoubleScoreOption(baseScore int) int {
	if !c.DoubleScoreOverSeven || baseScore < 7 {
		return baseScore
	}
	return baseScore * 2
}

// ExportState serializes the config.
func (c *Config) ExportState() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("config: export: %w", err)
	}
	return string(raw), nil
}

// ImportState restores the config from a serialized snapshot.
func (c *Config) ImportState(serialized string) bool {
	var state Config
	if err := json.Unmarshal([]byte(serialized), &state); err != nil {
		return false
	}
	if state.MaxRounds <= 0 || state.AllowViewingsYaku == "" {
		return false
	}
	*c = state
	return true
}
