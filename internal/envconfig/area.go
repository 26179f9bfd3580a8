// ABOUTME: Area entity describing the arena-wide rules of the environment.
// ABOUTME: Carries the game-over condition plus available tracks and shells.

package envconfig

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Area holds arena-wide configuration.
type Area struct {
	GameOverCondition GameOverCondition `json:"game_over_condition"`
	TrackNames        []string          `json:"track_names"`
	ShellNames        []string          `json:"shell_names"`
}

// NewArea returns an area with default settings.
func NewArea() *Area {
	return &Area{
		GameOverCondition: GameOverAny,
		TrackNames:        []string{DefaultTrackName},
		ShellNames:        []string{DefaultShell},
	}
}

// Validate checks the area's enum tokens.
func (a *Area) Validate() error {
	if err := a.GameOverCondition.Validate(); err != nil {
		return fmt.Errorf("area: %w", err)
	}
	return nil
}

// Copy returns a deep copy of the area.
func (a *Area) Copy() *Area {
	return &Area{
		GameOverCondition: a.GameOverCondition,
		TrackNames:        slices.Clone(a.TrackNames),
		ShellNames:        slices.Clone(a.ShellNames),
	}
}

// Equal reports value equality with another area.
func (a *Area) Equal(other *Area) bool {
	if other == nil {
		return false
	}
	return a.GameOverCondition == other.GameOverCondition &&
		slices.Equal(a.TrackNames, other.TrackNames) &&
		slices.Equal(a.ShellNames, other.ShellNames)
}

// ParseArea decodes and validates an area from its JSON encoded form.
func ParseArea(data []byte) (*Area, error) {
	var a Area
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding area: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}
