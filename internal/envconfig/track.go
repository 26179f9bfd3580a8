// ABOUTME: Track entity describing the geometry selection for the environment.
// ABOUTME: Name, finish line position, and driving direction.

package envconfig

import (
	"encoding/json"
	"fmt"
)

// Track holds the track selection and its orientation.
type Track struct {
	Name string `json:"name"`
	// FinishLine is the finish position in normalized distance w.r.t. waypoints.
	FinishLine float64        `json:"finish_line"`
	Direction  TrackDirection `json:"direction"`
}

// NewTrack returns a track with default settings.
func NewTrack() *Track {
	return &Track{
		Name:      DefaultTrackName,
		Direction: DirectionCounterClockwise,
	}
}

// Validate checks the track's enum tokens.
func (t *Track) Validate() error {
	if err := t.Direction.Validate(); err != nil {
		return fmt.Errorf("track: %w", err)
	}
	return nil
}

// Copy returns a deep copy of the track.
func (t *Track) Copy() *Track {
	clone := *t
	return &clone
}

// Equal reports value equality with another track.
func (t *Track) Equal(other *Track) bool {
	if other == nil {
		return false
	}
	return *t == *other
}

// ParseTrack decodes and validates a track from its JSON encoded form.
func ParseTrack(data []byte) (*Track, error) {
	var t Track
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding track: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
