// ABOUTME: Location value describing a start position on the track.
// ABOUTME: Normalized distance along the track plus the lateral track line.

package envconfig

import (
	"encoding/json"
	"fmt"
)

// Location is a start position relative to the track.
type Location struct {
	NormalizedDistance float64   `json:"normalized_distance"`
	TrackLine          TrackLine `json:"track_line"`
}

// NewLocation returns a location at the start of the center line.
func NewLocation() Location {
	return Location{TrackLine: TrackCenterLine}
}

// Validate checks the location's track-line token.
func (l Location) Validate() error {
	if err := l.TrackLine.Validate(); err != nil {
		return fmt.Errorf("start_location: %w", err)
	}
	return nil
}

// ParseLocation decodes and validates a location from its JSON encoded form.
func ParseLocation(data []byte) (Location, error) {
	var l Location
	if err := json.Unmarshal(data, &l); err != nil {
		return Location{}, fmt.Errorf("decoding location: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Location{}, err
	}
	return l, nil
}
