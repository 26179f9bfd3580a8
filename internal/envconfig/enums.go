// ABOUTME: Enumerated value types shared by the config entities.
// ABOUTME: Each enum validates wire tokens and rejects unknown values.

package envconfig

import "fmt"

// GameOverCondition decides when an area's episode ends.
type GameOverCondition string

const (
	// GameOverAny ends the episode when any agent is done.
	GameOverAny GameOverCondition = "any"
	// GameOverAll ends the episode when all agents are done.
	GameOverAll GameOverCondition = "all"
)

// Validate rejects unknown game-over tokens.
func (g GameOverCondition) Validate() error {
	switch g {
	case GameOverAny, GameOverAll:
		return nil
	default:
		return fmt.Errorf("unknown game_over_condition %q", string(g))
	}
}

// TrackDirection is the driving direction around a track.
type TrackDirection string

const (
	DirectionClockwise        TrackDirection = "cw"
	DirectionCounterClockwise TrackDirection = "ccw"
)

// Validate rejects unknown direction tokens.
func (d TrackDirection) Validate() error {
	switch d {
	case DirectionClockwise, DirectionCounterClockwise:
		return nil
	default:
		return fmt.Errorf("unknown direction %q", string(d))
	}
}

// TrackLine is a named lateral line on the track used to place agents.
type TrackLine string

const (
	TrackCenterLine     TrackLine = "track_center_line"
	InnerLaneCenterLine TrackLine = "inner_lane_center_line"
	OuterLaneCenterLine TrackLine = "outer_lane_center_line"
	InnerLine           TrackLine = "inner_line"
	OuterLine           TrackLine = "outer_line"
)

// Validate rejects unknown track-line tokens.
func (l TrackLine) Validate() error {
	switch l {
	case TrackCenterLine, InnerLaneCenterLine, OuterLaneCenterLine, InnerLine, OuterLine:
		return nil
	default:
		return fmt.Errorf("unknown track_line %q", string(l))
	}
}

// SensorConfigType is the sensor package mounted on an agent.
type SensorConfigType string

const (
	FrontFacingCamera         SensorConfigType = "front_facing_camera"
	StereoCameras             SensorConfigType = "stereo_cameras"
	FrontFacingCameraAndLidar SensorConfigType = "front_facing_camera_and_lidar"
	StereoCamerasAndLidar     SensorConfigType = "stereo_cameras_and_lidar"
	Lidar                     SensorConfigType = "lidar"
)

// Validate rejects unknown sensor tokens.
func (s SensorConfigType) Validate() error {
	switch s {
	case FrontFacingCamera, StereoCameras, FrontFacingCameraAndLidar, StereoCamerasAndLidar, Lidar:
		return nil
	default:
		return fmt.Errorf("unknown sensor_config_type %q", string(s))
	}
}
