// ABOUTME: Agent entity describing a racer's behaviour and episode rules.
// ABOUTME: Validation enforces lap count >= 1 and non-negative penalties.

package envconfig

import (
	"encoding/json"
	"fmt"
)

// Behaviour is the shape shared by anything that drives on the track:
// a unique name, a shell (body model), and a start location.
type Behaviour struct {
	Name          string   `json:"name"`
	Shell         string   `json:"shell"`
	StartLocation Location `json:"start_location"`
}

// Agent extends Behaviour with sensors and per-episode rules.
type Agent struct {
	Behaviour

	SensorConfigType SensorConfigType `json:"sensor_config_type"`
	// LifeCount is the number of lives per episode: -1 means infinite,
	// 0 terminates after the first crash or off-track.
	LifeCount int `json:"life_count"`
	LapCount  int `json:"lap_count"`
	// OfftrackPenalty and CrashPenalty are penalty times in seconds,
	// applied only when LifeCount > 0.
	OfftrackPenalty float64 `json:"offtrack_penalty"`
	CrashPenalty    float64 `json:"crash_penalty"`
}

// NewAgent returns an agent with default settings and the default name.
func NewAgent() *Agent {
	return &Agent{
		Behaviour: Behaviour{
			Name:          DefaultAgentName,
			Shell:         DefaultShell,
			StartLocation: NewLocation(),
		},
		SensorConfigType: FrontFacingCamera,
		LapCount:         1,
	}
}

// Validate checks the agent's enum tokens and numeric ranges.
func (a *Agent) Validate() error {
	if err := a.SensorConfigType.Validate(); err != nil {
		return fmt.Errorf("agent %q: %w", a.Name, err)
	}
	if err := a.StartLocation.Validate(); err != nil {
		return fmt.Errorf("agent %q: %w", a.Name, err)
	}
	if a.LapCount < 1 {
		return fmt.Errorf("agent %q: lap_count must be greater than 0, given %d", a.Name, a.LapCount)
	}
	if a.OfftrackPenalty < 0 {
		return fmt.Errorf("agent %q: offtrack_penalty must not be negative, given %g", a.Name, a.OfftrackPenalty)
	}
	if a.CrashPenalty < 0 {
		return fmt.Errorf("agent %q: crash_penalty must not be negative, given %g", a.Name, a.CrashPenalty)
	}
	return nil
}

// Copy returns a deep copy of the agent.
func (a *Agent) Copy() *Agent {
	clone := *a
	return &clone
}

// Equal reports value equality with another agent.
func (a *Agent) Equal(other *Agent) bool {
	if other == nil {
		return false
	}
	return *a == *other
}

// ParseAgent decodes and validates an agent from its JSON encoded form.
func ParseAgent(data []byte) (*Agent, error) {
	var a Agent
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding agent: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// ParseAgents decodes and validates a JSON array of agents, preserving order.
func ParseAgents(data []byte) ([]*Agent, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding agent list: %w", err)
	}
	agents := make([]*Agent, 0, len(raw))
	for _, item := range raw {
		agent, err := ParseAgent(item)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

// EncodeAgents encodes a list of agents element-wise into a JSON array.
func EncodeAgents(agents []*Agent) ([]byte, error) {
	return json.Marshal(agents)
}
