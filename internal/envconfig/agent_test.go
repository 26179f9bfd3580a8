// ABOUTME: Tests for the Agent entity.
// ABOUTME: Defaults, range validation, copy, equality, and list encoding.

package envconfig

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgent_Defaults(t *testing.T) {
	agent := NewAgent()

	assert.Equal(t, DefaultAgentName, agent.Name)
	assert.Equal(t, DefaultShell, agent.Shell)
	assert.Equal(t, FrontFacingCamera, agent.SensorConfigType)
	assert.Equal(t, NewLocation(), agent.StartLocation)
	assert.Equal(t, 0, agent.LifeCount)
	assert.Equal(t, 1, agent.LapCount)
	assert.Equal(t, 0.0, agent.OfftrackPenalty)
	assert.Equal(t, 0.0, agent.CrashPenalty)
	require.NoError(t, agent.Validate())
}

func TestAgent_Validate_OutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Agent)
	}{
		{"zero lap count", func(a *Agent) { a.LapCount = 0 }},
		{"negative lap count", func(a *Agent) { a.LapCount = -1 }},
		{"negative offtrack penalty", func(a *Agent) { a.OfftrackPenalty = -2.3 }},
		{"negative crash penalty", func(a *Agent) { a.CrashPenalty = -5.3 }},
		{"unknown sensor", func(a *Agent) { a.SensorConfigType = "periscope" }},
		{"unknown start line", func(a *Agent) { a.StartLocation.TrackLine = "middle" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agent := NewAgent()
			tc.mutate(agent)
			assert.Error(t, agent.Validate())
		})
	}
}

func TestAgent_JSONRoundTrip(t *testing.T) {
	agent := &Agent{
		Behaviour: Behaviour{
			Name:  "bot1",
			Shell: "deepracer_red",
			StartLocation: Location{
				NormalizedDistance: 5.0,
				TrackLine:          OuterLaneCenterLine,
			},
		},
		SensorConfigType: StereoCamerasAndLidar,
		LifeCount:        5,
		LapCount:         3,
		OfftrackPenalty:  2.3,
		CrashPenalty:     5.3,
	}
	require.NoError(t, agent.Validate())

	data, err := json.Marshal(agent)
	require.NoError(t, err)

	// The Behaviour fields must flatten into the agent's encoded form.
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "start_location")
	assert.Contains(t, fields, "sensor_config_type")

	decoded, err := ParseAgent(data)
	require.NoError(t, err)
	assert.True(t, agent.Equal(decoded))
}

func TestAgent_Copy_IsDeep(t *testing.T) {
	agent := NewAgent()
	clone := agent.Copy()

	require.True(t, agent.Equal(clone))
	assert.NotSame(t, agent, clone)

	clone.StartLocation.NormalizedDistance = 0.9
	assert.Equal(t, 0.0, agent.StartLocation.NormalizedDistance)
}

func TestParseAgents(t *testing.T) {
	a := NewAgent()
	b := NewAgent()
	b.Name = "bot1"

	data, err := EncodeAgents([]*Agent{a, b})
	require.NoError(t, err)

	agents, err := ParseAgents(data)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.True(t, a.Equal(agents[0]))
	assert.True(t, b.Equal(agents[1]))
}

func TestParseAgents_RejectsInvalidElement(t *testing.T) {
	_, err := ParseAgents([]byte(`[{"name":"x","shell":"s","start_location":{"normalized_distance":0,"track_line":"track_center_line"},"sensor_config_type":"lidar","life_count":0,"lap_count":0,"offtrack_penalty":0,"crash_penalty":0}]`))
	assert.Error(t, err)
}
