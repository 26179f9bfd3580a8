// ABOUTME: Tests for the server's keyed dispatch boundary.
// ABOUTME: Valid commands, get replies on the same key, and garbage absorption.

package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/deepracer-config/internal/envconfig"
	"github.com/2389/deepracer-config/internal/protocol"
)

// dispatch delivers a message to the server the way the channel would.
func dispatch(s *Server, ch *mockChannel, key, payload string) {
	s.OnReceived(ch, key, payload)
}

func TestDispatch_GetRepliesOnSameKey(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	key := protocol.FormatKey(protocol.ActionGet, protocol.TargetArea)
	dispatch(s, ch, key, "")

	require.Len(t, ch.sends, 1)
	assert.Equal(t, key, ch.sends[0].key)

	area, err := envconfig.ParseArea([]byte(ch.sends[0].payload))
	require.NoError(t, err)
	assert.True(t, s.Area().Equal(area))
}

func TestDispatch_GetAgents_EncodesElementWise(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})
	s.SpawnAgent(namedAgent("bot1"))

	key := protocol.FormatKey(protocol.ActionGet, protocol.TargetAgents)
	dispatch(s, ch, key, "")

	require.Len(t, ch.sends, 1)
	agents, err := envconfig.ParseAgents([]byte(ch.sends[0].payload))
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, envconfig.DefaultAgentName, agents[0].Name)
	assert.Equal(t, "bot1", agents[1].Name)
}

func TestDispatch_GetAgent_ByNamePayload(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	key := protocol.FormatKey(protocol.ActionGet, protocol.TargetAgent)
	dispatch(s, ch, key, envconfig.DefaultAgentName)

	require.Len(t, ch.sends, 1)
	agent, err := envconfig.ParseAgent([]byte(ch.sends[0].payload))
	require.NoError(t, err)
	assert.Equal(t, envconfig.DefaultAgentName, agent.Name)
}

func TestDispatch_GetAgent_UnknownNameNoReply(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	key := protocol.FormatKey(protocol.ActionGet, protocol.TargetAgent)
	dispatch(s, ch, key, "ghost")

	assert.Empty(t, ch.sends)
}

func TestDispatch_MutatorsProduceNoReply(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	track := &envconfig.Track{Name: "monaco", FinishLine: 0.3, Direction: envconfig.DirectionClockwise}
	payload, err := json.Marshal(track)
	require.NoError(t, err)

	dispatch(s, ch, protocol.FormatKey(protocol.ActionApply, protocol.TargetTrack), string(payload))

	assert.Empty(t, ch.sends)
	assert.True(t, track.Equal(s.Track()))
}

func TestDispatch_SpawnAndDeleteAgent(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	bot := namedAgent("bot1")
	payload, err := json.Marshal(bot)
	require.NoError(t, err)

	dispatch(s, ch, protocol.FormatKey(protocol.ActionSpawn, protocol.TargetAgent), string(payload))
	assert.Len(t, s.Agents(), 2)

	dispatch(s, ch, protocol.FormatKey(protocol.ActionDelete, protocol.TargetAgent), string(payload))
	agents := s.Agents()
	require.Len(t, agents, 1)
	assert.Equal(t, envconfig.DefaultAgentName, agents[0].Name)
}

func TestDispatch_AbsorbsGarbage(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	cases := []struct {
		name    string
		key     string
		payload string
	}{
		{"foreign prefix", "other::get::area", ""},
		{"malformed key", "deepracer_config::get", ""},
		{"extra fields", "deepracer_config::get::area::x", ""},
		{"unknown action", "deepracer_config::fetch::area", ""},
		{"unknown target", "deepracer_config::get::world", ""},
		{"unsupported pair", "deepracer_config::spawn::track", ""},
		{"undecodable payload", "deepracer_config::apply::area", "{oops"},
		{"invalid entity", "deepracer_config::spawn::agent", `{"name":"x","shell":"s","start_location":{"normalized_distance":0,"track_line":"track_center_line"},"sensor_config_type":"lidar","life_count":0,"lap_count":0,"offtrack_penalty":0,"crash_penalty":0}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() { dispatch(s, ch, tc.key, tc.payload) })
		})
	}

	// Nothing was sent and the state is untouched.
	assert.Empty(t, ch.sends)
	assert.True(t, envconfig.NewArea().Equal(s.Area()))
	assert.Len(t, s.Agents(), 1)
}
