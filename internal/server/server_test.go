// ABOUTME: Tests for server state ownership: accessors, mutators, lifecycle.
// ABOUTME: Uses a hand-rolled mock channel to observe registration and sends.

package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/deepracer-config/internal/envconfig"
	"github.com/2389/deepracer-config/internal/sidechannel"
)

// mockChannel records register/unregister calls and sent messages.
type mockChannel struct {
	mu         sync.Mutex
	registered map[sidechannel.Observer]struct{}
	sends      []sendCall
}

type sendCall struct {
	key     string
	payload string
}

func newMockChannel() *mockChannel {
	return &mockChannel{registered: make(map[sidechannel.Observer]struct{})}
}

func (m *mockChannel) Register(o sidechannel.Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered[o] = struct{}{}
}

func (m *mockChannel) Unregister(o sidechannel.Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.registered, o)
}

func (m *mockChannel) Send(key, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, sendCall{key: key, payload: payload})
}

func (m *mockChannel) isRegistered(o sidechannel.Observer) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.registered[o]
	return ok
}

func (m *mockChannel) sentKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.sends))
	for i, s := range m.sends {
		keys[i] = s.key
	}
	return keys
}

func namedAgent(name string) *envconfig.Agent {
	agent := envconfig.NewAgent()
	agent.Name = name
	return agent
}

func TestNew_DefaultsAndAutoStart(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	assert.True(t, s.IsStarted())
	assert.True(t, ch.isRegistered(s))

	assert.True(t, envconfig.NewArea().Equal(s.Area()))
	assert.True(t, envconfig.NewTrack().Equal(s.Track()))

	agents := s.Agents()
	require.Len(t, agents, 1)
	assert.Equal(t, envconfig.DefaultAgentName, agents[0].Name)
}

func TestNew_InitialStateIsCopied(t *testing.T) {
	ch := newMockChannel()
	area := envconfig.NewArea()
	s := New(ch, Config{Area: area})

	// Mutating the caller's value must not leak into the server.
	area.GameOverCondition = envconfig.GameOverAll
	assert.Equal(t, envconfig.GameOverAny, s.Area().GameOverCondition)
}

func TestServer_StartStopIdempotent(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	s.Stop()
	assert.False(t, s.IsStarted())
	assert.False(t, ch.isRegistered(s))

	s.Stop() // repeated stop is a no-op
	assert.False(t, s.IsStarted())

	s.Start()
	assert.True(t, s.IsStarted())
	assert.True(t, ch.isRegistered(s))

	s.Start() // repeated start is a no-op
	assert.True(t, s.IsStarted())
}

func TestServer_AccessorsReturnDeepCopies(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	s.Area().GameOverCondition = envconfig.GameOverAll
	assert.Equal(t, envconfig.GameOverAny, s.Area().GameOverCondition)

	s.Track().Name = "monaco"
	assert.Equal(t, envconfig.DefaultTrackName, s.Track().Name)

	s.Agents()[0].Shell = "deepracer_red"
	assert.Equal(t, envconfig.DefaultShell, s.Agents()[0].Shell)

	agent, ok := s.Agent(envconfig.DefaultAgentName)
	require.True(t, ok)
	agent.LapCount = 99
	fresh, _ := s.Agent(envconfig.DefaultAgentName)
	assert.Equal(t, 1, fresh.LapCount)
}

func TestServer_Agent_NotFound(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	agent, ok := s.Agent("ghost")
	assert.False(t, ok)
	assert.Nil(t, agent)
}

func TestServer_ApplyAgent_OnlyReplacesExisting(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	// Unknown name: silent no-op, registry unchanged.
	s.ApplyAgent(namedAgent("ghost"))
	assert.Len(t, s.Agents(), 1)
	_, ok := s.Agent("ghost")
	assert.False(t, ok)

	// Existing name: replaced.
	updated := namedAgent(envconfig.DefaultAgentName)
	updated.LapCount = 5
	s.ApplyAgent(updated)
	got, _ := s.Agent(envconfig.DefaultAgentName)
	assert.Equal(t, 5, got.LapCount)
}

func TestServer_SpawnAgent_Upserts(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	bot := namedAgent("bot1")
	bot.LifeCount = 1
	s.SpawnAgent(bot)
	require.Len(t, s.Agents(), 2)

	// Spawning the same name again overwrites, leaving one entry with
	// the latest values.
	bot2 := namedAgent("bot1")
	bot2.LifeCount = 7
	s.SpawnAgent(bot2)

	agents := s.Agents()
	require.Len(t, agents, 2)
	got, ok := s.Agent("bot1")
	require.True(t, ok)
	assert.Equal(t, 7, got.LifeCount)
}

func TestServer_Agents_StableOrder(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	s.SpawnAgent(namedAgent("bot1"))
	s.SpawnAgent(namedAgent("bot2"))
	s.SpawnAgent(namedAgent("bot1")) // overwrite keeps position

	names := func() []string {
		agents := s.Agents()
		out := make([]string, len(agents))
		for i, a := range agents {
			out[i] = a.Name
		}
		return out
	}

	want := []string{envconfig.DefaultAgentName, "bot1", "bot2"}
	assert.Equal(t, want, names())
	assert.Equal(t, want, names()) // repeated snapshots agree
}

func TestServer_DeleteAgent_NeverEmptiesRegistry(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	// Deleting the only agent is a no-op.
	s.DeleteAgent(namedAgent(envconfig.DefaultAgentName))
	assert.Len(t, s.Agents(), 1)

	// With two agents, deletion removes exactly the named entry.
	s.SpawnAgent(namedAgent("bot1"))
	s.DeleteAgent(namedAgent(envconfig.DefaultAgentName))
	agents := s.Agents()
	require.Len(t, agents, 1)
	assert.Equal(t, "bot1", agents[0].Name)

	// Unknown names are ignored.
	s.SpawnAgent(namedAgent("bot2"))
	s.DeleteAgent(namedAgent("ghost"))
	assert.Len(t, s.Agents(), 2)
}

func TestServer_NilMutatorsAreNoOps(t *testing.T) {
	ch := newMockChannel()
	s := New(ch, Config{})

	s.ApplyArea(nil)
	s.ApplyTrack(nil)
	s.ApplyAgent(nil)
	s.SpawnAgent(nil)
	s.DeleteAgent(nil)

	assert.True(t, envconfig.NewArea().Equal(s.Area()))
	assert.Len(t, s.Agents(), 1)
}
