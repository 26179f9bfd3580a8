// ABOUTME: Authoritative owner of the environment config state.
// ABOUTME: Exposes typed accessors/mutators and start/stop lifecycle.

package server

import (
	"log/slog"
	"sync"

	"github.com/2389/deepracer-config/internal/envconfig"
	"github.com/2389/deepracer-config/internal/protocol"
	"github.com/2389/deepracer-config/internal/sidechannel"
)

// Config contains construction options for the Server. Nil entities fall
// back to defaults: a default area, a default track, and a single agent
// named envconfig.DefaultAgentName.
type Config struct {
	Area   *envconfig.Area
	Track  *envconfig.Track
	Agents []*envconfig.Agent
	Logger *slog.Logger
}

// Server owns the authoritative Area, Track, and agent registry, and
// dispatches keyed commands arriving on the side channel. It is safe for
// concurrent use; state access and start/stop lifecycle are guarded by
// independent locks so neither blocks the other.
type Server struct {
	channel sidechannel.SideChannel
	logger  *slog.Logger

	mu     sync.Mutex
	area   *envconfig.Area
	track  *envconfig.Track
	agents map[string]*envconfig.Agent
	order  []string // agent names in insertion order, for stable snapshots

	lifecycleMu sync.Mutex
	started     bool

	handlers map[protocol.Key]handler
}

// New creates a Server and immediately starts it: the server registers on
// the side channel and begins serving requests.
func New(channel sidechannel.SideChannel, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	area := cfg.Area
	if area == nil {
		area = envconfig.NewArea()
	}
	track := cfg.Track
	if track == nil {
		track = envconfig.NewTrack()
	}
	agents := cfg.Agents
	if len(agents) == 0 {
		agents = []*envconfig.Agent{envconfig.NewAgent()}
	}

	s := &Server{
		channel: channel,
		logger:  logger.With("component", "config-server"),
		area:    area.Copy(),
		track:   track.Copy(),
		agents:  make(map[string]*envconfig.Agent, len(agents)),
	}
	for _, agent := range agents {
		if _, exists := s.agents[agent.Name]; !exists {
			s.order = append(s.order, agent.Name)
		}
		s.agents[agent.Name] = agent.Copy()
	}

	s.handlers = s.buildHandlers()
	s.Start()
	return s
}

// IsStarted reports whether the server is registered on the side channel.
func (s *Server) IsStarted() bool {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	return s.started
}

// Start registers the server on the side channel. Idempotent.
func (s *Server) Start() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if !s.started {
		s.channel.Register(s)
		s.started = true
		s.logger.Info("config server started")
	}
}

// Stop unregisters the server from the side channel. Idempotent. State
// remains intact and direct accessors keep working while stopped.
func (s *Server) Stop() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.started {
		s.channel.Unregister(s)
		s.started = false
		s.logger.Info("config server stopped")
	}
}

// Area returns a deep copy of the current area config.
func (s *Server) Area() *envconfig.Area {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.area.Copy()
}

// Track returns a deep copy of the current track config.
func (s *Server) Track() *envconfig.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track.Copy()
}

// Agents returns deep copies of all agents in insertion order.
func (s *Server) Agents() []*envconfig.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents := make([]*envconfig.Agent, 0, len(s.order))
	for _, name := range s.order {
		agents = append(agents, s.agents[name].Copy())
	}
	return agents
}

// Agent returns a deep copy of the named agent, or (nil, false) when the
// name is unknown.
func (s *Server) Agent(name string) (*envconfig.Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, ok := s.agents[name]
	if !ok {
		return nil, false
	}
	return agent.Copy(), true
}

// ApplyArea replaces the area config wholesale. Nil is ignored.
func (s *Server) ApplyArea(area *envconfig.Area) {
	if area == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.area = area.Copy()
}

// ApplyTrack replaces the track config wholesale. Nil is ignored.
func (s *Server) ApplyTrack(track *envconfig.Track) {
	if track == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track = track.Copy()
}

// ApplyAgent replaces the registry entry for the agent's name only when
// that name already exists; an unknown name is a silent no-op. Use
// SpawnAgent to add agents.
func (s *Server) ApplyAgent(agent *envconfig.Agent) {
	if agent == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.agents[agent.Name]; exists {
		s.agents[agent.Name] = agent.Copy()
	}
}

// SpawnAgent inserts or overwrites the registry entry for the agent's
// name. An overwrite keeps the name's original position in the snapshot
// order.
func (s *Server) SpawnAgent(agent *envconfig.Agent) {
	if agent == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.agents[agent.Name]; !exists {
		s.order = append(s.order, agent.Name)
	}
	s.agents[agent.Name] = agent.Copy()
}

// DeleteAgent removes the registry entry for the agent's name, unless it
// is the last remaining agent: the registry never empties, so deleting the
// final agent is a silent no-op.
func (s *Server) DeleteAgent(agent *envconfig.Agent) {
	if agent == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.agents) <= 1 {
		return
	}
	if _, exists := s.agents[agent.Name]; !exists {
		return
	}
	delete(s.agents, agent.Name)
	for i, name := range s.order {
		if name == agent.Name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
