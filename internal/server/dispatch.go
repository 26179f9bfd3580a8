// ABOUTME: Keyed command dispatch for the config server.
// ABOUTME: Finite handler table; malformed messages are logged and dropped.

package server

import (
	"encoding/json"
	"fmt"

	"github.com/2389/deepracer-config/internal/envconfig"
	"github.com/2389/deepracer-config/internal/protocol"
	"github.com/2389/deepracer-config/internal/sidechannel"
)

// handler processes one inbound payload. A non-nil reply is sent back on
// the request's own key; mutators return no reply.
type handler func(payload string) (reply []byte, err error)

// buildHandlers constructs the complete dispatch table. Every supported
// (action, target) pair is listed here; a key that parses but has no entry
// is an unsupported combination and is dropped by OnReceived.
func (s *Server) buildHandlers() map[protocol.Key]handler {
	return map[protocol.Key]handler{
		{Action: protocol.ActionGet, Target: protocol.TargetArea}:    s.handleGetArea,
		{Action: protocol.ActionGet, Target: protocol.TargetTrack}:   s.handleGetTrack,
		{Action: protocol.ActionGet, Target: protocol.TargetAgents}:  s.handleGetAgents,
		{Action: protocol.ActionGet, Target: protocol.TargetAgent}:   s.handleGetAgent,
		{Action: protocol.ActionApply, Target: protocol.TargetArea}:  s.handleApplyArea,
		{Action: protocol.ActionApply, Target: protocol.TargetTrack}: s.handleApplyTrack,
		{Action: protocol.ActionApply, Target: protocol.TargetAgent}: s.handleApplyAgent,
		{Action: protocol.ActionSpawn, Target: protocol.TargetAgent}: s.handleSpawnAgent,
		{Action: protocol.ActionDelete, Target: protocol.TargetAgent}: s.handleDeleteAgent,
	}
}

// OnReceived handles a side-channel delivery. Keys without the reserved
// prefix are ignored; any parse, decode, or handler failure is logged and
// the message dropped, so a bad message never crashes the dispatch loop or
// leaks an error past this boundary. Replies to get actions go back on the
// same key the request arrived on.
func (s *Server) OnReceived(channel sidechannel.SideChannel, key, payload string) {
	if !protocol.HasPrefix(key) {
		return
	}

	parsed, err := protocol.ParseKey(key)
	if err != nil {
		s.logger.Info("invalid key received, dropping message", "key", key, "error", err)
		return
	}

	h, ok := s.handlers[parsed]
	if !ok {
		s.logger.Info("unsupported action/target, dropping message",
			"action", string(parsed.Action),
			"target", string(parsed.Target),
		)
		return
	}

	reply, err := h(payload)
	if err != nil {
		s.logger.Info("handler failed, dropping message",
			"action", string(parsed.Action),
			"target", string(parsed.Target),
			"error", err,
		)
		return
	}

	if parsed.Action == protocol.ActionGet && reply != nil {
		channel.Send(key, string(reply))
	}
}

func (s *Server) handleGetArea(string) ([]byte, error) {
	return json.Marshal(s.Area())
}

func (s *Server) handleGetTrack(string) ([]byte, error) {
	return json.Marshal(s.Track())
}

func (s *Server) handleGetAgents(string) ([]byte, error) {
	return envconfig.EncodeAgents(s.Agents())
}

// handleGetAgent treats the payload as the agent name. An unknown name
// produces no reply; the requester's timeout covers that case.
func (s *Server) handleGetAgent(payload string) ([]byte, error) {
	agent, ok := s.Agent(payload)
	if !ok {
		return nil, nil
	}
	return json.Marshal(agent)
}

func (s *Server) handleApplyArea(payload string) ([]byte, error) {
	area, err := envconfig.ParseArea([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("apply area: %w", err)
	}
	s.ApplyArea(area)
	return nil, nil
}

func (s *Server) handleApplyTrack(payload string) ([]byte, error) {
	track, err := envconfig.ParseTrack([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("apply track: %w", err)
	}
	s.ApplyTrack(track)
	return nil, nil
}

func (s *Server) handleApplyAgent(payload string) ([]byte, error) {
	agent, err := envconfig.ParseAgent([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("apply agent: %w", err)
	}
	s.ApplyAgent(agent)
	return nil, nil
}

func (s *Server) handleSpawnAgent(payload string) ([]byte, error) {
	agent, err := envconfig.ParseAgent([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("spawn agent: %w", err)
	}
	s.SpawnAgent(agent)
	return nil, nil
}

func (s *Server) handleDeleteAgent(payload string) ([]byte, error) {
	agent, err := envconfig.ParseAgent([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("delete agent: %w", err)
	}
	s.DeleteAgent(agent)
	return nil, nil
}
