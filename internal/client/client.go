// ABOUTME: Synchronous config client over the asynchronous side channel.
// ABOUTME: Correlates get responses by key with retry and broadcast wakeup.

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/2389/deepracer-config/internal/envconfig"
	"github.com/2389/deepracer-config/internal/protocol"
	"github.com/2389/deepracer-config/internal/sidechannel"
)

// ErrTimeout indicates a get exhausted its retry attempts with no
// correlated response.
var ErrTimeout = errors.New("timed out retrieving config")

// ErrInvalidConfig indicates a nil or invalid entity was passed to a
// fire-and-forget command.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultTimeout is the per-attempt wait for a get response.
const DefaultTimeout = 10 * time.Second

// DefaultMaxRetryAttempts is the number of additional send attempts after
// the first one times out.
const DefaultMaxRetryAttempts = 5

// pending is the waitable slot for one correlation key. wake is closed and
// replaced whenever a response arrives, so every goroutine waiting on the
// current generation observes exactly the responses that arrive after it
// grabbed the channel. result always holds the most recent response.
type pending struct {
	wake   chan struct{}
	result json.RawMessage
}

// Config contains construction options for the Client.
type Config struct {
	// Timeout is the per-attempt wait for a response. Zero selects
	// DefaultTimeout; negative means wait forever.
	Timeout time.Duration
	// MaxRetryAttempts is the retry budget after the first timeout. Zero
	// selects DefaultMaxRetryAttempts; negative disables retries. The
	// budget can be changed later with SetMaxRetryAttempts.
	MaxRetryAttempts int
	Logger           *slog.Logger
}

// Client turns the request/response message exchange with a config server
// into synchronous calls, and command exchange into fire-and-forget sends.
// It is safe for concurrent use.
type Client struct {
	channel sidechannel.SideChannel
	logger  *slog.Logger

	mu       sync.Mutex
	slots    map[string]*pending
	timeout  time.Duration
	maxRetry int
}

// New creates a Client and registers it on the side channel.
func New(channel sidechannel.SideChannel, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	maxRetry := cfg.MaxRetryAttempts
	if maxRetry == 0 {
		maxRetry = DefaultMaxRetryAttempts
	} else if maxRetry < 0 {
		maxRetry = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		channel:  channel,
		logger:   logger.With("component", "config-client"),
		slots:    make(map[string]*pending),
		timeout:  timeout,
		maxRetry: maxRetry,
	}
	channel.Register(c)
	return c
}

// Timeout returns the current per-attempt wait.
func (c *Client) Timeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeout
}

// SetTimeout changes the per-attempt wait. Negative means wait forever.
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// MaxRetryAttempts returns the current retry budget.
func (c *Client) MaxRetryAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxRetry
}

// SetMaxRetryAttempts changes the retry budget.
func (c *Client) SetMaxRetryAttempts(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxRetry = n
}

// Close unregisters the client from the side channel. Waiting gets keep
// running until their retry budget expires.
func (c *Client) Close() {
	c.channel.Unregister(c)
}

// GetArea retrieves the server's current area config.
func (c *Client) GetArea() (*envconfig.Area, error) {
	raw, err := c.get(protocol.FormatKey(protocol.ActionGet, protocol.TargetArea), "")
	if err != nil {
		return nil, err
	}
	return envconfig.ParseArea(raw)
}

// GetTrack retrieves the server's current track config.
func (c *Client) GetTrack() (*envconfig.Track, error) {
	raw, err := c.get(protocol.FormatKey(protocol.ActionGet, protocol.TargetTrack), "")
	if err != nil {
		return nil, err
	}
	return envconfig.ParseTrack(raw)
}

// GetAgents retrieves the server's current agent registry snapshot.
func (c *Client) GetAgents() ([]*envconfig.Agent, error) {
	raw, err := c.get(protocol.FormatKey(protocol.ActionGet, protocol.TargetAgents), "")
	if err != nil {
		return nil, err
	}
	return envconfig.ParseAgents(raw)
}

// GetAgent retrieves a single agent by name. The server does not reply for
// an unknown name, so such a request runs out its retry budget and fails
// with ErrTimeout.
func (c *Client) GetAgent(name string) (*envconfig.Agent, error) {
	raw, err := c.get(protocol.FormatKey(protocol.ActionGet, protocol.TargetAgent), name)
	if err != nil {
		return nil, err
	}
	return envconfig.ParseAgent(raw)
}

// ApplyArea replaces the server's area config. Fire-and-forget.
func (c *Client) ApplyArea(area *envconfig.Area) error {
	return c.send(protocol.ActionApply, protocol.TargetArea, area)
}

// ApplyTrack replaces the server's track config. Fire-and-forget.
func (c *Client) ApplyTrack(track *envconfig.Track) error {
	return c.send(protocol.ActionApply, protocol.TargetTrack, track)
}

// ApplyAgent updates an existing agent on the server; the server ignores
// names it does not know. Fire-and-forget.
func (c *Client) ApplyAgent(agent *envconfig.Agent) error {
	return c.send(protocol.ActionApply, protocol.TargetAgent, agent)
}

// SpawnAgent inserts or overwrites an agent on the server, keyed by name.
// Fire-and-forget.
func (c *Client) SpawnAgent(agent *envconfig.Agent) error {
	return c.send(protocol.ActionSpawn, protocol.TargetAgent, agent)
}

// DeleteAgent removes the named agent on the server; the server keeps the
// last remaining agent regardless. Fire-and-forget.
func (c *Client) DeleteAgent(agent *envconfig.Agent) error {
	return c.send(protocol.ActionDelete, protocol.TargetAgent, agent)
}

// send validates and encodes an entity, then fires a command with no wait
// for acknowledgment.
func (c *Client) send(action protocol.Action, target protocol.Target, cfg envconfig.Config) error {
	if cfg == nil || isNil(cfg) {
		return fmt.Errorf("%w: nil entity", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	c.channel.Send(protocol.FormatKey(action, target), string(payload))
	return nil
}

// isNil reports whether a Config interface wraps a nil pointer.
func isNil(cfg envconfig.Config) bool {
	switch v := cfg.(type) {
	case *envconfig.Area:
		return v == nil
	case *envconfig.Track:
		return v == nil
	case *envconfig.Agent:
		return v == nil
	default:
		return false
	}
}

// get sends the request under key and blocks until a correlated response
// arrives or the retry budget is exhausted. Each timed-out attempt re-sends
// the request; the server treats every get identically, so re-sending is
// idempotent at the protocol level.
func (c *Client) get(key, payload string) (json.RawMessage, error) {
	timeout := c.Timeout()
	maxRetry := c.MaxRetryAttempts()

	for attempt := 0; ; attempt++ {
		c.mu.Lock()
		slot := c.slotLocked(key)
		wake := slot.wake
		c.mu.Unlock()

		c.channel.Send(key, payload)

		var timeoutC <-chan time.Time
		var timer *time.Timer
		if timeout > 0 {
			timer = time.NewTimer(timeout)
			timeoutC = timer.C
		}

		select {
		case <-wake:
			if timer != nil {
				timer.Stop()
			}
			c.mu.Lock()
			result := slot.result
			c.mu.Unlock()
			return result, nil

		case <-timeoutC:
			if attempt >= maxRetry {
				return nil, fmt.Errorf("%w: no response after %d retries", ErrTimeout, maxRetry)
			}
			c.logger.Info("no response, retrying config request",
				"key", key,
				"retry_count", attempt+1,
				"max_retry_attempts", maxRetry,
			)
		}
	}
}

// slotLocked returns the pending slot for key, creating it on first use.
// Must be called with mu held.
func (c *Client) slotLocked(key string) *pending {
	slot, ok := c.slots[key]
	if !ok {
		slot = &pending{wake: make(chan struct{})}
		c.slots[key] = slot
	}
	return slot
}

// OnReceived handles a side-channel delivery. Keys without the reserved
// prefix are ignored. The payload is stored as the key's most recent
// result and every goroutine waiting on the key's current generation is
// woken by closing the generation channel; a fresh channel replaces it so
// a later get only observes a newer response.
func (c *Client) OnReceived(_ sidechannel.SideChannel, key, payload string) {
	if !protocol.HasPrefix(key) {
		return
	}
	if !json.Valid([]byte(payload)) {
		c.logger.Warn("invalid response payload, dropping", "key", key)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	slot := c.slotLocked(key)
	slot.result = json.RawMessage(payload)
	close(slot.wake)
	slot.wake = make(chan struct{})
}
