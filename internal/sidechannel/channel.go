// ABOUTME: In-memory side channel: a connected pair of message endpoints.
// ABOUTME: A dispatcher goroutine delivers queued envelopes asynchronously.

package sidechannel

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// queueSize is the buffer for in-flight envelopes awaiting delivery.
const queueSize = 256

// envelope is a queued message with an ID for tracing.
type envelope struct {
	id      string
	key     string
	payload string
	dest    *Endpoint
}

// pipe is the shared core of a connected endpoint pair: one delivery queue
// drained by a single dispatcher goroutine, so messages keep their global
// send order and OnReceived never runs on a sender's goroutine.
type pipe struct {
	mu     sync.Mutex
	queue  chan envelope
	done   chan struct{}
	closed bool
	logger *slog.Logger
}

// Endpoint is one end of an in-memory side channel. A message sent on one
// endpoint is broadcast to every observer registered on the peer endpoint,
// mirroring a transport between two processes: observers see what arrives
// from the other side, never their own sends.
type Endpoint struct {
	pipe *pipe
	peer *Endpoint

	mu        sync.RWMutex
	observers map[Observer]struct{}
}

// Pipe creates a connected pair of in-memory endpoints and starts their
// shared dispatcher. Pass nil logger for default. Closing either endpoint
// closes the pair.
func Pipe(logger *slog.Logger) (*Endpoint, *Endpoint) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &pipe{
		queue:  make(chan envelope, queueSize),
		done:   make(chan struct{}),
		logger: logger.With("component", "sidechannel"),
	}
	a := &Endpoint{pipe: p, observers: make(map[Observer]struct{})}
	b := &Endpoint{pipe: p, observers: make(map[Observer]struct{})}
	a.peer, b.peer = b, a

	go p.dispatch()
	return a, b
}

// Register attaches an observer to this endpoint. Registering the same
// observer twice is a no-op.
func (e *Endpoint) Register(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers[observer] = struct{}{}
}

// Unregister detaches an observer. Unknown observers are ignored.
func (e *Endpoint) Unregister(observer Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.observers, observer)
}

// Send queues a message for delivery to the peer endpoint's observers. If
// the pair is closed or the queue is full the message is dropped; the
// channel offers no delivery guarantee.
func (e *Endpoint) Send(key, payload string) {
	env := envelope{id: uuid.New().String(), key: key, payload: payload, dest: e.peer}

	p := e.pipe
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		p.logger.Warn("send on closed channel, dropping message",
			"msg_id", env.id,
			"key", key,
		)
		return
	}

	select {
	case p.queue <- env:
		p.logger.Debug("message queued", "msg_id", env.id, "key", key)
	default:
		p.logger.Warn("delivery queue full, dropping message",
			"msg_id", env.id,
			"key", key,
		)
	}
}

// Close stops the pair's dispatcher. It is safe to call multiple times and
// on either endpoint. Messages still queued at close time are not
// delivered.
func (e *Endpoint) Close() {
	p := e.pipe
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		close(p.done)
		p.closed = true
	}
}

// dispatch drains the queue, fanning each envelope out to its destination
// endpoint's observers.
func (p *pipe) dispatch() {
	for {
		select {
		case env := <-p.queue:
			env.dest.deliver(env)
		case <-p.done:
			return
		}
	}
}

// deliver fans one envelope out to a snapshot of the endpoint's observers.
// Observers added mid-delivery see only subsequent messages.
func (e *Endpoint) deliver(env envelope) {
	e.mu.RLock()
	observers := make([]Observer, 0, len(e.observers))
	for o := range e.observers {
		observers = append(observers, o)
	}
	e.mu.RUnlock()

	for _, o := range observers {
		o.OnReceived(e, env.key, env.payload)
	}
}
