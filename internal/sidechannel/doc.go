// Package sidechannel provides the asynchronous message-delivery
// abstraction between the config client and server.
//
// # Contract
//
// A SideChannel carries (key, payload) string pairs. Delivery is broadcast:
// every Observer registered on the receiving end sees every arriving
// message and self-filters by key prefix. Send is fire-and-forget with no
// delivery guarantee; a caller that needs a response retries on its own
// schedule.
//
// The OnReceived callback is always invoked on the channel's delivery
// context, concurrently with whatever the observer's other callers are
// doing. Observers must be safe for that.
//
// # In-memory pipe
//
// Pipe returns a connected pair of Endpoints used by tests and the demo
// binary, modelled on the two ends of a transport between processes: a
// message sent on one endpoint arrives at the peer's observers, never back
// at the sender's own. A single dispatcher goroutine drains a shared queue,
// preserving global send order while keeping delivery off the sender's
// goroutine.
package sidechannel
