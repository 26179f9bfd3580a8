// ABOUTME: Transport capability carrying (key, payload) messages between endpoints.
// ABOUTME: Broadcast delivery: every registered observer sees every message.

package sidechannel

// Observer receives every message delivered on a side channel, regardless
// of recipient, and must self-filter by key prefix.
type Observer interface {
	OnReceived(channel SideChannel, key, payload string)
}

// SideChannel is the asynchronous message-delivery abstraction between the
// config client and server. Send is fire-and-forget with no delivery
// guarantee; retries are the caller's responsibility. Delivery happens on
// the channel's own context, never the sender's.
type SideChannel interface {
	Register(observer Observer)
	Unregister(observer Observer)
	Send(key, payload string)
}
