// Package client implements the synchronous configuration client.
//
// # Overview
//
// The Client speaks the config protocol over a side channel: get requests
// block the caller until a response correlated by key arrives, while
// apply/spawn/delete commands are fire-and-forget sends.
//
// # Request/Response Correlation
//
// Each correlation key owns a pending slot holding the most recent decoded
// response and a generation channel. A get:
//
//  1. Grabs the key's current generation channel
//  2. Sends the request on the side channel
//  3. Waits for the generation channel to close, up to the timeout
//  4. On wakeup, reads the slot's result; on timeout, re-sends and waits
//     again, failing with ErrTimeout once the retry budget is spent
//
// OnReceived stores the response and closes the current generation channel,
// waking every waiter at once, then installs a fresh channel. A response
// arriving before, during, or after the wait begins is therefore handled
// uniformly, and a get that starts after a response was stored only wakes
// on a newer response.
//
// # Known hazard
//
// Responses are keyed by correlation key alone, not by attempt. A late
// response to a timed-out attempt can satisfy a later wait on the same
// key. This mirrors the protocol's design; every get for a key asks the
// same question, so the late answer is still current enough in practice.
package client
