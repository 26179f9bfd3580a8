// Package protocol defines the correlation-key wire format shared by the
// config client and the config server.
//
// A key is an ASCII string of exactly three fields joined by "::":
//
//	deepracer_config::{action}::{target}
//
// where action is one of get, apply, spawn, delete and target is one of
// area, agent, agents, track. The client sends requests under such a key
// and the server replies to get actions on the same key, which is what
// lets the client correlate a response with its pending request.
package protocol
