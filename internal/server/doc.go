// Package server implements the configuration dispatch server.
//
// # Overview
//
// The Server owns the authoritative environment state: exactly one Area,
// one Track, and a name-keyed registry of Agents. Construction auto-starts
// the server; Stop and Start unregister/re-register it on the side channel
// and are idempotent.
//
// # Dispatch
//
// Inbound messages are routed through a finite handler table keyed by the
// parsed (action, target) pair, built once at construction. Only get
// actions produce a reply, sent back on the same key the request arrived
// on. Malformed keys, unsupported pairs, undecodable payloads, and handler
// failures are logged and dropped; a bad message never affects the running
// state.
//
// # State rules
//
//   - Accessors return defensive deep copies; callers can never mutate
//     server-owned state through a returned value.
//   - ApplyAgent only replaces an existing name; SpawnAgent upserts
//     unconditionally; DeleteAgent never removes the last agent, so the
//     registry can never become empty.
//   - Agent snapshots preserve insertion order, keeping repeated reads
//     deterministic.
//
// # Locking
//
// All state goes through one mutex held only for the duration of a get or
// mutate call. The start/stop lifecycle uses a separate mutex so
// (re)registration never blocks state access and vice versa.
package server
