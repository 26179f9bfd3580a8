// Package envconfig defines the configuration entities exchanged between
// the config client and the config server.
//
// # Entities
//
// The set of entities is closed: Area (arena rules), Track (geometry
// selection), and Agent (racer behaviour, with a nested start Location).
// All three implement the sealed Config interface. Each entity supports
// the same narrow contract:
//
//   - JSON encode via encoding/json struct tags
//   - decode via ParseArea / ParseTrack / ParseAgent, which validate
//   - deep copy via Copy
//   - value equality via Equal
//
// The protocol layers treat entities opaquely through this contract and
// never reach into their internals.
//
// # Validation
//
// Enum-typed fields (game-over condition, track direction, track line,
// sensor configuration) reject unknown tokens. Agents additionally require
// lap_count >= 1 and non-negative penalty times. Parse helpers validate
// after decode, so a value obtained from the wire is always well formed.
package envconfig
