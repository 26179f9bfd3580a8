// ABOUTME: Correlation-key primitives shared by the config client and server.
// ABOUTME: Defines the reserved prefix, action/target tokens, and key parsing.

package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// KeyPrefix is the reserved prefix carried by every config message key.
// Observers on the side channel use it to self-filter, since the channel
// broadcasts every message to every observer.
const KeyPrefix = "deepracer_config"

// KeySeparator delimits the three fields of a correlation key.
const KeySeparator = "::"

// ErrMalformedKey indicates a key that does not have exactly three
// separator-delimited fields starting with the reserved prefix.
var ErrMalformedKey = errors.New("malformed config key")

// Action identifies the operation a config message requests.
type Action string

const (
	ActionGet    Action = "get"
	ActionApply  Action = "apply"
	ActionSpawn  Action = "spawn"
	ActionDelete Action = "delete"
)

// ParseAction validates an action token from the wire.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionGet, ActionApply, ActionSpawn, ActionDelete:
		return a, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// Target identifies the configuration entity a config message addresses.
type Target string

const (
	TargetArea   Target = "area"
	TargetAgent  Target = "agent"
	TargetAgents Target = "agents"
	TargetTrack  Target = "track"
)

// ParseTarget validates a target token from the wire.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetArea, TargetAgent, TargetAgents, TargetTrack:
		return t, nil
	default:
		return "", fmt.Errorf("unknown target %q", s)
	}
}

// Key is a parsed correlation key. The same key string routes a request to
// its handler on the server and matches the eventual response back to the
// waiting requester on the client.
type Key struct {
	Action Action
	Target Target
}

// String renders the key in wire format: prefix::action::target.
func (k Key) String() string {
	return KeyPrefix + KeySeparator + string(k.Action) + KeySeparator + string(k.Target)
}

// FormatKey builds the wire form of a correlation key.
func FormatKey(action Action, target Target) string {
	return Key{Action: action, Target: target}.String()
}

// HasPrefix reports whether a raw message key carries the reserved prefix.
func HasPrefix(key string) bool {
	return strings.HasPrefix(key, KeyPrefix)
}

// ParseKey splits a raw key into its three fields and validates each one.
// Returns ErrMalformedKey (possibly wrapped) on any shape or token failure.
func ParseKey(raw string) (Key, error) {
	parts := strings.Split(raw, KeySeparator)
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedKey, len(parts))
	}
	if parts[0] != KeyPrefix {
		return Key{}, fmt.Errorf("%w: invalid prefix %q", ErrMalformedKey, parts[0])
	}
	action, err := ParseAction(parts[1])
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	target, err := ParseTarget(parts[2])
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return Key{Action: action, Target: target}, nil
}
