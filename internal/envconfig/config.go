// ABOUTME: Sealed Config interface implemented by the entity variants.
// ABOUTME: Defaults for the simulated racing environment live here too.

package envconfig

// Defaults used when a server is constructed without explicit entities.
const (
	DefaultAgentName = "agent0"
	DefaultShell     = "deepracer_black"
	DefaultTrackName = "spain"
)

// Config is the closed set of configuration entities exchanged between the
// config client and server: *Area, *Track, and *Agent. The sealed method
// keeps the set closed so dispatch code can match variants exhaustively.
type Config interface {
	// Validate checks field-level invariants (enum tokens, ranges).
	Validate() error

	sealed()
}

func (*Area) sealed()  {}
func (*Track) sealed() {}
func (*Agent) sealed() {}
