package netplan

import "errors"

// Error kinds surfaced by Load and BuildState. Callers distinguish them
// with errors.Is; resolver failures pass through from pkg/resolver.
var (
	// ErrConfig marks an unsupported version, malformed document shape,
	// or an interface entry without a usable match criterion.
	ErrConfig = errors.New("invalid network config")

	// ErrValidation marks an unknown DHCP override key or a value of the
	// wrong kind for a recognized key.
	ErrValidation = errors.New("invalid dhcp override")
)
