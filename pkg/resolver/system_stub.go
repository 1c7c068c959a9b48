//go:build !linux

package resolver

import "errors"

// System resolution needs netlink; only linux is supported.
type System struct{}

// NewSystem creates a system resolver.
func NewSystem() *System {
	return &System{}
}

func (s *System) Resolve(c Criteria) (string, error) {
	return "", errors.New("device resolution is only supported on linux")
}
