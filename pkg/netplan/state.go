package netplan

import "github.com/psaab/nplan/pkg/resolver"

// NetworkState is the canonical form of a parsed netplan document: one
// fully resolved spec per declared interface. Specs are kept sorted by
// final device name so downstream rendering is deterministic.
type NetworkState struct {
	Version    int
	Interfaces []*InterfaceSpec
}

// InterfaceSpec describes one ethernet entry after device resolution and
// override validation. It is immutable once built.
type InterfaceSpec struct {
	ID             string            // logical id from the source document
	Match          resolver.Criteria // at least one field is set
	ResolvedName   string            // concrete device name from the resolver
	SetName        string            // rename target, "" when not declared
	Addresses      []string          // static CIDR addresses, declared order
	DHCP4          bool
	DHCP6          bool
	DHCP4Overrides DHCPOverrides // nil when no dhcp4-overrides block was declared
	DHCP6Overrides DHCPOverrides // nil when no dhcp6-overrides block was declared
	SearchDomains  []string      // nameservers.search, declared order
	DNSAddresses   []string      // nameservers.addresses, declared order
}

// Name returns the device name used for output file naming and the
// [Match] Name= field: the rename target when set-name was declared,
// otherwise the resolved name.
func (s *InterfaceSpec) Name() string {
	if s.SetName != "" {
		return s.SetName
	}
	return s.ResolvedName
}
