package networkd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/psaab/nplan/pkg/netplan"
)

// section is one named group of key=value lines in a .network unit.
type section struct {
	name  string
	lines []string
}

func (s *section) set(key, value string) {
	s.lines = append(s.lines, key+"="+value)
}

// unit builds a .network file body as an explicit ordered list of
// sections: the emitted section and key order is exactly the call order,
// never a sorted map walk. Consumers diff and hash these files, so the
// byte layout is part of the contract.
type unit struct {
	sections []*section
}

func (u *unit) section(name string) *section {
	s := &section{name: name}
	u.sections = append(u.sections, s)
	return s
}

// String renders the unit. Sections with no lines are dropped; every
// emitted section, including the last, is followed by one blank line.
func (u *unit) String() string {
	var b strings.Builder
	for _, s := range u.sections {
		if len(s.lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "[%s]\n", s.name)
		for _, line := range s.lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// overrideKeys maps source override keys to their rendered names, in the
// alphabetical rendered-name order the output contract requires.
var overrideKeys = []struct {
	source   string
	rendered string
}{
	{"hostname", "Hostname"},
	{"route-metric", "RouteMetric"},
	{"send-hostname", "SendHostname"},
	{"use-dns", "UseDNS"},
	{"use-domains", "UseDomains"},
	{"use-hostname", "UseHostname"},
	{"use-mtu", "UseMTU"},
	{"use-ntp", "UseNTP"},
	{"use-routes", "UseRoutes"},
}

// Render produces one .network unit body per interface, keyed by final
// device name. It is a pure function of the state: same state in, byte
// identical text out.
func Render(state *netplan.NetworkState) map[string]string {
	out := make(map[string]string, len(state.Interfaces))
	for _, spec := range state.Interfaces {
		out[spec.Name()] = renderInterface(spec)
	}
	return out
}

func renderInterface(spec *netplan.InterfaceSpec) string {
	var u unit

	// DHCP override sections come first; each exists only when the source
	// declared the corresponding overrides block, regardless of the enable
	// flags. Undeclared keys are never filled from defaults.
	if spec.DHCP4Overrides != nil {
		renderOverrides(u.section("DHCPv4"), spec.DHCP4Overrides)
	}
	if spec.DHCP6Overrides != nil {
		renderOverrides(u.section("DHCPv6"), spec.DHCP6Overrides)
	}

	match := u.section("Match")
	if spec.Match.MACAddress != "" {
		match.set("MACAddress", spec.Match.MACAddress)
	}
	match.set("Name", spec.Name())

	network := u.section("Network")
	network.set("DHCP", dhcpValue(spec.DHCP4, spec.DHCP6))
	if len(spec.DNSAddresses) > 0 {
		network.set("DNS", strings.Join(spec.DNSAddresses, " "))
	}
	if len(spec.SearchDomains) > 0 {
		network.set("Domains", strings.Join(spec.SearchDomains, " "))
	}
	for _, addr := range spec.Addresses {
		network.set("Address", addr)
	}

	return u.String()
}

func renderOverrides(s *section, rec netplan.DHCPOverrides) {
	for _, k := range overrideKeys {
		if v, ok := rec[k.source]; ok {
			s.set(k.rendered, formatValue(v))
		}
	}
}

// formatValue renders one override value. Booleans are capitalized;
// existing consumers of these files expect True/False, not networkd's
// lowercase forms.
func formatValue(v netplan.OverrideValue) string {
	switch v.Kind {
	case netplan.KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case netplan.KindInteger:
		return strconv.Itoa(v.Int)
	default:
		return v.Str
	}
}

// dhcpValue computes the [Network] DHCP= setting from the two enable
// flags. It is independent of whether override sections exist.
func dhcpValue(v4, v6 bool) string {
	switch {
	case v4 && v6:
		return "yes"
	case v4:
		return "ipv4"
	case v6:
		return "ipv6"
	default:
		return "no"
	}
}
