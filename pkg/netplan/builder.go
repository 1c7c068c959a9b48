package netplan

import (
	"fmt"
	"sort"

	"github.com/psaab/nplan/pkg/resolver"
)

// supportedVersion is the only netplan schema version this builder accepts.
const supportedVersion = 2

// BuildState validates a generic Document and compiles it into a
// NetworkState, resolving every interface's match criteria through r.
// Any failure (bad version or shape, unknown override key, unresolvable
// or ambiguous device) aborts the whole build; there is no per-interface
// recovery.
func BuildState(doc Document, r resolver.Resolver) (*NetworkState, error) {
	version, ok := asInt(doc["version"])
	if !ok {
		return nil, fmt.Errorf("%w: missing or non-integer version", ErrConfig)
	}
	if version != supportedVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrConfig, version)
	}

	state := &NetworkState{Version: version}

	raw, ok := doc["ethernets"]
	if !ok {
		return state, nil
	}
	eths, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: ethernets: expected a mapping, got %T", ErrConfig, raw)
	}

	// Map iteration order is random; sort ids so resolver calls and error
	// reporting are deterministic across runs.
	ids := make([]string, 0, len(eths))
	for id := range eths {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		entry, ok := eths[id].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: ethernets.%s: expected a mapping, got %T", ErrConfig, id, eths[id])
		}
		spec, err := compileInterface(id, entry, r)
		if err != nil {
			return nil, fmt.Errorf("ethernets.%s: %w", id, err)
		}
		state.Interfaces = append(state.Interfaces, spec)
	}

	sort.Slice(state.Interfaces, func(i, j int) bool {
		return state.Interfaces[i].Name() < state.Interfaces[j].Name()
	})
	return state, nil
}

func compileInterface(id string, raw map[string]any, r resolver.Resolver) (*InterfaceSpec, error) {
	spec := &InterfaceSpec{ID: id}

	criteria, err := compileMatch(raw["match"])
	if err != nil {
		return nil, err
	}
	spec.Match = criteria

	spec.ResolvedName, err = r.Resolve(criteria)
	if err != nil {
		return nil, err
	}

	if v, ok := raw["set-name"]; ok {
		spec.SetName, err = wantString("set-name", v)
		if err != nil {
			return nil, err
		}
	}

	if spec.DHCP4, err = optionalBool("dhcp4", raw["dhcp4"]); err != nil {
		return nil, err
	}
	if spec.DHCP6, err = optionalBool("dhcp6", raw["dhcp6"]); err != nil {
		return nil, err
	}

	// An absent overrides block means no DHCP section at all for that
	// protocol, even when the enable flag is true.
	if spec.DHCP4Overrides, err = compileOverrides("dhcp4-overrides", raw); err != nil {
		return nil, err
	}
	if spec.DHCP6Overrides, err = compileOverrides("dhcp6-overrides", raw); err != nil {
		return nil, err
	}

	if spec.Addresses, err = optionalStringList("addresses", raw["addresses"]); err != nil {
		return nil, err
	}

	if v, ok := raw["nameservers"]; ok {
		ns, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: nameservers: expected a mapping, got %T", ErrConfig, v)
		}
		if spec.SearchDomains, err = optionalStringList("nameservers.search", ns["search"]); err != nil {
			return nil, err
		}
		if spec.DNSAddresses, err = optionalStringList("nameservers.addresses", ns["addresses"]); err != nil {
			return nil, err
		}
	}

	return spec, nil
}

func compileMatch(raw any) (resolver.Criteria, error) {
	var c resolver.Criteria
	if raw == nil {
		return c, fmt.Errorf("%w: at least one match criterion is required", ErrConfig)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return c, fmt.Errorf("%w: match: expected a mapping, got %T", ErrConfig, raw)
	}
	for key, val := range m {
		s, err := wantString("match."+key, val)
		if err != nil {
			return c, err
		}
		switch key {
		case "macaddress":
			c.MACAddress = s
		case "driver":
			c.Driver = s
		case "name":
			c.Name = s
		default:
			return c, fmt.Errorf("%w: match.%s: unknown criterion", ErrConfig, key)
		}
	}
	if c.Empty() {
		return c, fmt.Errorf("%w: at least one match criterion is required", ErrConfig)
	}
	return c, nil
}

func compileOverrides(key string, raw map[string]any) (DHCPOverrides, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected a mapping, got %T", ErrValidation, key, v)
	}
	rec, err := MergeOverrides(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return rec, nil
}

func wantString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: expected a string, got %T", ErrConfig, key, v)
	}
	return s, nil
}

func optionalBool(key string, v any) (bool, error) {
	if v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s: expected a boolean, got %T", ErrConfig, key, v)
	}
	return b, nil
}

func optionalStringList(key string, v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected a list, got %T", ErrConfig, key, v)
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d]: expected a string, got %T", ErrConfig, key, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}
