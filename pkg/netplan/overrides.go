package netplan

import "fmt"

// ValueKind is the declared kind of a DHCP override value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInteger
	KindBool
)

// OverrideValue is one declared override value with its kind tag.
type OverrideValue struct {
	Kind ValueKind
	Bool bool
	Int  int
	Str  string
}

// DHCPOverrides holds the declared keys of one dhcp4-overrides or
// dhcp6-overrides block, keyed by source key (e.g. "use-dns"). Keys absent
// from the map were not declared in the source and must not be rendered;
// policy defaults are never copied in here.
type DHCPOverrides map[string]OverrideValue

// policyEntry declares the kind and default of one recognized override key.
// Defaults describe what the DHCP client does when the key is left unset;
// they drive validation only and are never written into rendered output.
type policyEntry struct {
	kind       ValueKind
	hasDefault bool
	defBool    bool
}

// policyTable is the full set of recognized dhcpN-overrides keys.
var policyTable = map[string]policyEntry{
	"hostname":      {kind: KindString},
	"route-metric":  {kind: KindInteger},
	"send-hostname": {kind: KindBool, hasDefault: true, defBool: true},
	"use-dns":       {kind: KindBool, hasDefault: true, defBool: true},
	"use-domains":   {kind: KindBool, hasDefault: true, defBool: false},
	"use-hostname":  {kind: KindBool, hasDefault: true, defBool: true},
	"use-mtu":       {kind: KindBool, hasDefault: true, defBool: true},
	"use-ntp":       {kind: KindBool, hasDefault: true, defBool: true},
	"use-routes":    {kind: KindBool, hasDefault: true, defBool: true},
}

// MergeOverrides validates a raw dhcpN-overrides mapping against the
// policy table and returns the record of declared keys. Unknown keys and
// kind mismatches are fatal. Keys the source did not declare stay absent.
func MergeOverrides(raw map[string]any) (DHCPOverrides, error) {
	rec := make(DHCPOverrides, len(raw))
	for key, val := range raw {
		entry, ok := policyTable[key]
		if !ok {
			return nil, fmt.Errorf("%w: unknown key %q", ErrValidation, key)
		}
		ov := OverrideValue{Kind: entry.kind}
		switch entry.kind {
		case KindBool:
			b, ok := val.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: key %q: expected a boolean, got %T", ErrValidation, key, val)
			}
			ov.Bool = b
		case KindInteger:
			n, ok := asInt(val)
			if !ok {
				return nil, fmt.Errorf("%w: key %q: expected an integer, got %T", ErrValidation, key, val)
			}
			ov.Int = n
		case KindString:
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: key %q: expected a string, got %T", ErrValidation, key, val)
			}
			ov.Str = s
		}
		rec[key] = ov
	}
	return rec, nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
