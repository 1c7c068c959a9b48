package netplan

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the generic parsed form of a netplan config: a string-keyed
// mapping as produced by the YAML loader, before any typed validation.
type Document map[string]any

// Load parses raw YAML into a generic Document. Both the enveloped form
// (a top-level "network:" key, as written under /etc/netplan) and the bare
// mapping are accepted; the returned Document is always the bare form.
func Load(data []byte) (Document, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if inner, ok := doc["network"]; ok {
		m, ok := inner.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: network: expected a mapping, got %T", ErrConfig, inner)
		}
		doc = m
	}
	return doc, nil
}
