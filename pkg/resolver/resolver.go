// Package resolver maps netplan match criteria to concrete network device
// names. The System implementation enumerates real OS devices; Static
// resolves against a fixed list for tests and offline rendering.
package resolver

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Criteria identifies which physical device an interface entry applies to.
// At least one field must be set; all set fields must match.
type Criteria struct {
	MACAddress string // exact hardware address, case-insensitive
	Driver     string // kernel driver name
	Name       string // device name, glob patterns allowed
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return c.MACAddress == "" && c.Driver == "" && c.Name == ""
}

func (c Criteria) String() string {
	var parts []string
	if c.MACAddress != "" {
		parts = append(parts, "macaddress="+c.MACAddress)
	}
	if c.Driver != "" {
		parts = append(parts, "driver="+c.Driver)
	}
	if c.Name != "" {
		parts = append(parts, "name="+c.Name)
	}
	return strings.Join(parts, ",")
}

var (
	// ErrNoMatch means no present device satisfied the criteria.
	ErrNoMatch = errors.New("no matching device")
	// ErrAmbiguous means more than one present device satisfied the criteria.
	ErrAmbiguous = errors.New("multiple matching devices")
)

// Resolver maps match criteria to exactly one present device name.
type Resolver interface {
	Resolve(c Criteria) (string, error)
}

// Device is one enumerated network device.
type Device struct {
	Name   string
	MAC    string
	Driver string
}

func (d Device) matches(c Criteria) bool {
	if c.MACAddress != "" && !strings.EqualFold(d.MAC, c.MACAddress) {
		return false
	}
	if c.Driver != "" && d.Driver != c.Driver {
		return false
	}
	if c.Name != "" && !nameMatches(c.Name, d.Name) {
		return false
	}
	return true
}

// nameMatches applies glob semantics ("en*"); a malformed pattern falls
// back to a literal comparison.
func nameMatches(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	if err != nil {
		return pattern == name
	}
	return ok
}

// resolveIn picks the single device in devs satisfying c.
func resolveIn(devs []Device, c Criteria) (string, error) {
	var found []string
	for _, d := range devs {
		if d.matches(c) {
			found = append(found, d.Name)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w for %s", ErrNoMatch, c)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w for %s: %s", ErrAmbiguous, c, strings.Join(found, ", "))
	}
}

// Static resolves against a fixed device list.
type Static struct {
	Devices []Device
}

func (s Static) Resolve(c Criteria) (string, error) {
	return resolveIn(s.Devices, c)
}
