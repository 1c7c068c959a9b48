//go:build linux

package resolver

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/safchain/ethtool"
	"github.com/vishvananda/netlink"
)

// System resolves criteria against the devices currently present on the
// host, enumerated through netlink. Driver names come from ethtool with a
// sysfs fallback for virtual NICs that don't implement the ioctl.
type System struct{}

// NewSystem creates a system resolver.
func NewSystem() *System {
	return &System{}
}

// Resolve enumerates present devices and picks the single match.
func (s *System) Resolve(c Criteria) (string, error) {
	devs, err := enumerate(c.Driver != "")
	if err != nil {
		return "", err
	}
	return resolveIn(devs, c)
}

// enumerate lists non-loopback devices. Driver lookup is only performed
// when the criteria need it; it costs one ioctl per interface.
func enumerate(needDriver bool) ([]Device, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	var et *ethtool.Ethtool
	if needDriver {
		if h, err := ethtool.NewEthtool(); err == nil {
			et = h
			defer et.Close()
		}
	}

	var devs []Device
	for _, link := range links {
		attrs := link.Attrs()
		if attrs.Flags&net.FlagLoopback != 0 {
			continue
		}
		d := Device{
			Name: attrs.Name,
			MAC:  attrs.HardwareAddr.String(),
		}
		if needDriver {
			d.Driver = driverName(et, attrs.Name)
		}
		devs = append(devs, d)
	}
	return devs, nil
}

// driverName asks ethtool for the driver, falling back to the sysfs
// driver symlink when the interface doesn't support the ioctl.
func driverName(et *ethtool.Ethtool, ifname string) string {
	if et != nil {
		if drv, err := et.DriverName(ifname); err == nil && drv != "" {
			return drv
		}
	}
	if target, err := os.Readlink("/sys/class/net/" + ifname + "/device/driver"); err == nil {
		return filepath.Base(target)
	}
	return ""
}
