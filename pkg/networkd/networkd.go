// Package networkd renders netplan network state into systemd-networkd
// .network units and manages the rendered files on disk.
package networkd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultNetworkDir is the systemd-networkd configuration directory.
	DefaultNetworkDir = "/etc/systemd/network"
	// filePrefix distinguishes nplan-managed files from manually created ones.
	filePrefix = "10-nplan-"
)

// Manager writes rendered .network units into the networkd configuration
// directory and reloads networkd when anything changed.
type Manager struct {
	networkDir string
	reload     bool
}

// New creates a manager writing into dir (DefaultNetworkDir when empty).
// When reload is set, Apply and Clear run networkctl reload after changes.
func New(dir string, reload bool) *Manager {
	if dir == "" {
		dir = DefaultNetworkDir
	}
	return &Manager{networkDir: dir, reload: reload}
}

// Apply writes one <prefix><device>.network file per rendered unit,
// removes stale nplan-managed files for devices no longer configured, and
// reloads networkd if any file changed. Devices that already have a
// foreign (non-nplan) .network file are skipped so an externally managed
// interface is never overridden.
func (m *Manager) Apply(units map[string]string) error {
	if len(units) == 0 {
		return nil
	}

	external := m.findExternallyManaged()

	devices := make([]string, 0, len(units))
	for dev := range units {
		if external[dev] {
			slog.Warn("skipping externally managed device", "device", dev)
			continue
		}
		devices = append(devices, dev)
	}
	sort.Strings(devices)

	expected := make(map[string]bool, len(devices))
	for _, dev := range devices {
		expected[filePrefix+dev+".network"] = true
	}

	changed := false

	// Remove stale nplan-managed files
	matches, _ := filepath.Glob(filepath.Join(m.networkDir, filePrefix+"*"))
	for _, path := range matches {
		base := filepath.Base(path)
		if !expected[base] {
			if err := os.Remove(path); err != nil {
				slog.Warn("failed to remove stale networkd file", "path", path, "err", err)
			} else {
				slog.Info("removed stale networkd file", "path", path)
				changed = true
			}
		}
	}

	for _, dev := range devices {
		path := filepath.Join(m.networkDir, filePrefix+dev+".network")
		if writeIfChanged(path, units[dev]) {
			changed = true
		}
	}

	if changed && m.reload {
		slog.Info("networkd config updated, reloading", "devices", len(devices))
		if err := exec.Command("networkctl", "reload").Run(); err != nil {
			return fmt.Errorf("networkctl reload: %w", err)
		}
	}

	return nil
}

// Clear removes all nplan-managed networkd files and reloads.
func (m *Manager) Clear() error {
	matches, _ := filepath.Glob(filepath.Join(m.networkDir, filePrefix+"*"))
	if len(matches) == 0 {
		return nil
	}

	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove networkd file", "path", path, "err", err)
		}
	}

	if m.reload {
		if err := exec.Command("networkctl", "reload").Run(); err != nil {
			return fmt.Errorf("networkctl reload: %w", err)
		}
	}
	slog.Info("cleared nplan networkd files", "removed", len(matches))
	return nil
}

// FindExternallyManaged scans the given networkd directory for non-nplan
// .network files and returns the set of device names they match. This
// protects externally configured interfaces (e.g. a management interface
// set up by hand) from being overridden.
func FindExternallyManaged(dir string) map[string]bool {
	result := make(map[string]bool)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return result
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".network") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Name=") {
				ifName := strings.TrimSpace(strings.TrimPrefix(line, "Name="))
				if ifName != "" {
					result[ifName] = true
				}
			}
		}
	}
	return result
}

func (m *Manager) findExternallyManaged() map[string]bool {
	return FindExternallyManaged(m.networkDir)
}

// writeIfChanged writes content to path only if the content differs from
// the existing file. Returns true if the file was written.
func writeIfChanged(path, content string) bool {
	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == content {
		return false
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		slog.Warn("failed to write networkd file", "path", path, "err", err)
		return false
	}

	slog.Info("wrote networkd file", "path", path)
	return true
}
