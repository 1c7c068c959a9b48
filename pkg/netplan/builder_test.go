package netplan

import (
	"errors"
	"testing"

	"github.com/psaab/nplan/pkg/resolver"
)

var testResolver = resolver.Static{Devices: []resolver.Device{
	{Name: "eth0", MAC: "00:11:22:33:44:55", Driver: "e1000"},
	{Name: "eth1", MAC: "66:77:88:99:00:11", Driver: "virtio_net"},
	{Name: "ens3", MAC: "aa:bb:cc:dd:ee:ff", Driver: "virtio_net"},
}}

func buildConfig(t *testing.T, config string) (*NetworkState, error) {
	t.Helper()
	doc, err := Load([]byte(config))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return BuildState(doc, testResolver)
}

func TestBuildState(t *testing.T) {
	state, err := buildConfig(t, `
network:
  version: 2
  ethernets:
    id0:
      match:
        macaddress: '00:11:22:33:44:55'
      dhcp4: true
      nameservers:
        search: [spam.local, eggs.local]
        addresses: [8.8.8.8, 4.4.4.4]
`)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(state.Interfaces) != 1 {
		t.Fatalf("got %d interfaces, want 1", len(state.Interfaces))
	}
	spec := state.Interfaces[0]
	if spec.ID != "id0" {
		t.Errorf("ID = %q", spec.ID)
	}
	if spec.ResolvedName != "eth0" || spec.Name() != "eth0" {
		t.Errorf("resolved %q, final %q, want eth0", spec.ResolvedName, spec.Name())
	}
	if !spec.DHCP4 || spec.DHCP6 {
		t.Errorf("dhcp4=%v dhcp6=%v, want true/false", spec.DHCP4, spec.DHCP6)
	}
	if spec.DHCP4Overrides != nil || spec.DHCP6Overrides != nil {
		t.Error("no overrides blocks were declared")
	}
	wantSearch := []string{"spam.local", "eggs.local"}
	for i, d := range wantSearch {
		if spec.SearchDomains[i] != d {
			t.Errorf("search[%d] = %q, want %q", i, spec.SearchDomains[i], d)
		}
	}
	wantDNS := []string{"8.8.8.8", "4.4.4.4"}
	for i, a := range wantDNS {
		if spec.DNSAddresses[i] != a {
			t.Errorf("addresses[%d] = %q, want %q", i, spec.DNSAddresses[i], a)
		}
	}
}

func TestBuildStateSetName(t *testing.T) {
	state, err := buildConfig(t, `
network:
  version: 2
  ethernets:
    id0:
      match:
        macaddress: '66:77:88:99:00:11'
      set-name: "ens92"
`)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	spec := state.Interfaces[0]
	if spec.ResolvedName != "eth1" {
		t.Errorf("ResolvedName = %q, want eth1", spec.ResolvedName)
	}
	if spec.Name() != "ens92" {
		t.Errorf("Name() = %q, want ens92", spec.Name())
	}
}

func TestBuildStateSortedByFinalName(t *testing.T) {
	state, err := buildConfig(t, `
network:
  version: 2
  ethernets:
    zz:
      match:
        macaddress: '00:11:22:33:44:55'
      set-name: "aaa0"
    aa:
      match:
        macaddress: '66:77:88:99:00:11'
      set-name: "zzz0"
`)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if state.Interfaces[0].Name() != "aaa0" || state.Interfaces[1].Name() != "zzz0" {
		t.Errorf("interfaces not sorted by final name: %q, %q",
			state.Interfaces[0].Name(), state.Interfaces[1].Name())
	}
}

func TestBuildStateVersionRejected(t *testing.T) {
	for _, config := range []string{
		"network:\n  version: 1\n  ethernets: {}\n",
		"network:\n  version: 3\n  ethernets: {}\n",
		"network:\n  ethernets: {}\n",
		"network:\n  version: two\n  ethernets: {}\n",
	} {
		if _, err := buildConfig(t, config); !errors.Is(err, ErrConfig) {
			t.Errorf("config %q: err = %v, want ErrConfig", config, err)
		}
	}
}

func TestBuildStateMatchRequired(t *testing.T) {
	for _, config := range []string{
		// no match block at all
		"network:\n  version: 2\n  ethernets:\n    id0:\n      dhcp4: true\n",
		// empty match block
		"network:\n  version: 2\n  ethernets:\n    id0:\n      match: {}\n",
		// unknown criterion
		"network:\n  version: 2\n  ethernets:\n    id0:\n      match:\n        serial: abc\n",
	} {
		if _, err := buildConfig(t, config); !errors.Is(err, ErrConfig) {
			t.Errorf("config %q: err = %v, want ErrConfig", config, err)
		}
	}
}

func TestBuildStateMatchByDriverAndName(t *testing.T) {
	state, err := buildConfig(t, `
network:
  version: 2
  ethernets:
    id0:
      match:
        driver: virtio_net
        name: "ens*"
`)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if state.Interfaces[0].ResolvedName != "ens3" {
		t.Errorf("resolved %q, want ens3", state.Interfaces[0].ResolvedName)
	}
}

func TestBuildStateResolverErrors(t *testing.T) {
	_, err := buildConfig(t, `
network:
  version: 2
  ethernets:
    id0:
      match:
        macaddress: 'de:ad:be:ef:00:00'
`)
	if !errors.Is(err, resolver.ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}

	_, err = buildConfig(t, `
network:
  version: 2
  ethernets:
    id0:
      match:
        driver: virtio_net
`)
	if !errors.Is(err, resolver.ErrAmbiguous) {
		t.Errorf("err = %v, want ErrAmbiguous", err)
	}
}

func TestBuildStateOverrideErrors(t *testing.T) {
	_, err := buildConfig(t, `
network:
  version: 2
  ethernets:
    id0:
      match:
        macaddress: '00:11:22:33:44:55'
      dhcp4: true
      dhcp4-overrides:
        use-dnssec: true
`)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("unknown key: err = %v, want ErrValidation", err)
	}

	_, err = buildConfig(t, `
network:
  version: 2
  ethernets:
    id0:
      match:
        macaddress: '00:11:22:33:44:55'
      dhcp6: true
      dhcp6-overrides:
        use-dns: 12
`)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("kind mismatch: err = %v, want ErrValidation", err)
	}
}

func TestBuildStateNoEthernets(t *testing.T) {
	state, err := buildConfig(t, "network:\n  version: 2\n")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(state.Interfaces) != 0 {
		t.Errorf("got %d interfaces, want 0", len(state.Interfaces))
	}
}

func TestBuildStateBadShapes(t *testing.T) {
	for _, config := range []string{
		"network:\n  version: 2\n  ethernets: nope\n",
		"network:\n  version: 2\n  ethernets:\n    id0: nope\n",
		"network:\n  version: 2\n  ethernets:\n    id0:\n      match:\n        macaddress: '00:11:22:33:44:55'\n      dhcp4: maybe\n",
		"network:\n  version: 2\n  ethernets:\n    id0:\n      match:\n        macaddress: '00:11:22:33:44:55'\n      nameservers: [8.8.8.8]\n",
	} {
		if _, err := buildConfig(t, config); !errors.Is(err, ErrConfig) {
			t.Errorf("config %q: err = %v, want ErrConfig", config, err)
		}
	}
}
