// nplan renders a netplan v2 YAML document into systemd-networkd
// .network units, one per matched physical interface.
//
// It only produces and installs the declarative files; bringing the
// network up is left to systemd-networkd itself.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/psaab/nplan/pkg/netplan"
	"github.com/psaab/nplan/pkg/networkd"
	"github.com/psaab/nplan/pkg/resolver"
)

func main() {
	configFile := flag.String("config", "/etc/netplan/config.yaml", "netplan YAML file path")
	outputDir := flag.String("output-dir", networkd.DefaultNetworkDir, "directory for rendered .network files")
	dryRun := flag.Bool("dry-run", false, "print rendered units to stdout instead of writing files")
	noReload := flag.Bool("no-reload", false, "do not run networkctl reload after writing")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Set up structured logging
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if err := run(*configFile, *outputDir, *dryRun, !*noReload); err != nil {
		fmt.Fprintf(os.Stderr, "nplan: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, outputDir string, dryRun, reload bool) error {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	doc, err := netplan.Load(data)
	if err != nil {
		return fmt.Errorf("%s: %w", configFile, err)
	}
	state, err := netplan.BuildState(doc, resolver.NewSystem())
	if err != nil {
		return fmt.Errorf("%s: %w", configFile, err)
	}
	units := networkd.Render(state)

	if dryRun {
		devices := make([]string, 0, len(units))
		for dev := range units {
			devices = append(devices, dev)
		}
		sort.Strings(devices)
		for _, dev := range devices {
			fmt.Printf("# %s\n%s", dev, units[dev])
		}
		return nil
	}

	return networkd.New(outputDir, reload).Apply(units)
}
