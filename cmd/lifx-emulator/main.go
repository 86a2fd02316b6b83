// Command lifx-emulator runs a standalone UDP server that impersonates
// a configurable fleet of LIFX lighting devices, for exercising LIFX
// LAN client libraries without physical hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alessio-palumbo/lifx-emulator/internal/config"
	"github.com/alessio-palumbo/lifx-emulator/internal/devicemgr"
	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/logutil"
	"github.com/alessio-palumbo/lifx-emulator/internal/persistence"
	"github.com/alessio-palumbo/lifx-emulator/internal/registry"
	"github.com/alessio-palumbo/lifx-emulator/internal/scenario"
	"github.com/alessio-palumbo/lifx-emulator/internal/transport"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to the emulator's YAML startup config")
	flag.Parse()

	logutil.Init()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "lifx-emulator: -config is required")
		os.Exit(2)
	}

	if err := run(*configPath); err != nil {
		log.WithError(err).Fatal("lifx-emulator exited with an error")
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := persistence.New(cfg.PersistenceDir, persistence.DefaultDebounce, log.WithField("component", "persistence"))
	if err != nil {
		return fmt.Errorf("opening persistence store: %w", err)
	}
	defer store.Close()

	manager := devicemgr.New()
	rules := scenario.NewStore()

	if cfg.ScenarioFile != "" {
		if err := loadScenarioFile(rules, cfg.ScenarioFile); err != nil {
			return fmt.Errorf("loading initial scenario file: %w", err)
		}
	}

	for _, spec := range cfg.Devices {
		d, err := buildDevice(spec, store, rules)
		if err != nil {
			return fmt.Errorf("building device %q: %w", spec.Serial, err)
		}
		manager.Add(d)
	}
	log.WithField("count", manager.Count()).Info("devices ready")

	srv, err := transport.New(cfg.BindAddr, manager, rules, log.WithField("component", "transport"))
	if err != nil {
		return fmt.Errorf("starting transport: %w", err)
	}
	log.WithField("addr", srv.LocalAddr().String()).Info("lifx-emulator listening")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

// buildDevice creates a device from its config spec, restoring any
// persisted state saved under its serial from a previous run, and
// wires its change notifications to fan out to both the persistence
// store (debounced saves) and the scenario rule cache (invalidated so
// a later location/group change is reflected immediately).
func buildDevice(spec config.DeviceSpec, store *persistence.Store, rules *scenario.Store) (*devicestate.Device, error) {
	serialBytes, err := config.ParseSerial(spec.Serial)
	if err != nil {
		return nil, err
	}
	serial := devicestate.Serial(serialBytes)

	features := registry.Lookup(1, spec.Product)
	d := devicestate.New(serial, 1, spec.Product, features, spec.Label)

	if spec.Location != "" {
		d.SetLocation(devicestate.Location{ID: config.DeriveID(spec.Location), Label: spec.Location})
	}
	if spec.Group != "" {
		d.SetGroup(devicestate.Group{ID: config.DeriveID(spec.Group), Label: spec.Group})
	}

	if snap, ok, err := store.Load(serial); err != nil {
		log.WithError(err).WithField("serial", serial.String()).Warn("ignoring unreadable persisted state")
	} else if ok {
		d.Restore(snap)
	}

	d.OnChange(devicemgr.OnChangeFanOut(rules, store.OnChange(d)))
	return d, nil
}

// loadScenarioFile seeds the global scope of rules from a scenario
// YAML file at startup. Per-device/type/location/group scopes are not
// read from any file; they are set only through scenario.Store's
// Set*Rules methods.
func loadScenarioFile(store *scenario.Store, path string) error {
	rs, err := scenario.LoadRuleSetFile(path)
	if err != nil {
		return err
	}
	store.SetGlobalRules(rs)
	return nil
}
