// Package config is the one collaborator boundary between a YAML
// startup file on disk and the plain Go values internal/devicemgr,
// internal/persistence and internal/scenario are built from. No other
// internal package imports it; cmd/lifx-emulator is its only caller.
package config

import (
	"crypto/md5"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultBindAddr is used when a config document omits bind_addr.
const DefaultBindAddr = "127.0.0.1:56700"

// DeviceSpec describes one device to create at startup.
type DeviceSpec struct {
	Serial   string `yaml:"serial"`
	Product  uint32 `yaml:"product"`
	Label    string `yaml:"label"`
	Location string `yaml:"location"`
	Group    string `yaml:"group"`
}

// Config is the parsed form of a startup YAML document.
type Config struct {
	BindAddr        string       `yaml:"bind_addr"`
	PersistenceDir  string       `yaml:"persistence_dir"`
	ScenarioFile    string       `yaml:"scenario_file"`
	Devices         []DeviceSpec `yaml:"devices"`
}

// Load reads and validates a startup config document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}

	if c.BindAddr == "" {
		c.BindAddr = DefaultBindAddr
	}
	if err := c.validate(); err != nil {
		return nil, errors.Wrapf(err, "validating config %s", path)
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.PersistenceDir == "" {
		return errors.New("persistence_dir is required")
	}
	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		if len(d.Serial) != 12 {
			return fmt.Errorf("devices[%d]: serial %q must be 12 hex characters", i, d.Serial)
		}
		if seen[d.Serial] {
			return fmt.Errorf("devices[%d]: duplicate serial %q", i, d.Serial)
		}
		seen[d.Serial] = true
		if d.Product == 0 {
			return fmt.Errorf("devices[%d]: product is required", i)
		}
	}
	return nil
}

// ParseSerial decodes a 12-character hex serial string into its 6-byte
// form. Load already validates the length; ParseSerial is exposed
// separately so cmd/lifx-emulator can report a decode failure against
// the specific device spec it came from.
func ParseSerial(s string) ([6]byte, error) {
	var out [6]byte
	if len(s) != 12 {
		return out, fmt.Errorf("serial %q must be 12 hex characters", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x%02x%02x",
		&out[0], &out[1], &out[2], &out[3], &out[4], &out[5]); err != nil {
		return out, fmt.Errorf("serial %q is not valid hex: %w", s, err)
	}
	return out, nil
}

// DeriveID produces the 16-byte location/group id LIFX firmware uses
// for a human-readable name, so the same name in config always maps
// to the same id (and hence the same scenario location/group scope)
// across restarts.
func DeriveID(name string) [16]byte {
	return md5.Sum([]byte(name))
}
