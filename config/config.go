// Package config provides the run configuration of the stimulus generator.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/cfgnet/core"
	"github.com/sarchlab/cfgnet/timing"
	"github.com/sarchlab/cfgnet/topology"
)

// Paths lists the files a run reads and writes. Empty Report, Manifest or
// Log disables that output.
type Paths struct {
	Spec     string `yaml:"spec"`
	Vector   string `yaml:"vector"`
	Probe    string `yaml:"probe"`
	Report   string `yaml:"report"`
	Manifest string `yaml:"manifest"`
	Log      string `yaml:"log"`
}

// Timing holds the testbench timing constants.
type Timing struct {
	BaseTime    int `yaml:"base_time"`
	ClockPeriod int `yaml:"clock_period"`
}

// Config is the run configuration.
type Config struct {
	Paths     Paths   `yaml:"paths"`
	Seed      uint64  `yaml:"seed"` // 0 picks a seed from the wall clock
	MaxRelays int     `yaml:"max_relays"`
	Timing    Timing  `yaml:"timing"`
	ClockMHz  float64 `yaml:"clock_mhz"`
	Loopback  bool    `yaml:"loopback"`
	LogLevel  string  `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	p := timing.DefaultParams()

	return &Config{
		Paths: Paths{
			Spec:   "config_spec.in",
			Vector: "config_vector.in",
			Probe:  "config_probe.in",
		},
		MaxRelays: topology.DefaultMaxRelays,
		Timing: Timing{
			BaseTime:    p.BaseTime,
			ClockPeriod: p.ClockPeriod,
		},
		ClockMHz: 1000,
		Loopback: true,
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. Fields missing from the file
// keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Paths.Spec == "":
		return fmt.Errorf("paths.spec must be set")
	case c.Paths.Vector == "":
		return fmt.Errorf("paths.vector must be set")
	case c.Paths.Probe == "":
		return fmt.Errorf("paths.probe must be set")
	case c.MaxRelays < 1:
		return fmt.Errorf("max_relays must be at least 1, got %d", c.MaxRelays)
	case c.Timing.BaseTime < 0:
		return fmt.Errorf("timing.base_time must not be negative, got %d", c.Timing.BaseTime)
	case c.Timing.ClockPeriod < 1:
		return fmt.Errorf("timing.clock_period must be positive, got %d", c.Timing.ClockPeriod)
	case c.ClockMHz <= 0:
		return fmt.Errorf("clock_mhz must be positive, got %g", c.ClockMHz)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// TimingParams converts the timing section.
func (c *Config) TimingParams() timing.Params {
	return timing.Params{
		BaseTime:    c.Timing.BaseTime,
		ClockPeriod: c.Timing.ClockPeriod,
	}
}

// Freq returns the configuration clock frequency.
func (c *Config) Freq() sim.Freq {
	return sim.Freq(c.ClockMHz) * sim.MHz
}

// Level maps the log level name to a slog level. "trace" selects
// core.LevelTrace, which keeps core.Trace records and drops plain info
// records.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "trace":
		return core.LevelTrace, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
}
