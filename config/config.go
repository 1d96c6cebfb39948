package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/flotilla/fleet"
	"github.com/nstehr/flotilla/rules"
	"github.com/nstehr/flotilla/strategy"
)

const DefaultSocket = "/tmp/flotilla.sock"

type Config struct {
	Strategy rules.Doctrine   `yaml:"strategy"`
	Cadence  strategy.Cadence `yaml:"cadence"`
	Fleet    fleet.Options    `yaml:"fleet"`
	Seed     uint64           `yaml:"seed"`
	LogLevel string           `yaml:"log_level"`
	Socket   string           `yaml:"socket"`
}

func Default() Config {
	return Config{
		Strategy: rules.DefaultDoctrine(),
		Cadence:  strategy.DefaultCadence(),
		Fleet:    fleet.DefaultOptions(),
		Seed:     1,
		LogLevel: "info",
		Socket:   DefaultSocket,
	}
}

// Load reads path over the defaults, so a partial file only overrides the
// keys it names.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate rejects values nothing downstream can work with and clamps the
// doctrine into range.
func (c *Config) Validate() error {
	var errs []error
	if c.Cadence.Period < 0 {
		errs = append(errs, fmt.Errorf("cadence.period must be >= 0, got %d", c.Cadence.Period))
	}
	if c.Cadence.MinTurn < 0 {
		errs = append(errs, fmt.Errorf("cadence.min_turn must be >= 0, got %d", c.Cadence.MinTurn))
	}
	if c.Fleet.MaxShipsPerTurn <= 0 {
		errs = append(errs, fmt.Errorf("fleet.max_ships_per_turn must be > 0, got %d", c.Fleet.MaxShipsPerTurn))
	}
	if c.Fleet.SafetyMargin < 0 {
		errs = append(errs, fmt.Errorf("fleet.safety_margin must be >= 0, got %v", c.Fleet.SafetyMargin))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Socket == "" {
		errs = append(errs, errors.New("socket must be set"))
	}
	c.Strategy.Validate()
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
