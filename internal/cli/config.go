package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config mirrors the optimize command's flags as a YAML file, for
// users who run the tool with a stable set of options. Flags given on
// the command line win over config file values.
type Config struct {
	Out                string   `yaml:"out"`
	Catalog            string   `yaml:"catalog"`
	NoCompact          bool     `yaml:"no_compact"`
	LightRadiusMax     *float64 `yaml:"light_radius_max"`
	LightBrightnessMax *float64 `yaml:"light_brightness_max"`
	ZeroPhysicsWeight  bool     `yaml:"zero_physics_weight"`
	SkipVerify         bool     `yaml:"skip_verify"`
}

// LoadConfig reads and parses a YAML config file. Unknown keys are
// rejected so a typo'd option fails loudly instead of being ignored.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyConfig folds config file values into opts for every flag the
// user did not set explicitly.
func applyConfig(cfg *Config, opts *OptimizeOptions, flags *pflag.FlagSet) {
	if !flags.Changed("out") && cfg.Out != "" {
		opts.Out = cfg.Out
	}
	if !flags.Changed("catalog") && cfg.Catalog != "" {
		opts.Catalog = cfg.Catalog
	}
	if !flags.Changed("no-compact") {
		opts.NoCompact = cfg.NoCompact
	}
	if !flags.Changed("light-radius-max") && cfg.LightRadiusMax != nil {
		opts.LightRadiusMax = *cfg.LightRadiusMax
	}
	if !flags.Changed("light-brightness-max") && cfg.LightBrightnessMax != nil {
		opts.LightBrightnessMax = *cfg.LightBrightnessMax
	}
	if !flags.Changed("zero-physics-weight") {
		opts.ZeroPhysicsWeight = cfg.ZeroPhysicsWeight
	}
	if !flags.Changed("skip-verify") {
		opts.SkipVerify = cfg.SkipVerify
	}
}
