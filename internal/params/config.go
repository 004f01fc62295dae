package params

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taylordotfish/plumage/internal/pixel"
)

// Config is the human-editable parameter file. Every field is optional;
// pointer fields distinguish "absent" from a meaningful zero (random_max
// of 0 disables jitter, which is not the same as leaving it unset).
type Config struct {
	Dimensions    *DimensionsConfig `yaml:"dimensions,omitempty"`
	Spread        *SpreadConfig     `yaml:"spread,omitempty"`
	DistancePower *float64          `yaml:"distance_power,omitempty"`
	RandomPower   *float64          `yaml:"random_power,omitempty"`
	RandomMax     *float64          `yaml:"random_max,omitempty"`
	Gamma         *float64          `yaml:"gamma,omitempty"`
	StartColor    *ColorConfig      `yaml:"start_color,omitempty"`
	Seed          string            `yaml:"seed,omitempty"`
}

// DimensionsConfig holds image dimensions with YAML tags.
type DimensionsConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SpreadConfig holds the neighbor window shape with YAML tags.
type SpreadConfig struct {
	Shape string `yaml:"shape"`
	Size  int    `yaml:"size"`
}

// ColorConfig holds a normalized color with YAML tags.
type ColorConfig struct {
	Red   float64 `yaml:"red"`
	Green float64 `yaml:"green"`
	Blue  float64 `yaml:"blue"`
}

// Load reads a parameter file.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read params file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse params file: %w", err)
	}
	return cfg, nil
}

// Save writes a fully resolved parameter set as a config file. Loading it
// back resolves to the identical Params, seed and start color included, so
// a saved file reproduces its run byte for byte.
func Save(p Params, path string) error {
	cfg := Config{
		Dimensions: &DimensionsConfig{
			Width:  p.Dimensions.Width,
			Height: p.Dimensions.Height,
		},
		Spread: &SpreadConfig{
			Shape: string(p.Spread.Shape),
			Size:  p.Spread.Size,
		},
		DistancePower: &p.DistancePower,
		RandomPower:   &p.RandomPower,
		RandomMax:     &p.RandomMax,
		Gamma:         &p.Gamma,
		StartColor: &ColorConfig{
			Red:   p.StartColor.Red,
			Green: p.StartColor.Green,
			Blue:  p.StartColor.Blue,
		},
		Seed: p.Seed.String(),
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write params file: %w", err)
	}
	return nil
}

// Resolve fills every absent field with its default and validates the
// result. Absent seed and start color are drawn from entropy (normally
// crypto/rand); passing the source explicitly keeps generation itself a
// pure function of the resolved Params.
func (c Config) Resolve(entropy io.Reader) (Params, error) {
	p := Params{
		Dimensions:    pixel.Dimensions{Width: DefaultWidth, Height: DefaultHeight},
		Spread:        DefaultSpread,
		DistancePower: DefaultDistancePower,
		RandomPower:   DefaultRandomPower,
		RandomMax:     DefaultRandomMax,
		Gamma:         DefaultGamma,
	}

	if c.Dimensions != nil {
		p.Dimensions = pixel.Dimensions{
			Width:  c.Dimensions.Width,
			Height: c.Dimensions.Height,
		}
	}
	if c.Spread != nil {
		shape, err := ParseShape(c.Spread.Shape)
		if err != nil {
			return Params{}, err
		}
		p.Spread = Spread{Shape: shape, Size: c.Spread.Size}
	}
	if c.DistancePower != nil {
		p.DistancePower = *c.DistancePower
	}
	if c.RandomPower != nil {
		p.RandomPower = *c.RandomPower
	}
	if c.RandomMax != nil {
		p.RandomMax = *c.RandomMax
	}
	if c.Gamma != nil {
		p.Gamma = *c.Gamma
	}

	if c.StartColor != nil {
		p.StartColor = pixel.Color{
			Red:   c.StartColor.Red,
			Green: c.StartColor.Green,
			Blue:  c.StartColor.Blue,
		}
	} else {
		color, err := RandomColor(entropy)
		if err != nil {
			return Params{}, err
		}
		p.StartColor = color
	}

	if c.Seed != "" {
		seed, err := ParseSeed(c.Seed)
		if err != nil {
			return Params{}, err
		}
		p.Seed = seed
	} else {
		seed, err := RandomSeed(entropy)
		if err != nil {
			return Params{}, err
		}
		p.Seed = seed
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// ParseStartColor parses a start color given on the command line. Accepts
// "#rrggbb" hex or "random"; an empty string is treated as "random" and
// reported as absent (nil).
func ParseStartColor(s string) (*ColorConfig, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "random" {
		return nil, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid color %q: expected 6-char hex or \"random\"", s)
	}
	channel := func(part string) (float64, error) {
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return float64(v) / 255, nil
	}

	var cfg ColorConfig
	var err error
	if cfg.Red, err = channel(hex[0:2]); err != nil {
		return nil, err
	}
	if cfg.Green, err = channel(hex[2:4]); err != nil {
		return nil, err
	}
	if cfg.Blue, err = channel(hex[4:6]); err != nil {
		return nil, err
	}
	return &cfg, nil
}
