// Package config loads curve definitions from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nashmit/TwoBody-1/internal/elements"
	"github.com/nashmit/TwoBody-1/internal/orbit"
	"github.com/nashmit/TwoBody-1/internal/timeconv"
	"github.com/nashmit/TwoBody-1/internal/units"
)

const (
	DefaultSamples = 500
	DefaultUnit    = "km/s"
	DefaultStart   = "60000"
	DefaultEnd     = "60100"
)

var ErrSampling = errors.New("config: invalid sampling")

type Config struct {
	Orbit    OrbitConfig    `yaml:"orbit"`
	Sampling SamplingConfig `yaml:"sampling"`
	Strict   bool           `yaml:"strict,omitempty"`
	MaxIter  int            `yaml:"max_iter,omitempty"`
}

// OrbitConfig names an elements variant and its parameters. Parameter values
// may be bare numbers in days, m/s and radians, or unit-tagged strings.
type OrbitConfig struct {
	Kind   string         `yaml:"kind"`
	Params map[string]any `yaml:"params"`
	Trend  *TrendConfig   `yaml:"trend,omitempty"`
}

type TrendConfig struct {
	Kind   string    `yaml:"kind"`
	Coeffs []float64 `yaml:"coeffs,omitempty"`
	TRef   float64   `yaml:"t_ref,omitempty"`
}

// SamplingConfig is an evenly spaced grid. Start and End are written in
// Format, so ISO dates work as well as MJD numbers.
type SamplingConfig struct {
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
	Samples int    `yaml:"samples"`
	Format  string `yaml:"format,omitempty"`
	Unit    string `yaml:"unit,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Orbit: OrbitConfig{
			Kind: string(elements.KindKepler),
			Params: map[string]any{
				"P": "10 d", "K": "5 km/s", "ecc": 0.0, "omega": 0.0, "phi0": 0.0,
			},
		},
		Sampling: SamplingConfig{
			Start:   DefaultStart,
			End:     DefaultEnd,
			Samples: DefaultSamples,
			Format:  string(timeconv.MJD),
			Unit:    DefaultUnit,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Orbit.Params = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Elements builds validated elements through the variant table.
func (c *Config) Elements() (elements.Elements, error) {
	params := make(map[string]any, len(c.Orbit.Params)+1)
	for k, v := range c.Orbit.Params {
		params[k] = v
	}
	if t := c.Orbit.Trend; t != nil {
		params["trend"] = map[string]any{"kind": t.Kind, "coeffs": t.Coeffs, "t_ref": t.TRef}
	}
	return elements.New(c.Orbit.Kind, params)
}

// BuildOrbit builds the orbit, applying Strict and MaxIter ahead of opts.
func (c *Config) BuildOrbit(opts ...orbit.Option) (*orbit.Orbit, error) {
	el, err := c.Elements()
	if err != nil {
		return nil, err
	}
	var all []orbit.Option
	if c.Strict {
		all = append(all, orbit.WithStrictConvergence())
	}
	if c.MaxIter > 0 {
		all = append(all, orbit.WithMaxIter(c.MaxIter))
	}
	return orbit.New(el, append(all, opts...)...)
}

// Times expands the sampling block into MJD days.
func (c *Config) Times() ([]float64, error) {
	s := c.Sampling
	format, err := timeconv.ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}
	bounds, err := timeconv.ToRawTime([]string{s.Start, s.End}, format)
	if err != nil {
		return nil, err
	}
	start, end := bounds[0], bounds[1]

	switch {
	case s.Samples < 1:
		return nil, fmt.Errorf("%w: samples must be positive, got %d", ErrSampling, s.Samples)
	case end < start:
		return nil, fmt.Errorf("%w: end %s precedes start %s", ErrSampling, s.End, s.Start)
	case s.Samples == 1:
		return []float64{start}, nil
	}

	ts := make([]float64, s.Samples)
	step := (end - start) / float64(s.Samples-1)
	for i := range ts {
		ts[i] = start + step*float64(i)
	}
	return ts, nil
}

// VelocityUnit resolves Sampling.Unit, defaulting to km/s.
func (c *Config) VelocityUnit() (units.VelocityUnit, error) {
	if c.Sampling.Unit == "" {
		return units.KilometrePerSecond, nil
	}
	return units.ParseVelocityUnit(c.Sampling.Unit)
}

// SetSpan overrides the sampling window with MJD bounds.
func (c *Config) SetSpan(start, end float64) {
	c.Sampling.Start = strconv.FormatFloat(start, 'f', -1, 64)
	c.Sampling.End = strconv.FormatFloat(end, 'f', -1, 64)
	c.Sampling.Format = string(timeconv.MJD)
}
