// Package config loads vehicle and optimizer tuning parameters from JSON.
// All fields are pointers so a partial config file overrides only the
// values it names; everything else falls back to defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apexline/raceline/internal/optimize"
	"github.com/apexline/raceline/internal/sim"
)

// Default tuning values, used for any field the config file omits.
const (
	DefaultScale       = 0.25 // metres per input unit
	DefaultGrip        = 1.6
	DefaultBrakeDecel  = 7.5  // m/s²
	DefaultEnginePower = 7e4  // watts
	DefaultTopSpeed    = 22.0 // m/s
	DefaultSpacing     = 4.0  // resample spacing, input units
)

// Config is the root tuning configuration. The JSON schema mirrors the
// field names below; omitted fields keep their defaults, so partial
// configs are safe.
type Config struct {
	// Calibration and vehicle physics
	Scale       *float64 `json:"scale,omitempty"`        // metres per input unit
	Grip        *float64 `json:"grip,omitempty"`         // tyre grip coefficient
	BrakeDecel  *float64 `json:"brake_decel,omitempty"`  // m/s²
	EnginePower *float64 `json:"engine_power,omitempty"` // watts
	TopSpeed    *float64 `json:"top_speed,omitempty"`    // m/s

	// Geometry
	Spacing *float64 `json:"spacing,omitempty"` // resample spacing, input units

	// Optimizer tuning
	Iterations        *int     `json:"iterations,omitempty"`
	TriesPerIteration *int     `json:"tries_per_iteration,omitempty"`
	MinIterations     *int     `json:"min_iterations,omitempty"`
	MaxOffset         *float64 `json:"max_offset,omitempty"` // input units
	SmoothRounds      *int     `json:"smooth_rounds,omitempty"`
	Workers           *int     `json:"workers,omitempty"`
	Seed              *int64   `json:"seed,omitempty"` // random seed; omit for entropy
}

// Load reads a Config from a JSON file. The path must have a .json
// extension and the file must be under 1MB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects values that would make simulation or optimization
// meaningless.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		v    *float64
	}{
		{"scale", c.Scale},
		{"grip", c.Grip},
		{"brake_decel", c.BrakeDecel},
		{"engine_power", c.EnginePower},
		{"top_speed", c.TopSpeed},
		{"spacing", c.Spacing},
		{"max_offset", c.MaxOffset},
	}
	for _, ch := range checks {
		if ch.v != nil && *ch.v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", ch.name, *ch.v)
		}
	}
	if c.Iterations != nil && *c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", *c.Iterations)
	}
	if c.TriesPerIteration != nil && *c.TriesPerIteration <= 0 {
		return fmt.Errorf("tries_per_iteration must be positive, got %d", *c.TriesPerIteration)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

// SimParams assembles the simulation parameter bundle, applying defaults
// for any unset field.
func (c *Config) SimParams() sim.Params {
	return sim.Params{
		Scale:       orDefault(c.Scale, DefaultScale),
		Grip:        orDefault(c.Grip, DefaultGrip),
		BrakeDecel:  orDefault(c.BrakeDecel, DefaultBrakeDecel),
		EnginePower: orDefault(c.EnginePower, DefaultEnginePower),
		TopSpeed:    orDefault(c.TopSpeed, DefaultTopSpeed),
	}
}

// OptimizeOptions assembles the optimizer options, applying defaults for
// any unset field. The random source is left nil; callers seed it from
// Seed when reproducibility is wanted.
func (c *Config) OptimizeOptions() optimize.Options {
	return optimize.Options{
		Iterations:        orDefaultInt(c.Iterations, optimize.DefaultIterations),
		TriesPerIteration: orDefaultInt(c.TriesPerIteration, optimize.DefaultTriesPerIteration),
		MinIterations:     orDefaultInt(c.MinIterations, optimize.DefaultMinIterations),
		MaxOffset:         orDefault(c.MaxOffset, optimize.DefaultMaxOffset),
		SmoothRounds:      orDefaultInt(c.SmoothRounds, optimize.DefaultSmoothRounds),
		Workers:           orDefaultInt(c.Workers, 1),
	}
}

// ResampleSpacing returns the configured resample spacing in input units.
func (c *Config) ResampleSpacing() float64 {
	return orDefault(c.Spacing, DefaultSpacing)
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func orDefaultInt(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}
